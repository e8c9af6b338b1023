// Package notify публикует события изменения расписаний для клиентов реального времени.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventCreated  EventType = "schedule.created"
	EventUpdated  EventType = "schedule.updated"
	EventDeleted  EventType = "schedule.deleted"
	EventUndone   EventType = "schedule.undone"
	EventReplaced EventType = "schedule.replaced"
)

type Event struct {
	Type       EventType `json:"type"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	TermID     uuid.UUID `json:"term_id"`
	Day        string    `json:"day"`
	ClassID    uuid.UUID `json:"class_id"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher отправляет события в канал Redis pub/sub.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return pkgerrors.Wrap(err, "marshal event")
	}
	return pkgerrors.Wrapf(p.client.Publish(ctx, p.channel, payload).Err(), "publish to %s", p.channel)
}

// LogPublisher пишет события в лог; используется, когда Redis не настроен.
type LogPublisher struct {
	log *logrus.Entry
}

func NewLogPublisher(log *logrus.Entry) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) error {
	p.log.WithFields(logrus.Fields{
		"type":        ev.Type,
		"schedule_id": ev.ScheduleID,
		"term_id":     ev.TermID,
		"day":         ev.Day,
		"class_id":    ev.ClassID,
	}).Info("schedule change")
	return nil
}

// Recorder копит события в памяти.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.Events = append(r.Events, ev)
	return nil
}
