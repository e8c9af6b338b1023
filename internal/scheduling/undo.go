package scheduling

import (
	"time"

	"github.com/Leganyst/class-scheduler/internal/model"
)

const DefaultUndoWindow = 10 * time.Second

// WithinUndoWindow включает границу: ровно window после создания ещё можно отменить.
func WithinUndoWindow(createdAt, now time.Time, window time.Duration) bool {
	return now.Sub(createdAt) <= window
}

func checkUndoable(s *model.Schedule, now time.Time, window time.Duration) error {
	if s.IsDeleted {
		return &Error{Kind: KindAlreadyDeleted, Message: "Schedule is already deleted"}
	}
	if !WithinUndoWindow(s.CreatedAt, now, window) {
		return &Error{Kind: KindUndoExpired, Message: "Undo window has expired"}
	}
	return nil
}
