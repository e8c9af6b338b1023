// Package timetablev1 описывает gRPC-контракт TimetableService. Сообщения ходят в JSON
// (content-subtype "json"), поэтому это обычные структуры, а не сгенерированный код.
package timetablev1

import "time"

// Placement — поля размещения; идентификаторы передаются строками UUID.
type Placement struct {
	ClassID        string `json:"class_id"`
	SubjectID      string `json:"subject_id"`
	FacultyID      string `json:"faculty_id,omitempty"`
	RoomID         string `json:"room_id,omitempty"`
	Day            string `json:"day"`
	Mode           string `json:"mode,omitempty"`
	AcademicTermID string `json:"academic_term_id,omitempty"`
	PeriodStartID  string `json:"period_start_id"`
	PeriodEndID    string `json:"period_end_id"`
}

type Schedule struct {
	ID             string    `json:"id"`
	ClassID        string    `json:"class_id"`
	SubjectID      string    `json:"subject_id"`
	FacultyID      string    `json:"faculty_id,omitempty"`
	RoomID         string    `json:"room_id,omitempty"`
	DepartmentID   string    `json:"department_id"`
	Day            string    `json:"day"`
	Mode           string    `json:"mode"`
	AcademicTermID string    `json:"academic_term_id"`
	PeriodStartID  string    `json:"period_start_id"`
	PeriodEndID    string    `json:"period_end_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Conflict struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Class   []*Schedule `json:"class,omitempty"`
	Room    []*Schedule `json:"room,omitempty"`
	Faculty []*Schedule `json:"faculty,omitempty"`
}

// ProposeScheduleRequest: пустой ID — создание, иначе изменение.
type ProposeScheduleRequest struct {
	ID string `json:"id,omitempty"`
	Placement
	Force bool `json:"force,omitempty"`
}

type ProposeScheduleResponse struct {
	Status               string    `json:"status"`
	Schedule             *Schedule `json:"schedule,omitempty"`
	Conflict             *Conflict `json:"conflict,omitempty"`
	ReplacedIDs          []string  `json:"replaced_ids,omitempty"`
	Warnings             []string  `json:"warnings,omitempty"`
	UndoExpiresInSeconds int64     `json:"undo_expires_in_seconds,omitempty"`
}

type RemoveScheduleRequest struct {
	ID string `json:"id"`
}

type RemoveScheduleResponse struct {
	ID       string   `json:"id"`
	Warnings []string `json:"warnings,omitempty"`
}

type UndoCreateRequest struct {
	ID string `json:"id"`
}

type UndoCreateResponse struct {
	ID       string   `json:"id"`
	Undone   bool     `json:"undone"`
	Warnings []string `json:"warnings,omitempty"`
}

type PreviewConflictsRequest struct {
	ID string `json:"id,omitempty"`
	Placement
}

type PreviewConflictsResponse struct {
	Class      []*Schedule `json:"class"`
	Room       []*Schedule `json:"room"`
	Faculty    []*Schedule `json:"faculty"`
	RoomPolicy []*Schedule `json:"room_policy"`
	Blocking   *Conflict   `json:"blocking,omitempty"`
}

type ListSchedulesRequest struct {
	View           string `json:"view"`
	TargetID       string `json:"target_id"`
	AcademicTermID string `json:"academic_term_id,omitempty"`
	Page           int32  `json:"page,omitempty"`
	PageSize       int32  `json:"page_size,omitempty"`
}

type ListedSchedule struct {
	Schedule *Schedule `json:"schedule"`
	CanEdit  bool      `json:"can_edit"`
}

type ListSchedulesResponse struct {
	Items    []*ListedSchedule `json:"items"`
	Page     int32             `json:"page"`
	PageSize int32             `json:"page_size"`
	Total    int64             `json:"total"`
	HasNext  bool              `json:"has_next"`
	HasPrev  bool              `json:"has_prev"`
}
