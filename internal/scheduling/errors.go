package scheduling

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку ядра; транспорт отображает её в код ответа.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInactiveTerm
	KindUndoExpired
	KindAlreadyDeleted
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindInactiveTerm:
		return "INACTIVE_TERM"
	case KindUndoExpired:
		return "UNDO_EXPIRED"
	case KindAlreadyDeleted:
		return "ALREADY_DELETED"
	case KindPersistence:
		return "PERSISTENCE"
	default:
		return "UNKNOWN"
	}
}

// Field заполняется для ошибок валидации.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает по Kind, чтобы errors.Is(err, ErrForbidden) работал для любых сообщений.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrInactiveTerm   = &Error{Kind: KindInactiveTerm}
	ErrUndoExpired    = &Error{Kind: KindUndoExpired}
	ErrAlreadyDeleted = &Error{Kind: KindAlreadyDeleted}
	ErrPersistence    = &Error{Kind: KindPersistence}
)

// KindOf возвращает Kind первой ошибки ядра в цепочке, 0 если её нет.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string, id fmt.Stringer) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

func forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Message: reason}
}

func unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}
