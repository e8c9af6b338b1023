package service

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/Leganyst/class-scheduler/internal/auth"
	"github.com/Leganyst/class-scheduler/internal/scheduling"
)

const ErrorDomain = "timetable.v1"

var kindCodes = map[scheduling.Kind]codes.Code{
	scheduling.KindValidation:     codes.InvalidArgument,
	scheduling.KindNotFound:       codes.NotFound,
	scheduling.KindUnauthorized:   codes.Unauthenticated,
	scheduling.KindForbidden:      codes.PermissionDenied,
	scheduling.KindConflict:       codes.Aborted,
	scheduling.KindInactiveTerm:   codes.FailedPrecondition,
	scheduling.KindUndoExpired:    codes.FailedPrecondition,
	scheduling.KindAlreadyDeleted: codes.FailedPrecondition,
	scheduling.KindPersistence:    codes.Internal,
}

// toStatus переводит ошибку ядра в gRPC-статус. Причина сбоя хранилища наружу не уходит.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var se *scheduling.Error
	if !errors.As(err, &se) {
		if errors.Is(err, context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, "request timed out")
		}
		return status.Error(codes.Internal, "internal error")
	}

	code, ok := kindCodes[se.Kind]
	if !ok {
		code = codes.Internal
	}
	msg := se.Message
	if se.Kind == scheduling.KindPersistence {
		msg = "internal error"
	}

	st := status.New(code, msg)
	if se.Kind == scheduling.KindValidation {
		return withDetails(st, &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: se.Field, Description: se.Message}},
		})
	}
	return withDetails(st, &errdetails.ErrorInfo{Reason: se.Kind.String(), Domain: ErrorDomain})
}

func withDetails(st *status.Status, detail protoadapt.MessageV1) error {
	if ds, err := st.WithDetails(detail); err == nil {
		return ds.Err()
	}
	return st.Err()
}

func invalidArgument(field, msg string) error {
	return withDetails(status.New(codes.InvalidArgument, msg), &errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: msg}},
	})
}

func isAuthError(err error) bool {
	return errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrUserNotFound) ||
		errors.Is(err, auth.ErrUserInactive)
}

func authStatus(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserInactive):
		return status.Error(codes.PermissionDenied, err.Error())
	case isAuthError(err):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
