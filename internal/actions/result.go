package actions

import (
	"errors"

	apperrors "portfolio-cms/pkg/errors"
	"portfolio-cms/pkg/metrics"
)

// Kind classifies why an action did not produce a value.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

const (
	msgUnauthenticated = "sign in to continue"
	msgUnauthorized    = "you don't have permission to perform this action"
	msgInternal        = "something went wrong, please try again"
)

// Failure is the error half of a Result. Message is safe to show to the
// caller; the cause is kept for logs only.
type Failure struct {
	Kind    Kind
	Message string
	cause   error
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// Result is returned by every action. Exactly one of Value and Err is
// meaningful: Err is nil on success.
type Result[T any] struct {
	Value T
	Err   *Failure
}

func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Unpack converts the result into the usual value, error pair.
func (r Result[T]) Unpack() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failed[T any](f *Failure) Result[T] {
	return Result[T]{Err: f}
}

func fail(kind Kind, msg string, cause error) *Failure {
	return &Failure{Kind: kind, Message: msg, cause: cause}
}

func invalid(err error) *Failure {
	return fail(KindValidation, err.Error(), err)
}

// classify maps an error returned after authorization into a Failure. It
// never yields KindUnauthorized: a failed write is not a permission problem.
func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	message := msgInternal
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fail(KindNotFound, message, err)
	case errors.Is(err, apperrors.ErrConflict):
		return fail(KindConflict, message, err)
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBadRequest):
		return fail(KindValidation, message, err)
	default:
		return fail(KindInternal, msgInternal, err)
	}
}

func outcome(f *Failure) string {
	if f == nil {
		return metrics.OutcomeOK
	}
	switch f.Kind {
	case KindUnauthorized:
		return metrics.OutcomeDenied
	case KindUnauthenticated:
		return metrics.OutcomeUnauthorized
	case KindInternal:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeInvalid
	}
}
