package domain

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates domain failures so boundary layers can map them
// without inspecting messages.
type ErrorKind int

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindInvalidData
	KindAlreadyCompleted
	KindPersistenceFailed
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidData:
		return "invalid_data"
	case KindAlreadyCompleted:
		return "already_completed"
	case KindPersistenceFailed:
		return "persistence_failed"
	default:
		return "unknown"
	}
}

// Error is the single domain error type. Two errors match under errors.Is
// when their kinds are equal, so the sentinels below work for any message.
type Error struct {
	Err     error // Underlying cause (optional)
	Message string
	Kind    ErrorKind
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Domain errors.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "task not found"}
	ErrInvalidData       = &Error{Kind: KindInvalidData, Message: "invalid task data"}
	ErrAlreadyCompleted  = &Error{Kind: KindAlreadyCompleted, Message: "task is already completed"}
	ErrPersistenceFailed = &Error{Kind: KindPersistenceFailed, Message: "failed to persist tasks"}

	// ErrStoreCorrupted is returned by codecs when the stored document
	// cannot be interpreted at all.
	ErrStoreCorrupted = errors.New("task store is corrupted")
)

// NotFoundf returns a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidDataf returns an InvalidData error with a formatted message.
func InvalidDataf(format string, args ...any) error {
	return &Error{Kind: KindInvalidData, Message: fmt.Sprintf(format, args...)}
}

// AlreadyCompletedf returns an AlreadyCompleted error with a formatted message.
func AlreadyCompletedf(format string, args ...any) error {
	return &Error{Kind: KindAlreadyCompleted, Message: fmt.Sprintf(format, args...)}
}

// PersistenceFailedf returns a PersistenceFailed error wrapping cause.
func PersistenceFailedf(cause error, format string, args ...any) error {
	return &Error{Kind: KindPersistenceFailed, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first domain error in err's chain,
// or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
