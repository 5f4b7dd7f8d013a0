package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Store-level sentinels. Repositories map driver errors onto these.
var (
	// ErrRecordNotFound covers both missing documents and malformed identifiers.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateRecord is returned when a uniqueness constraint rejects a write.
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrMediaHost wraps failures of the external media host.
	ErrMediaHost = errors.New("media host failure")
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindDuplicate
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindDuplicate:
		return "duplicate"
	default:
		return "internal"
	}
}

// Error is the single error type returned by application services.
type Error struct {
	Kind    ErrorKind
	Message string
	// Details lists every failing field for validation errors.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Details, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError reports invalid input, one detail per failing field.
func ValidationError(details ...string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Details: details}
}

// NotFoundError reports a missing (or unparseable) resource reference.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ForbiddenError reports an authenticated actor lacking permission.
func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// DuplicateError reports a uniqueness violation.
func DuplicateError(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

// InternalError wraps an unclassified failure. The cause is kept for logging only.
func InternalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
