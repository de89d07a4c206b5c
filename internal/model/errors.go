package model

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced to the user.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindOriginUnreachable
	KindLinkUnsupported
	KindAmbiguousOrigin
	KindInvalid
)

// String returns the label printed in front of classified messages.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindOriginUnreachable:
		return "origin unreachable"
	case KindLinkUnsupported:
		return "link unsupported"
	case KindAmbiguousOrigin:
		return "unknown origin"
	case KindInvalid:
		return "invalid"
	default:
		return "internal error"
	}
}

// Sentinels for errors.Is matching on kind.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrOriginUnreachable = &Error{Kind: KindOriginUnreachable}
	ErrLinkUnsupported   = &Error{Kind: KindLinkUnsupported}
	ErrAmbiguousOrigin   = &Error{Kind: KindAmbiguousOrigin}
	ErrInvalid           = &Error{Kind: KindInvalid}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Subject names what the operation was acting on.
	Subject string
	// Message is an optional human-readable detail.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Error returns "<kind>: <subject>: <message>: <cause>", omitting empty parts.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Subject == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first classified error in err's chain, or
// KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
