package cutter

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindInvalidInput     Kind = "InvalidInput"
	KindIO               Kind = "IO"
	KindManifestMissing  Kind = "ManifestMissing"
	KindManifestCorrupt  Kind = "ManifestCorrupt"
	KindChecksumMismatch Kind = "ChecksumMismatch"
	KindPartMissing      Kind = "PartMissing"
)

// Error is the package's structured error type.
//
// Part names the part file involved, when there is one.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Part    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, part, msg string) error {
	return &Error{Kind: kind, Part: part, Message: msg}
}

func wrapError(kind Kind, part, msg string, cause error) error {
	if cause == nil {
		return newError(kind, part, msg)
	}
	return &Error{Kind: kind, Part: part, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// PartOf returns the part file name carried by a structured error, or "".
func PartOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Part
}
