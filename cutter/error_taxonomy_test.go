package cutter

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_KindAndPartSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("assemble: %w", newError(KindChecksumMismatch, "a.part1", "invalid checksum (a.part1)"))
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *cutter.Error, got %T", err)
	}
	if e.Kind != KindChecksumMismatch {
		t.Fatalf("expected KindChecksumMismatch, got %s", e.Kind)
	}
	if !IsKind(err, KindChecksumMismatch) || IsKind(err, KindIO) {
		t.Fatalf("IsKind mismatch for %v", err)
	}
	if PartOf(err) != "a.part1" {
		t.Fatalf("expected part a.part1, got %q", PartOf(err))
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	err := wrapError(KindIO, "", "write part", io.ErrShortWrite)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected cause to be reachable through errors.Is")
	}
	if err.Error() != "write part: short write" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if got := wrapError(KindIO, "", "no cause", nil); got.Error() != "no cause" {
		t.Fatalf("unexpected message %q", got.Error())
	}
}

func TestError_PlainErrors(t *testing.T) {
	plain := errors.New("plain")
	if IsKind(plain, KindIO) || PartOf(plain) != "" {
		t.Fatalf("plain errors carry no kind or part")
	}
	var e *Error
	if e.Error() != "<nil>" || e.Unwrap() != nil {
		t.Fatalf("nil *Error should be inert")
	}
}
