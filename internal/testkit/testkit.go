// Package testkit holds fixtures shared by the package tests.
package testkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Bytes returns n deterministic, non-repeating-looking bytes.
func Bytes(n int) []byte {
	b := make([]byte, n)
	x := uint32(2463534242)
	for i := range b {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		b[i] = byte(x)
	}
	return b
}

// WriteSource writes Bytes(size) to dir/name and returns its path and bytes.
func WriteSource(t *testing.T, dir, name string, size int) (string, []byte) {
	t.Helper()
	data := Bytes(size)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path, data
}

// FlipByte inverts the byte at offset in the file at path.
func FlipByte(t *testing.T, path string, offset int64) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if offset < 0 || offset >= int64(len(b)) {
		t.Fatalf("offset %d out of range for %d-byte file", offset, len(b))
	}
	b[offset] ^= 0xff
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// RequireFile fails the test unless the file at path holds exactly want.
func RequireFile(t *testing.T, path string, want []byte) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("%s: got %d bytes, want %d (contents differ)", filepath.Base(path), len(got), len(want))
	}
}

// RequireAbsent fails the test if anything exists at path.
func RequireAbsent(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}

// RoundTrip splits source with partSize, assembles it again and returns the
// reconstructed file's path.
type RoundTrip func(t *testing.T, source string, partSize int64) string

// RunRoundTripConformance checks that rt reproduces sources byte for byte for
// part sizes below, equal to and above the source size, including empty
// sources.
func RunRoundTripConformance(t *testing.T, rt RoundTrip) {
	t.Helper()

	cases := []struct {
		name     string
		size     int
		partSize int64
	}{
		{"Empty", 0, 16},
		{"SmallerThanPart", 10, 16},
		{"EqualToPart", 16, 16},
		{"MultipleOfPart", 64, 16},
		{"Remainder", 65, 16},
		{"OneBytePerPart", 7, 1},
		{"SinglePartLarge", 1 << 10, 1 << 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			source, want := WriteSource(t, dir, "source.bin", tc.size)
			out := rt(t, source, tc.partSize)
			RequireFile(t, out, want)
		})
	}
}
