package partstore

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/manveldavid/ArchiveCutter/digest"
)

func newDir(t *testing.T) *Dir {
	t.Helper()
	d, err := Create(filepath.Join(t.TempDir(), "x_Parts"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return d
}

func TestCreate_Idempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "f_Parts")
	if _, err := Create(root); err != nil {
		t.Fatalf("Create(1): %v", err)
	}
	if _, err := Create(root); err != nil {
		t.Fatalf("Create(2): %v", err)
	}
	if _, err := Create(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing")); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(file); !errors.Is(err, ErrNotDir) {
		t.Fatalf("expected ErrNotDir, got %v", err)
	}
	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Root() != dir {
		t.Fatalf("unexpected root %s", d.Root())
	}
}

func TestWritePart_StopsAtLimit(t *testing.T) {
	d := newDir(t)
	src := bytes.NewReader(bytes.Repeat([]byte("0123456789"), 10))
	buf := make([]byte, 7)

	n, eof, err := d.WritePart("x.part", src, 25, buf)
	if err != nil {
		t.Fatalf("WritePart: %v", err)
	}
	if n != 25 || eof {
		t.Fatalf("got n=%d eof=%v, want 25 false", n, eof)
	}
	got, err := os.ReadFile(d.Path("x.part"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "0123456789012345678901234" {
		t.Fatalf("unexpected part contents %q", got)
	}
	if src.Len() != 75 {
		t.Fatalf("reader over-consumed: %d bytes left", src.Len())
	}
}

func TestWritePart_ReportsEOF(t *testing.T) {
	d := newDir(t)
	n, eof, err := d.WritePart("x.part", bytes.NewReader([]byte("short")), 1<<20, make([]byte, 4))
	if err != nil {
		t.Fatalf("WritePart: %v", err)
	}
	if n != 5 || !eof {
		t.Fatalf("got n=%d eof=%v, want 5 true", n, eof)
	}

	n, eof, err = d.WritePart("x.part1", bytes.NewReader(nil), 10, make([]byte, 4))
	if err != nil {
		t.Fatalf("WritePart(empty): %v", err)
	}
	if n != 0 || !eof {
		t.Fatalf("got n=%d eof=%v, want 0 true", n, eof)
	}
	if size, err := d.Size("x.part1"); err != nil || size != 0 {
		t.Fatalf("Size = %d, %v", size, err)
	}
}

type failingReader struct{ after int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.after <= 0 {
		return 0, io.ErrClosedPipe
	}
	n := len(p)
	if n > r.after {
		n = r.after
	}
	r.after -= n
	return n, nil
}

func TestWritePart_RemovesFileOnReadError(t *testing.T) {
	d := newDir(t)
	_, _, err := d.WritePart("x.part", &failingReader{after: 3}, 100, make([]byte, 2))
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected read error, got %v", err)
	}
	if d.Has("x.part") {
		t.Fatalf("half-written part must be removed")
	}
}

func TestRejectsEscapingNames(t *testing.T) {
	d := newDir(t)
	for _, name := range []string{"", ".", "..", "../x.part", "a/b"} {
		if _, _, err := d.WritePart(name, bytes.NewReader(nil), 1, make([]byte, 1)); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("WritePart(%q): expected ErrInvalidName, got %v", name, err)
		}
		if err := d.WriteFile(name, nil); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("WriteFile(%q): expected ErrInvalidName, got %v", name, err)
		}
		if d.Has(name) {
			t.Fatalf("Has(%q) should be false", name)
		}
	}
}

func TestDigestAndCopyTo(t *testing.T) {
	d := newDir(t)
	payload := bytes.Repeat([]byte{1, 2, 3}, 1000)
	if err := d.WriteFile("p.part", payload); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := d.Digest("p.part")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if got.Hex() != digest.SumBytes(payload).Hex() {
		t.Fatalf("digest mismatch")
	}

	var out bytes.Buffer
	n, err := d.CopyTo(&out, "p.part", make([]byte, 64))
	if err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(out.Bytes(), payload) {
		t.Fatalf("CopyTo copied %d bytes, contents equal=%v", n, bytes.Equal(out.Bytes(), payload))
	}

	if _, err := d.Digest("nope.part"); !IsNotFound(err) {
		t.Fatalf("Digest missing: expected ErrNotFound, got %v", err)
	}
	if _, err := d.CopyTo(&out, "nope.part", make([]byte, 8)); !IsNotFound(err) {
		t.Fatalf("CopyTo missing: expected ErrNotFound, got %v", err)
	}
	if _, err := d.Size("nope.part"); !IsNotFound(err) {
		t.Fatalf("Size missing: expected ErrNotFound, got %v", err)
	}
}

func TestList_SkipsDirectories(t *testing.T) {
	d := newDir(t)
	for _, name := range []string{"b.part1", "b.part", "b.part.checksum"} {
		if err := d.WriteFile(name, []byte(name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(d.Path("b.part2"), 0o755); err != nil {
		t.Fatal(err)
	}
	names, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"b.part", "b.part.checksum", "b.part1"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List = %v, want %v", names, want)
		}
	}
}

func TestRemove(t *testing.T) {
	d := newDir(t)
	if err := d.WriteFile("r.part", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := d.Remove("r.part"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if d.Has("r.part") {
		t.Fatalf("file still present")
	}
	if err := d.Remove("r.part"); err != nil {
		t.Fatalf("Remove(missing): %v", err)
	}
	if err := d.Remove("../r.part"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
