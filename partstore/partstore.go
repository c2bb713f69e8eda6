package partstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/manveldavid/ArchiveCutter/digest"
)

// Dir is a flat directory of part files and their manifest.
//
// Names are plain file names; anything that would escape the directory is
// rejected. Every method opens the files it needs and closes them before
// returning.
type Dir struct {
	root string
}

// Create returns a Dir rooted at root, creating the directory if needed.
func Create(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("partstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// Open returns a Dir for an existing directory.
func Open(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("partstore: root directory is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) Root() string { return d.root }

// Path returns the full path of name inside the directory.
func (d *Dir) Path(name string) string { return filepath.Join(d.root, name) }

// WritePart creates (or truncates) name and copies at most limit bytes from r
// into it through buf. It stops early when r is exhausted and reports that
// through eof. The file is synced and closed before returning; on failure the
// half-written file is removed.
func (d *Dir) WritePart(name string, r io.Reader, limit int64, buf []byte) (n int64, eof bool, err error) {
	if err := checkName(name); err != nil {
		return 0, false, err
	}
	if len(buf) == 0 {
		return 0, false, errors.New("partstore: empty copy buffer")
	}
	path := d.Path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, false, err
	}

	for n < limit {
		chunk := buf
		if room := limit - n; room < int64(len(chunk)) {
			chunk = chunk[:room]
		}
		read, rerr := r.Read(chunk)
		if read > 0 {
			if _, werr := f.Write(chunk[:read]); werr != nil {
				_ = f.Close()
				_ = os.Remove(path)
				return n, false, werr
			}
			n += int64(read)
		}
		if rerr == io.EOF {
			eof = true
			break
		}
		if rerr != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return n, false, rerr
		}
		if read == 0 {
			// A zero-byte read marks the end of the source.
			eof = true
			break
		}
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return n, false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return n, false, err
	}
	return n, eof, nil
}

// WriteFile replaces name with b.
func (d *Dir) WriteFile(name string, b []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	path := d.Path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Has reports whether name exists as a regular file.
func (d *Dir) Has(name string) bool {
	if checkName(name) != nil {
		return false
	}
	info, err := os.Stat(d.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Size returns the size in bytes of name.
func (d *Dir) Size(name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	info, err := os.Stat(d.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return 0, err
	}
	return info.Size(), nil
}

// Digest hashes the full contents of name.
func (d *Dir) Digest(name string) (digest.Digest, error) {
	if err := checkName(name); err != nil {
		return digest.Digest{}, err
	}
	dg, err := digest.File(d.Path(name))
	if err != nil && os.IsNotExist(err) {
		return digest.Digest{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return dg, err
}

// CopyTo appends the full contents of name to w through buf.
func (d *Dir) CopyTo(w io.Writer, name string, buf []byte) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	f, err := os.Open(d.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return 0, err
	}
	defer f.Close()
	// Strip ReadFrom/WriteTo so the copy goes through buf.
	return io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{f}, buf)
}

// Remove deletes name. Removing a missing file is not an error.
func (d *Dir) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(d.Path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the names of the regular files in the directory, sorted.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
