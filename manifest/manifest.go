// Package manifest models the checksum document written next to the parts:
// a JSON object mapping each part file name to its hex digest.
//
// Entries keep the order in which they were added so that the encoded
// document lists parts in creation order. Lookups do not depend on order.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Entry binds one part file name to its digest.
type Entry struct {
	Name   string
	Digest string
}

type Manifest struct {
	entries []Entry
	index   map[string]int
}

func New() *Manifest {
	return &Manifest{index: map[string]int{}}
}

// Add appends an entry. Names must be non-empty and unique.
func (m *Manifest) Add(name, digest string) error {
	if name == "" {
		return fmt.Errorf("manifest: empty part name")
	}
	if m.index == nil {
		m.index = map[string]int{}
	}
	if _, ok := m.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Digest: digest})
	return nil
}

// Lookup returns the digest recorded for name.
func (m *Manifest) Lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.entries[i].Digest, true
}

func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Manifest) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// MarshalJSON writes the entries as a single JSON object in insertion order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Digest)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the pretty-printed document as stored on disk.
func (m *Manifest) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Parse decodes a manifest document. The document must be a single JSON
// object whose values are all strings; repeated keys are rejected.
func Parse(b []byte) (*Manifest, error) {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, corrupt(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, corrupt(fmt.Errorf("expected object, got %v", tok))
	}

	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, corrupt(err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, corrupt(fmt.Errorf("expected key, got %v", tok))
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, corrupt(err)
		}
		value, ok := tok.(string)
		if !ok {
			return nil, corrupt(fmt.Errorf("value for %q is not a string", name))
		}
		if err := m.Add(name, value); err != nil {
			return nil, corrupt(err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, corrupt(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, corrupt(fmt.Errorf("trailing data after object"))
	}
	return m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return Parse(b)
}

func corrupt(cause error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, cause)
}
