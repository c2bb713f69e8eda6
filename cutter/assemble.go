package cutter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manveldavid/ArchiveCutter/manifest"
	"github.com/manveldavid/ArchiveCutter/partstore"
)

// AssembleResult describes a reconstructed file.
type AssembleResult struct {
	OutputPath string
	Size       int64
	Parts      []Part
}

// VerifyResult describes a set of parts that all matched their manifest.
type VerifyResult struct {
	ManifestPath string
	Size         int64
	Parts        []Part
}

// Assemble verifies the parts that start at firstPartPath (a "<base>.part"
// file) against "<firstPartPath>.checksum" and concatenates them, in index
// order, into firstPartPath without its ".part" suffix.
//
// Each part is verified before any of its bytes are appended. If anything
// fails once the output exists, the output is removed. Parts and the manifest
// are never modified.
func Assemble(firstPartPath string, opts Options) (AssembleResult, error) {
	set, err := openPartSet(firstPartPath, opts)
	if err != nil {
		return AssembleResult{}, err
	}

	outputPath := set.dir.Path(set.base)
	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return AssembleResult{}, wrapError(KindIO, "", "create output", err)
	}
	fail := func(err error) (AssembleResult, error) {
		_ = out.Close()
		_ = os.Remove(outputPath)
		return AssembleResult{}, err
	}

	res := AssembleResult{OutputPath: outputPath}
	buf := make([]byte, set.opts.BufferSize)
	for i := 0; i < set.count; i++ {
		p, err := set.verify(i)
		if err != nil {
			return fail(err)
		}
		n, err := set.dir.CopyTo(out, p.Name, buf)
		if err != nil {
			return fail(wrapError(KindIO, p.Name, "append part "+p.Name, err))
		}
		if n != p.Size {
			return fail(newError(KindIO, p.Name, fmt.Sprintf("part %s changed while assembling", p.Name)))
		}
		res.Size += n
		res.Parts = append(res.Parts, p)
	}

	if err := out.Sync(); err != nil {
		return fail(wrapError(KindIO, "", "sync output", err))
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outputPath)
		return AssembleResult{}, wrapError(KindIO, "", "close output", err)
	}
	return res, nil
}

// Verify checks every part that starts at firstPartPath against the manifest
// without writing anything.
func Verify(firstPartPath string, opts Options) (VerifyResult, error) {
	set, err := openPartSet(firstPartPath, opts)
	if err != nil {
		return VerifyResult{}, err
	}
	res := VerifyResult{ManifestPath: set.dir.Path(ManifestName(set.base))}
	for i := 0; i < set.count; i++ {
		p, err := set.verify(i)
		if err != nil {
			return VerifyResult{}, err
		}
		res.Size += p.Size
		res.Parts = append(res.Parts, p)
	}
	return res, nil
}

// partSet is the parts directory of one base name plus its manifest.
type partSet struct {
	dir      *partstore.Dir
	base     string
	manifest *manifest.Manifest
	count    int
	opts     Options
}

func openPartSet(firstPartPath string, opts Options) (*partSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if firstPartPath == "" {
		return nil, newError(KindInvalidInput, "", "empty part path")
	}
	name := filepath.Base(firstPartPath)
	base, ok := BaseOfFirstPart(name)
	if !ok {
		return nil, newError(KindInvalidInput, "", fmt.Sprintf("%s is not a first part (expected *%s)", name, PartSuffix))
	}

	dir, err := partstore.Open(filepath.Dir(firstPartPath))
	if err != nil {
		if partstore.IsNotFound(err) {
			return nil, wrapError(KindInvalidInput, "", "parts directory does not exist", err)
		}
		return nil, wrapError(KindIO, "", "open parts directory", err)
	}
	names, err := dir.List()
	if err != nil {
		return nil, wrapError(KindIO, "", "list parts directory", err)
	}
	onDisk := 0
	for _, n := range names {
		if _, ok := PartIndex(base, n); ok {
			onDisk++
		}
	}

	manifestName := ManifestName(base)
	mf, err := manifest.Load(dir.Path(manifestName))
	if err != nil {
		switch {
		case manifest.IsNotFound(err):
			return nil, wrapError(KindManifestMissing, manifestName, "manifest "+manifestName+" not found", err)
		case manifest.IsCorrupt(err):
			return nil, wrapError(KindManifestCorrupt, manifestName, "manifest "+manifestName+" is malformed", err)
		default:
			return nil, wrapError(KindIO, manifestName, "read manifest", err)
		}
	}
	listed := 0
	for _, e := range mf.Entries() {
		if _, ok := PartIndex(base, e.Name); ok {
			listed++
		}
	}

	// Parts on disk and parts named by the manifest must cover the same
	// contiguous index range; whichever is larger sets how far to look.
	count := onDisk
	if listed > count {
		count = listed
	}
	if count == 0 {
		first := PartName(base, 0)
		return nil, newError(KindPartMissing, first, "part "+first+" not found")
	}

	return &partSet{dir: dir, base: base, manifest: mf, count: count, opts: opts}, nil
}

func (s *partSet) verify(i int) (Part, error) {
	name := PartName(s.base, i)
	s.opts.logf("Read part: %s\n", name)

	if !s.dir.Has(name) {
		return Part{}, newError(KindPartMissing, name, "part "+name+" not found")
	}
	want, ok := s.manifest.Lookup(name)
	if !ok {
		return Part{}, newError(KindChecksumMismatch, name, "no manifest entry for "+name)
	}
	dg, err := s.dir.Digest(name)
	if err != nil {
		return Part{}, wrapError(KindIO, name, "hash part "+name, err)
	}
	if !dg.Matches(want) {
		return Part{}, newError(KindChecksumMismatch, name, "invalid checksum ("+name+")")
	}
	size, err := s.dir.Size(name)
	if err != nil {
		return Part{}, wrapError(KindIO, name, "stat part "+name, err)
	}
	return Part{Index: i, Name: name, Size: size, Digest: dg}, nil
}
