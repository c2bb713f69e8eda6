package cutter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/manveldavid/ArchiveCutter/manifest"
	"github.com/manveldavid/ArchiveCutter/partstore"
)

// SplitResult is what a split leaves on disk.
type SplitResult struct {
	PartsDir     string
	ManifestPath string
	Parts        []Part
}

// Split cuts sourcePath into parts of partSize bytes (the last part may be
// shorter) inside <dir>/<base>_Parts and writes the manifest next to them.
//
// An empty source yields a single empty part. A source whose size is a
// multiple of partSize yields no trailing empty part. Higher-numbered parts
// of the same base left over from an earlier split are removed.
func Split(sourcePath string, partSize int64, opts Options) (SplitResult, error) {
	if err := opts.Validate(); err != nil {
		return SplitResult{}, err
	}
	opts = opts.withDefaults()

	if sourcePath == "" {
		return SplitResult{}, newError(KindInvalidInput, "", "empty source path")
	}
	if partSize <= 0 {
		return SplitResult{}, newError(KindInvalidInput, "", fmt.Sprintf("part size must be a positive number of bytes, got %d", partSize))
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return SplitResult{}, wrapError(KindInvalidInput, "", "file does not exist", err)
		}
		return SplitResult{}, wrapError(KindIO, "", "stat source", err)
	}
	if !info.Mode().IsRegular() {
		return SplitResult{}, newError(KindInvalidInput, "", fmt.Sprintf("%s is not a regular file", sourcePath))
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return SplitResult{}, wrapError(KindIO, "", "open source", err)
	}
	defer src.Close()

	base := filepath.Base(sourcePath)
	dirPath := filepath.Join(filepath.Dir(sourcePath), PartsDirName(base))
	dir, err := partstore.Create(dirPath)
	if err != nil {
		return SplitResult{}, wrapError(KindIO, "", "create parts directory", err)
	}
	opts.logf("Directory created: %s\n", dirPath)
	opts.logf("Create parts:\n")

	r := bufio.NewReaderSize(src, opts.BufferSize)
	buf := make([]byte, opts.BufferSize)
	mf := manifest.New()
	res := SplitResult{PartsDir: dirPath}

	for i := 0; ; i++ {
		name := PartName(base, i)
		opts.logf("\t%s\n", name)

		n, eof, err := dir.WritePart(name, r, partSize, buf)
		if err != nil {
			return res, wrapError(KindIO, name, "write part "+name, err)
		}
		dg, err := dir.Digest(name)
		if err != nil {
			return res, wrapError(KindIO, name, "hash part "+name, err)
		}
		if err := mf.Add(name, dg.Hex()); err != nil {
			return res, wrapError(KindIO, name, "record part "+name, err)
		}
		res.Parts = append(res.Parts, Part{Index: i, Name: name, Size: n, Digest: dg})

		if eof {
			break
		}
		// The part is full; only open another one if the source has bytes left.
		if _, err := r.Peek(1); err != nil {
			if err == io.EOF {
				break
			}
			return res, wrapError(KindIO, "", "read source", err)
		}
	}

	// Drop parts left behind by an earlier, longer split of the same base.
	names, err := dir.List()
	if err != nil {
		return res, wrapError(KindIO, "", "list parts directory", err)
	}
	for _, n := range names {
		if idx, ok := PartIndex(base, n); ok && idx >= len(res.Parts) {
			if err := dir.Remove(n); err != nil {
				return res, wrapError(KindIO, n, "remove stale part "+n, err)
			}
		}
	}

	b, err := mf.Encode()
	if err != nil {
		return res, wrapError(KindIO, "", "encode manifest", err)
	}
	manifestName := ManifestName(base)
	if err := dir.WriteFile(manifestName, b); err != nil {
		return res, wrapError(KindIO, manifestName, "write manifest", err)
	}
	res.ManifestPath = dir.Path(manifestName)
	return res, nil
}
