package cutter

import (
	"strconv"
	"strings"
)

// Part files, the manifest and the parts directory are tied together purely
// by name:
//
//	<base>_Parts/<base>.part            index 0
//	<base>_Parts/<base>.part<N>         index N >= 1
//	<base>_Parts/<base>.part.checksum   manifest
const (
	PartSuffix     = ".part"
	ManifestSuffix = ".checksum"
	PartsDirSuffix = "_Parts"
)

// PartName returns the file name of part index i of base.
func PartName(base string, i int) string {
	if i == 0 {
		return base + PartSuffix
	}
	return base + PartSuffix + strconv.Itoa(i)
}

// ManifestName returns the manifest file name for base.
func ManifestName(base string) string {
	return base + PartSuffix + ManifestSuffix
}

// PartsDirName returns the name of the directory holding the parts of base.
func PartsDirName(base string) string {
	return base + PartsDirSuffix
}

// PartIndex parses name as a part of base. It accepts exactly base.part and
// base.part followed by a decimal index >= 1 without leading zeros.
func PartIndex(base, name string) (int, bool) {
	prefix := base + PartSuffix
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	rest := name[len(prefix):]
	if rest == "" {
		return 0, true
	}
	if rest[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// BaseOfFirstPart returns the base name encoded in a first-part file name,
// i.e. name without its trailing ".part".
func BaseOfFirstPart(name string) (string, bool) {
	if !strings.HasSuffix(name, PartSuffix) || len(name) == len(PartSuffix) {
		return "", false
	}
	return strings.TrimSuffix(name, PartSuffix), true
}
