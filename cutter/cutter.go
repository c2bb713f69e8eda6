// Package cutter splits a file into fixed-size parts bound to a checksum
// manifest, and verifies and reassembles such parts into the original file.
//
// A split of /data/movie.mkv with part size S produces
//
//	/data/movie.mkv_Parts/movie.mkv.part
//	/data/movie.mkv_Parts/movie.mkv.part1
//	...
//	/data/movie.mkv_Parts/movie.mkv.part.checksum
//
// and assembling /data/movie.mkv_Parts/movie.mkv.part writes
// /data/movie.mkv_Parts/movie.mkv. Every part is checked against the
// manifest before any of its bytes reach the output.
//
// All operations are sequential and single-shot. File handles are opened
// right before use and closed before the next step.
package cutter

import "github.com/manveldavid/ArchiveCutter/digest"

// Part describes one part file.
type Part struct {
	Index  int
	Name   string
	Size   int64
	Digest digest.Digest
}
