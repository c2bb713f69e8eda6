// Package digest computes the SHA2-512 checksums that bind part files to a
// manifest.
//
// Digests are carried as multihashes so the same bytes can be rendered either
// as the manifest's hex string or as a CIDv1 content address.
package digest

import (
	"encoding/hex"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Code is the multihash function used for every part.
const Code = multihash.SHA2_512

// Size is the length in bytes of a raw SHA2-512 digest.
const Size = 64

var ErrInvalid = errors.New("digest: invalid multihash")

// Digest is a SHA2-512 multihash over a byte stream.
type Digest struct {
	mh multihash.Multihash
}

// Sum streams r to EOF and returns its digest.
func Sum(r io.Reader) (Digest, error) {
	mh, err := multihash.SumStream(r, Code, -1)
	if err != nil {
		return Digest{}, err
	}
	return Digest{mh: mh}, nil
}

// SumBytes returns the digest of b.
func SumBytes(b []byte) Digest {
	mh, err := multihash.Sum(b, Code, -1)
	if err != nil {
		// multihash.Sum only errors for unknown codes or bad lengths;
		// with SHA2_512 and -1 length this is unreachable.
		return Digest{}
	}
	return Digest{mh: mh}
}

// File opens path, hashes its full contents and closes it again.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	return Sum(f)
}

// Defined reports whether d holds a digest.
func (d Digest) Defined() bool { return len(d.mh) > 0 }

// Bytes returns the raw digest without the multihash prefix.
func (d Digest) Bytes() []byte {
	if !d.Defined() {
		return nil
	}
	dec, err := multihash.Decode(d.mh)
	if err != nil {
		return nil
	}
	return dec.Digest
}

// Hex returns the manifest form of the digest: upper-case hex with no
// separators.
func (d Digest) Hex() string {
	return strings.ToUpper(hex.EncodeToString(d.Bytes()))
}

// Multihash returns the self-describing multihash bytes.
func (d Digest) Multihash() multihash.Multihash { return d.mh }

// CID returns the CIDv1 (raw codec) addressing the hashed bytes.
func (d Digest) CID() cid.Cid {
	if !d.Defined() {
		return cid.Undef
	}
	return cid.NewCidV1(cid.Raw, d.mh)
}

// Matches reports whether the manifest hex string want equals d.
// The comparison is case-sensitive.
func (d Digest) Matches(want string) bool {
	return d.Defined() && d.Hex() == want
}

func (d Digest) String() string { return d.Hex() }

// ParseHex decodes a manifest hex string back into a Digest.
func ParseHex(s string) (Digest, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, err
	}
	if len(raw) != Size {
		return Digest{}, ErrInvalid
	}
	mh, err := multihash.Encode(raw, Code)
	if err != nil {
		return Digest{}, err
	}
	return Digest{mh: mh}, nil
}
