package manifest

import "errors"

var (
	ErrNotFound  = errors.New("manifest: not found")
	ErrCorrupt   = errors.New("manifest: corrupt")
	ErrDuplicate = errors.New("manifest: duplicate part name")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsCorrupt(err error) bool { return errors.Is(err, ErrCorrupt) }
