package partstore

import "errors"

var (
	ErrNotFound    = errors.New("partstore: not found")
	ErrInvalidName = errors.New("partstore: invalid part name")
	ErrNotDir      = errors.New("partstore: not a directory")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
