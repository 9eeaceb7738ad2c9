package texture

import (
	"errors"
	"io/fs"
)

// Lookup failures. Decode failures from package decode pass through
// unchanged.
var (
	ErrNotFound       = errors.New("no such file")
	ErrNameTooShort   = errors.New("name too short")
	ErrNameTooLong    = errors.New("name too long")
	ErrInvalidPath    = errors.New("invalid path")
	ErrOutOfSlots     = errors.New("out of image slots")
	ErrNotInitialized = errors.New("image manager not initialized")
)

// IsNotFound reports whether err means the file is absent rather than
// broken. Lookups never log these.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
