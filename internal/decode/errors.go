package decode

import "errors"

// Decode failures. Every decoder returns one of these, possibly wrapped with
// the format name; test with errors.Is.
var (
	ErrFileTooSmall  = errors.New("file too small")
	ErrUnknownFormat = errors.New("unknown file format")
	ErrInvalidFormat = errors.New("invalid file format")
	ErrBadExtent     = errors.New("bad lump extent")
	ErrBadRLEPacket  = errors.New("bad run length packet")
	ErrLibrary       = errors.New("library error")
)
