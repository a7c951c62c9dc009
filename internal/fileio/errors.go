package fileio

import "errors"

var (
	// ErrUnreadableFile is returned by Loader.Load once every candidate
	// encoding and the latin1 + repair fallback have failed.
	ErrUnreadableFile = errors.New("unreadable file")

	ErrEmptyFile       = errors.New("no header row")
	ErrMalformedRow    = errors.New("malformed row")
	ErrInvalidBytes    = errors.New("invalid byte sequence")
	ErrUnknownEncoding = errors.New("unknown encoding")
	ErrUnsupportedFile = errors.New("unsupported file")
)
