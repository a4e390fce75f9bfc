package fixture

import "errors"

// Sentinel errors for fixture generation
var (
	// Input errors
	ErrInvalidLimit     = errors.New("invalid row limit")
	ErrInvalidBuckets   = errors.New("invalid reporting bucket count")
	ErrEmptyPool        = errors.New("name pool is empty")
	ErrInvalidName      = errors.New("invalid name in pool")
	ErrUnknownGenerator = errors.New("unknown generator")

	// Filesystem errors
	ErrCreate = errors.New("failed to create fixture file")
	ErrWrite  = errors.New("failed to write fixture row")
	ErrFlush  = errors.New("failed to flush fixture file")
)
