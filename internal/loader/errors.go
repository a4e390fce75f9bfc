package loader

import "errors"

var (
	ErrMalformedRow = errors.New("malformed row")
	ErrInvalidTable = errors.New("invalid table id")
	ErrInsertFailed = errors.New("insert failed")
)
