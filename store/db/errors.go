package db

import "github.com/kochabx/rsalab/errors"

var (
	ErrUnsupportedDriver = errors.BadRequest("db: unsupported driver")
	ErrInvalidConfig     = errors.Internal("db: invalid config")
	ErrNotInitialized    = errors.Internal("db: not initialized")
	ErrUnavailable       = errors.ServiceUnavailable("db: unavailable")
)
