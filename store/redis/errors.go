package redis

import (
	"github.com/kochabx/rsalab/errors"
)

var (
	ErrInvalidConfig  = errors.Internal("redis: invalid configuration")
	ErrEmptyAddrs     = errors.Internal("redis: addrs cannot be empty")
	ErrInvalidTimeout = errors.Internal("redis: invalid timeout value")
	ErrUnavailable    = errors.ServiceUnavailable("redis: unavailable")
)
