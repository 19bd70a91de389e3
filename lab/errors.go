package lab

import "github.com/kochabx/rsalab/errors"

var (
	ErrInvalidSettings = errors.Internal("lab: invalid settings")
	ErrInvalidRequest  = errors.BadRequest("lab: invalid request")
	ErrNoPrimes        = errors.BadRequest("no primes available, generate primes first")
	ErrNoKeys          = errors.BadRequest("no keys available, generate keys first")
	ErrTimeout         = errors.GatewayTimeout("lab: operation timed out")
	ErrCanceled        = errors.New(499, "lab: operation canceled")
	ErrBusy            = errors.ServiceUnavailable("lab: worker pool unavailable")
	ErrPanic           = errors.Internal("lab: operation panicked")
)

func invalid(field, reason string) error {
	return ErrInvalidRequest.WithMetadata(map[string]string{field: reason})
}
