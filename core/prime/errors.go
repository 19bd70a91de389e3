package prime

import "github.com/kochabx/rsalab/errors"

var (
	// ErrInvalidArgument reports a bit length below 2, a round count below 1 or a
	// prime value below 2.
	ErrInvalidArgument = errors.BadRequest("prime: invalid argument")

	// ErrGenerationExhausted reports that no candidate passed within the attempt bound.
	ErrGenerationExhausted = errors.Internal("prime: generation exhausted")

	// ErrDistinctPrimeFailure reports that p and q could not be made distinct.
	ErrDistinctPrimeFailure = errors.Internal("prime: distinct prime failure")

	// ErrRandomness reports a failing randomness source.
	ErrRandomness = errors.Internal("prime: randomness source failed")
)
