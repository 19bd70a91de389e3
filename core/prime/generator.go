package prime

import (
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	DefaultMaxAttempts        = 10000
	DefaultMaxDistinctRetries = 100
)

// smallPrimes pre-filters candidates before the oracle runs.
var smallPrimes = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}

// Generator samples random odd candidates of a requested bit length and returns the
// first one that survives trial division and the oracle.
type Generator struct {
	rand               io.Reader
	oracle             *Oracle
	maxAttempts        int
	maxDistinctRetries int
}

type Option func(*Generator)

// WithRand sets the randomness source for candidates and witnesses.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithMaxAttempts bounds the number of candidates sampled per prime.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithMaxDistinctRetries bounds the number of q re-draws while q equals p.
func WithMaxDistinctRetries(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxDistinctRetries = n
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		maxAttempts:        DefaultMaxAttempts,
		maxDistinctRetries: DefaultMaxDistinctRetries,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rand = reader(g.rand)
	g.oracle = NewOracle(g.rand)
	return g
}

// Oracle returns the oracle used by g.
func (g *Generator) Oracle() *Oracle {
	return g.oracle
}

// GeneratePrime returns a probable prime in [2^(bitLength-1), 2^bitLength - 1].
func (g *Generator) GeneratePrime(bitLength, rounds int) (*big.Int, error) {
	p, _, err := g.generate(bitLength, rounds)
	return p, err
}

// GeneratePair generates p and then q, re-drawing q while it equals p.
func (g *Generator) GeneratePair(bitLength, rounds int) (*Pair, error) {
	start := time.Now()

	p, sampled, err := g.generate(bitLength, rounds)
	if err != nil {
		return nil, err
	}
	q, n, err := g.generate(bitLength, rounds)
	if err != nil {
		return nil, err
	}
	sampled += n

	for retries := 0; q.Cmp(p) == 0; retries++ {
		if retries >= g.maxDistinctRetries {
			return nil, ErrDistinctPrimeFailure.WithMetadata(map[string]string{
				"bit_length": strconv.Itoa(bitLength),
				"retries":    strconv.Itoa(retries),
			})
		}
		if q, n, err = g.generate(bitLength, rounds); err != nil {
			return nil, err
		}
		sampled += n
	}

	pair, err := NewPair(p, q, bitLength, rounds)
	if err != nil {
		return nil, err
	}
	pair.elapsed = time.Since(start)
	pair.candidates = sampled
	return pair, nil
}

// generate returns the accepted prime and the number of candidates sampled.
func (g *Generator) generate(bitLength, rounds int) (*big.Int, int, error) {
	if bitLength < 2 || rounds < 1 {
		return nil, 0, ErrInvalidArgument.WithMetadata(map[string]string{
			"bit_length": strconv.Itoa(bitLength),
			"rounds":     strconv.Itoa(rounds),
		})
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate, err := randBits(g.rand, bitLength)
		if err != nil {
			return nil, attempt, ErrRandomness.WithCause(err)
		}
		if hasSmallFactor(candidate) {
			continue
		}

		ok, err := g.oracle.Test(candidate, rounds)
		if err != nil {
			return nil, attempt, err
		}
		if ok {
			return candidate, attempt, nil
		}
	}

	return nil, g.maxAttempts, ErrGenerationExhausted.WithMetadata(map[string]string{
		"bit_length": strconv.Itoa(bitLength),
		"attempts":   strconv.Itoa(g.maxAttempts),
	})
}

// hasSmallFactor reports whether n is divisible by a small prime smaller than n.
func hasSmallFactor(n *big.Int) bool {
	m := new(big.Int)
	for _, sp := range smallPrimes {
		div := new(big.Int).SetUint64(sp)
		if div.Cmp(n) >= 0 {
			return false
		}
		if m.Mod(n, div).Sign() == 0 {
			return true
		}
	}
	return false
}
