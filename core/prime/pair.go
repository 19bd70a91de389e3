package prime

import (
	"math/big"
	"time"
)

// Pair is an immutable pair of distinct primes with the modulus and totient derived
// once at construction.
type Pair struct {
	p, q       *big.Int
	n, phi     *big.Int
	bitLength  int
	rounds     int
	elapsed    time.Duration
	candidates int
}

// NewPair builds a pair from two values. It fails with ErrInvalidArgument when either
// value is below 2 and with ErrDistinctPrimeFailure when p equals q. Primality is not
// checked here; that is the generator's contract.
func NewPair(p, q *big.Int, bitLength, rounds int) (*Pair, error) {
	if p == nil || q == nil || p.Cmp(two) < 0 || q.Cmp(two) < 0 {
		return nil, ErrInvalidArgument
	}
	if p.Cmp(q) == 0 {
		return nil, ErrDistinctPrimeFailure
	}

	pc := new(big.Int).Set(p)
	qc := new(big.Int).Set(q)
	phi := new(big.Int).Mul(new(big.Int).Sub(pc, one), new(big.Int).Sub(qc, one))

	return &Pair{
		p:         pc,
		q:         qc,
		n:         new(big.Int).Mul(pc, qc),
		phi:       phi,
		bitLength: bitLength,
		rounds:    rounds,
	}, nil
}

func (p *Pair) P() *big.Int   { return new(big.Int).Set(p.p) }
func (p *Pair) Q() *big.Int   { return new(big.Int).Set(p.q) }
func (p *Pair) N() *big.Int   { return new(big.Int).Set(p.n) }
func (p *Pair) Phi() *big.Int { return new(big.Int).Set(p.phi) }

// BitLength is the requested bit length of each prime.
func (p *Pair) BitLength() int { return p.bitLength }

// Rounds is the Miller-Rabin round count both primes passed.
func (p *Pair) Rounds() int { return p.rounds }

// Elapsed is the wall-clock generation time. Zero for pairs built with NewPair.
func (p *Pair) Elapsed() time.Duration { return p.elapsed }

// Candidates is the number of sampled candidates, including rejected ones.
func (p *Pair) Candidates() int { return p.candidates }
