// Package prime implements the Miller-Rabin probabilistic primality test and a
// candidate-sampling prime generator built on top of it.
//
// Every source of randomness is an explicit io.Reader. A nil reader selects
// crypto/rand.Reader, which is safe for concurrent use. Any other reader, such as a
// *math/rand.Rand used for reproducible tests, must not be shared between goroutines
// without synchronization.
//
// Example:
//
//	g := prime.NewGenerator()
//	pair, err := g.GeneratePair(512, 10)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pair.N(), pair.Elapsed())
package prime

import (
	"io"
	"math"
	"math/big"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Oracle answers probably-prime or composite for a number and a round count.
type Oracle struct {
	rand io.Reader
}

// NewOracle creates an oracle drawing witnesses from r (crypto/rand.Reader if nil).
func NewOracle(r io.Reader) *Oracle {
	return &Oracle{rand: reader(r)}
}

// IsProbablePrime reports whether n passes rounds Miller-Rabin rounds. A failing
// randomness source yields false: primality is never claimed without completed rounds.
func (o *Oracle) IsProbablePrime(n *big.Int, rounds int) bool {
	ok, err := o.Test(n, rounds)
	return err == nil && ok
}

// Test runs the Miller-Rabin test on n. rounds below 1 are treated as 1. The first
// failing round reports composite without running the remaining ones.
func (o *Oracle) Test(n *big.Int, rounds int) (bool, error) {
	if n == nil || n.Cmp(two) < 0 {
		return false, nil
	}
	if n.Cmp(three) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	if rounds < 1 {
		rounds = 1
	}

	// n-1 = d * 2^r with d odd
	nMinus1 := new(big.Int).Sub(n, one)
	r := nMinus1.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinus1, r)

	// bases are drawn from [2, n-2]
	span := new(big.Int).Sub(n, three)

	for range rounds {
		a, err := randBelow(o.rand, span)
		if err != nil {
			return false, ErrRandomness.WithCause(err)
		}
		a.Add(a, two)

		if !witnessPasses(a, d, n, nMinus1, r) {
			return false, nil
		}
	}
	return true, nil
}

// witnessPasses runs a single round for base a.
func witnessPasses(a, d, n, nMinus1 *big.Int, r uint) bool {
	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return true
	}

	for i := uint(1); i < r; i++ {
		x.Mul(x, x).Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return true
		}
	}
	return false
}

// ErrorProbability is the upper bound on a false "probably prime" after rounds rounds.
func ErrorProbability(rounds int) float64 {
	return math.Pow(0.25, float64(rounds))
}
