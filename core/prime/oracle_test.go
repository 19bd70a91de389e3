package prime

import (
	"errors"
	"math"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constReader yields the same byte forever.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy pool drained")
}

func TestOracleComposites(t *testing.T) {
	oracle := NewOracle(nil)

	composites := []int64{4, 6, 8, 9, 10, 12, 14, 15, 16, 18, 20, 21, 22, 24, 25, 26, 27, 28}
	for _, c := range composites {
		assert.False(t, oracle.IsProbablePrime(big.NewInt(c), 20), "%d is composite", c)
	}
}

func TestOracleCarmichaelNumbers(t *testing.T) {
	oracle := NewOracle(nil)

	for _, c := range []int64{561, 1105, 1729, 2465, 2821} {
		assert.False(t, oracle.IsProbablePrime(big.NewInt(c), 20), "carmichael number %d", c)
	}
}

func TestOracleKnownPrimes(t *testing.T) {
	oracle := NewOracle(nil)

	primes := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47,
		982451653, 2147483647, 1000000007}
	for _, p := range primes {
		assert.True(t, oracle.IsProbablePrime(big.NewInt(p), 20), "%d is prime", p)
	}

	// 2^127 - 1
	mersenne := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	assert.True(t, oracle.IsProbablePrime(mersenne, 20))
}

func TestOracleEdgeValues(t *testing.T) {
	oracle := NewOracle(nil)

	assert.False(t, oracle.IsProbablePrime(nil, 5))
	assert.False(t, oracle.IsProbablePrime(big.NewInt(-7), 5))
	assert.False(t, oracle.IsProbablePrime(big.NewInt(0), 5))
	assert.False(t, oracle.IsProbablePrime(big.NewInt(1), 5))
	assert.True(t, oracle.IsProbablePrime(big.NewInt(2), 0), "rounds below 1 still answer")
	assert.True(t, oracle.IsProbablePrime(big.NewInt(5), 0))
}

func TestOracleInjectedWitness(t *testing.T) {
	// An all-zero source always draws base 2, and 2047 = 23 * 89 is the smallest
	// strong pseudoprime to base 2.
	fixed := NewOracle(constReader(0))
	assert.True(t, fixed.IsProbablePrime(big.NewInt(2047), 20))
	assert.False(t, fixed.IsProbablePrime(big.NewInt(561), 20))

	random := NewOracle(nil)
	assert.False(t, random.IsProbablePrime(big.NewInt(2047), 20))
}

func TestOracleSeededIsReproducible(t *testing.T) {
	n := big.NewInt(1000000007)
	a := NewOracle(mrand.New(mrand.NewSource(7)))
	b := NewOracle(mrand.New(mrand.NewSource(7)))

	for range 5 {
		assert.Equal(t, a.IsProbablePrime(n, 3), b.IsProbablePrime(n, 3))
	}
}

func TestOracleRandomnessFailure(t *testing.T) {
	oracle := NewOracle(failingReader{})

	ok, err := oracle.Test(big.NewInt(1000000007), 5)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrRandomness)
	assert.False(t, oracle.IsProbablePrime(big.NewInt(1000000007), 5))

	// trivial answers need no randomness
	ok, err = oracle.Test(big.NewInt(3), 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestErrorProbability(t *testing.T) {
	assert.Equal(t, 0.25, ErrorProbability(1))
	assert.InDelta(t, math.Pow(0.25, 10), ErrorProbability(10), 1e-18)
	assert.Equal(t, 1.0, ErrorProbability(0))
}

func TestRandBelowStaysInRange(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	max := big.NewInt(1000)
	for range 200 {
		v, err := randBelow(r, max)
		require.NoError(t, err)
		assert.True(t, v.Sign() >= 0 && v.Cmp(max) < 0, "value %s", v)
	}

	v, err := randBelow(r, big.NewInt(1))
	require.NoError(t, err)
	assert.Zero(t, v.Sign())
}
