package prime

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePair(t *testing.T) {
	g := NewGenerator()
	oracle := NewOracle(nil)

	for _, bits := range []int{16, 64, 128, 256} {
		pair, err := g.GeneratePair(bits, 10)
		require.NoError(t, err, "bit length %d", bits)

		p, q := pair.P(), pair.Q()
		assert.NotEqual(t, 0, p.Cmp(q))
		assert.True(t, oracle.IsProbablePrime(p, 20))
		assert.True(t, oracle.IsProbablePrime(q, 20))
		assert.Equal(t, bits, p.BitLen())
		assert.Equal(t, bits, q.BitLen())
		assert.Equal(t, bits, pair.BitLength())
		assert.Equal(t, 10, pair.Rounds())
		assert.GreaterOrEqual(t, pair.Candidates(), 2)
		assert.Positive(t, int64(pair.Elapsed()))
	}
}

func TestGeneratePairDerivedValues(t *testing.T) {
	pair, err := NewGenerator().GeneratePair(128, 10)
	require.NoError(t, err)

	p, q := pair.P(), pair.Q()
	assert.Zero(t, new(big.Int).Mul(p, q).Cmp(pair.N()))

	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	assert.Zero(t, phi.Cmp(pair.Phi()))
}

func TestPairIsImmutable(t *testing.T) {
	pair, err := NewPair(big.NewInt(61), big.NewInt(53), 8, 10)
	require.NoError(t, err)

	pair.P().SetInt64(4)
	pair.N().SetInt64(0)
	assert.Equal(t, int64(61), pair.P().Int64())
	assert.Equal(t, int64(3233), pair.N().Int64())
	assert.Equal(t, int64(3120), pair.Phi().Int64())
}

func TestNewPairRejects(t *testing.T) {
	_, err := NewPair(big.NewInt(7), big.NewInt(7), 8, 10)
	assert.ErrorIs(t, err, ErrDistinctPrimeFailure)

	_, err = NewPair(big.NewInt(1), big.NewInt(7), 8, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewPair(nil, big.NewInt(7), 8, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGeneratePrimeRange(t *testing.T) {
	g := NewGenerator(WithRand(mrand.New(mrand.NewSource(99))))

	for _, bits := range []int{3, 4, 8, 12, 32} {
		p, err := g.GeneratePrime(bits, 10)
		require.NoError(t, err)
		assert.Equal(t, bits, p.BitLen())
		assert.Equal(t, uint(1), p.Bit(0))
	}
}

func TestGeneratePrimeSeededIsReproducible(t *testing.T) {
	a, err := NewGenerator(WithRand(mrand.New(mrand.NewSource(5)))).GeneratePrime(64, 10)
	require.NoError(t, err)
	b, err := NewGenerator(WithRand(mrand.New(mrand.NewSource(5)))).GeneratePrime(64, 10)
	require.NoError(t, err)
	assert.Zero(t, a.Cmp(b))
}

func TestGeneratePrimeInvalidArguments(t *testing.T) {
	g := NewGenerator()

	_, err := g.GeneratePrime(1, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = g.GeneratePrime(64, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = g.GeneratePair(0, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGeneratePrimeExhausted(t *testing.T) {
	// all-ones bytes always yield 255 = 3 * 5 * 17 at 8 bits
	g := NewGenerator(WithRand(constReader(0xff)), WithMaxAttempts(25))

	_, err := g.GeneratePrime(8, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestGeneratePairDistinctFailure(t *testing.T) {
	// 3 is the only 2-bit odd candidate
	g := NewGenerator(WithMaxDistinctRetries(5))

	_, err := g.GeneratePair(2, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDistinctPrimeFailure)
}

func TestGeneratePairRandomnessFailure(t *testing.T) {
	_, err := NewGenerator(WithRand(failingReader{})).GeneratePair(64, 10)
	assert.ErrorIs(t, err, ErrRandomness)
}

func TestHasSmallFactor(t *testing.T) {
	assert.True(t, hasSmallFactor(big.NewInt(9)))
	assert.True(t, hasSmallFactor(big.NewInt(47*53)))
	assert.False(t, hasSmallFactor(big.NewInt(3)), "a small prime is not its own factor")
	assert.False(t, hasSmallFactor(big.NewInt(47)))
	assert.False(t, hasSmallFactor(big.NewInt(53*59)))
}

func BenchmarkGeneratePrime512(b *testing.B) {
	g := NewGenerator()
	for i := 0; i < b.N; i++ {
		if _, err := g.GeneratePrime(512, 10); err != nil {
			b.Fatal(err)
		}
	}
}
