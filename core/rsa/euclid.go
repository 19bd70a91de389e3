package rsa

import "math/big"

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// gcd computes the greatest common divisor of |a| and |b| with the iterative
// Euclidean algorithm. The inputs are not modified.
func gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	r := new(big.Int)
	for y.Sign() != 0 {
		r.Mod(x, y)
		x, y, r = y, r, x
	}
	return x
}

// extendedGCD returns g, x, y with a*x + b*y = g = gcd(a, b) for non-negative a, b.
// It keeps only the last two remainders and coefficient rows, so stack usage does
// not depend on the operand size.
func extendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	quotient := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		quotient.Quo(oldR, r)

		tmp.Mul(quotient, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(quotient, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(quotient, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}
	return oldR, oldS, oldT
}

// modInverse returns x in [0, m) with a*x ≡ 1 (mod m).
func modInverse(a, m *big.Int) (*big.Int, error) {
	if m.Cmp(one) <= 0 || a.Sign() <= 0 {
		return nil, ErrModularInverseNotExist
	}

	g, x, _ := extendedGCD(new(big.Int).Mod(a, m), m)
	if g.Cmp(one) != 0 {
		return nil, ErrModularInverseNotExist.WithMetadata(map[string]string{"gcd": g.String()})
	}
	return x.Mod(x, m), nil
}
