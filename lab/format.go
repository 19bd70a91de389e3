package lab

import (
	"math"
	"math/big"
	"time"
)

const defaultMaxDigits = 50

// FormatLargeNumber shortens the decimal form of n to its leading and trailing
// digits joined by "..." when it has more than maxDigits digits.
func FormatLargeNumber(n *big.Int, maxDigits int) string {
	if n == nil {
		return ""
	}
	if maxDigits <= 0 {
		maxDigits = defaultMaxDigits
	}

	s := n.String()
	if len(s) <= maxDigits {
		return s
	}
	head, tail := maxDigits/2, (maxDigits+1)/2
	return s[:head] + "..." + s[len(s)-tail:]
}

// KeyStrength rates a modulus of the given bit length.
func KeyStrength(bits int) string {
	switch {
	case bits < 1024:
		return "Weak (Educational only)"
	case bits < 2048:
		return "Moderate (Not recommended for production)"
	case bits < 3072:
		return "Strong"
	default:
		return "Very Strong"
	}
}

// EstimateGenerationTime is a rough guess that grows with the square of the bit
// length, anchored at 100ms for 512-bit primes.
func EstimateGenerationTime(bits int) time.Duration {
	factor := math.Pow(float64(bits)/512, 2)
	return time.Duration(factor * float64(100*time.Millisecond))
}
