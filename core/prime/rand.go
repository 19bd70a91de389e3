package prime

import (
	"crypto/rand"
	"io"
	"math/big"
)

func reader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// randBelow returns a uniform integer in [0, max) by rejection sampling on r.
// Only the bytes drawn from r decide the result, so a fixed reader gives a fixed value.
func randBelow(r io.Reader, max *big.Int) (*big.Int, error) {
	if max.Cmp(one) <= 0 {
		return new(big.Int), nil
	}

	bitLen := new(big.Int).Sub(max, one).BitLen()
	buf := make([]byte, (bitLen+7)/8)
	v := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		if excess := len(buf)*8 - bitLen; excess > 0 {
			buf[0] &= byte(0xff >> excess)
		}
		v.SetBytes(buf)
		if v.Cmp(max) < 0 {
			return v, nil
		}
	}
}

// randBits returns a value with exactly bitLength bits whose lowest bit is set.
func randBits(r io.Reader, bitLength int) (*big.Int, error) {
	buf := make([]byte, (bitLength+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if excess := len(buf)*8 - bitLength; excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}

	v := new(big.Int).SetBytes(buf)
	v.SetBit(v, bitLength-1, 1)
	v.SetBit(v, 0, 1)
	return v, nil
}
