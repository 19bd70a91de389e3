package rsa

import (
	"math/big"
	"strconv"
	"unicode/utf8"
)

// Codec maps UTF-8 text to integers below a modulus and back.
type Codec struct {
	n         *big.Int
	blockSize int
}

// NewCodec returns a codec for modulus n. The block size is floor((bitlen(n)-1)/8)
// bytes with a minimum of 1, so every full chunk is strictly below n.
func NewCodec(n *big.Int) (*Codec, error) {
	if n == nil || n.Cmp(two) < 0 {
		return nil, ErrInvalidKey
	}

	size := (n.BitLen() - 1) / 8
	if size < 1 {
		size = 1
	}
	return &Codec{n: new(big.Int).Set(n), blockSize: size}, nil
}

// BlockSize is the chunk width in bytes.
func (c *Codec) BlockSize() int {
	return c.blockSize
}

// Encode splits the UTF-8 bytes of text into block-size chunks and reads each chunk
// as a big-endian unsigned integer. The last chunk may be shorter.
func (c *Codec) Encode(text string) ([]*big.Int, error) {
	data := []byte(text)
	values := make([]*big.Int, 0, (len(data)+c.blockSize-1)/c.blockSize)

	for start := 0; start < len(data); start += c.blockSize {
		end := min(start+c.blockSize, len(data))
		v := new(big.Int).SetBytes(data[start:end])
		if v.Cmp(c.n) >= 0 {
			return nil, overflow(len(values)+1, v)
		}
		values = append(values, v)
	}
	return values, nil
}

// Decode is the inverse of Encode. Every block but the last is written back at the
// full block width, so zero bytes inside the message survive. The last block uses its
// minimal big-endian length: NUL bytes at the start of the final chunk are lost.
func (c *Codec) Decode(values []*big.Int) (string, error) {
	if err := c.check(values); err != nil {
		return "", err
	}

	data := make([]byte, 0, len(values)*c.blockSize)
	for i, v := range values {
		if i == len(values)-1 || v.BitLen() > c.blockSize*8 {
			data = append(data, v.Bytes()...)
			continue
		}
		data = append(data, v.FillBytes(make([]byte, c.blockSize))...)
	}

	if !utf8.Valid(data) {
		return "", ErrDecodeUTF8
	}
	return string(data), nil
}

// check rejects nil, negative and out-of-range values.
func (c *Codec) check(values []*big.Int) error {
	for i, v := range values {
		if v == nil || v.Sign() < 0 || v.Cmp(c.n) >= 0 {
			return overflow(i+1, v)
		}
	}
	return nil
}

func overflow(index int, v *big.Int) error {
	value := "<nil>"
	if v != nil {
		value = v.String()
	}
	return ErrBlockOverflow.WithMetadata(map[string]string{
		"block": strconv.Itoa(index),
		"value": value,
	})
}
