package rsa

import (
	"math/big"
	"time"
)

// MessageBlock is one chunk of a message. Index is 1-based; Cipher is nil until the
// block has been encrypted.
type MessageBlock struct {
	Index  int
	Plain  *big.Int
	Cipher *big.Int
}

// Operation is the outcome of Encrypt or Decrypt. On failure Blocks is nil and Err
// holds the same error that was returned.
type Operation struct {
	Success bool
	Text    string
	Blocks  []MessageBlock
	Elapsed time.Duration
	Err     error
}

// CipherValues returns the cipher integers in block order.
func (o *Operation) CipherValues() []*big.Int {
	values := make([]*big.Int, len(o.Blocks))
	for i, b := range o.Blocks {
		values[i] = b.Cipher
	}
	return values
}

// PlainValues returns the plaintext integers in block order.
func (o *Operation) PlainValues() []*big.Int {
	values := make([]*big.Int, len(o.Blocks))
	for i, b := range o.Blocks {
		values[i] = b.Plain
	}
	return values
}

func failed(start time.Time, err error) (*Operation, error) {
	return &Operation{Elapsed: time.Since(start), Err: err}, err
}

// Encrypt encodes text and raises every block to e modulo n.
func Encrypt(text string, n, e *big.Int) (*Operation, error) {
	start := time.Now()

	codec, err := keyCodec(n, e)
	if err != nil {
		return failed(start, err)
	}
	plain, err := codec.Encode(text)
	if err != nil {
		return failed(start, err)
	}

	blocks := make([]MessageBlock, len(plain))
	for i, m := range plain {
		blocks[i] = MessageBlock{
			Index:  i + 1,
			Plain:  m,
			Cipher: new(big.Int).Exp(m, e, n),
		}
	}

	return &Operation{
		Success: true,
		Text:    text,
		Blocks:  blocks,
		Elapsed: time.Since(start),
	}, nil
}

// Decrypt raises every cipher block to d modulo n and decodes the result. All values
// are range-checked before any exponentiation.
func Decrypt(cipher []*big.Int, n, d *big.Int) (*Operation, error) {
	start := time.Now()

	codec, err := keyCodec(n, d)
	if err != nil {
		return failed(start, err)
	}
	if err := codec.check(cipher); err != nil {
		return failed(start, err)
	}

	blocks := make([]MessageBlock, len(cipher))
	plain := make([]*big.Int, len(cipher))
	for i, c := range cipher {
		plain[i] = new(big.Int).Exp(c, d, n)
		blocks[i] = MessageBlock{
			Index:  i + 1,
			Plain:  plain[i],
			Cipher: new(big.Int).Set(c),
		}
	}

	text, err := codec.Decode(plain)
	if err != nil {
		return failed(start, err)
	}

	return &Operation{
		Success: true,
		Text:    text,
		Blocks:  blocks,
		Elapsed: time.Since(start),
	}, nil
}

// EncryptBlocks computes v^e mod n for each value.
func EncryptBlocks(values []*big.Int, n, e *big.Int) ([]*big.Int, error) {
	return exp(values, n, e)
}

// DecryptBlocks computes v^d mod n for each value.
func DecryptBlocks(values []*big.Int, n, d *big.Int) ([]*big.Int, error) {
	return exp(values, n, d)
}

func exp(values []*big.Int, n, k *big.Int) ([]*big.Int, error) {
	codec, err := keyCodec(n, k)
	if err != nil {
		return nil, err
	}
	if err := codec.check(values); err != nil {
		return nil, err
	}

	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = new(big.Int).Exp(v, k, n)
	}
	return out, nil
}

func keyCodec(n, k *big.Int) (*Codec, error) {
	if k == nil || k.Sign() <= 0 {
		return nil, ErrInvalidKey
	}
	return NewCodec(n)
}
