// Package rsa derives textbook RSA key pairs from prime pairs and encrypts text
// block by block without padding. It is meant for demonstration: there is no
// padding scheme and no side-channel hardening.
package rsa

import (
	"math/big"

	"github.com/kochabx/rsalab/core/prime"
)

// DefaultPublicExponent is the first public exponent tried by Derive.
const DefaultPublicExponent = 65537

// PublicKey is the (n, e) half of a key pair.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey is the (n, d) half of a key pair.
type PrivateKey struct {
	N *big.Int
	D *big.Int
}

// KeyInfo is the view of a key pair that is safe to expose; it never carries d, p,
// q or phi.
type KeyInfo struct {
	N          *big.Int
	E          *big.Int
	NBitLength int
	Valid      bool
}

// KeyPair is an immutable RSA key pair.
type KeyPair struct {
	n, e, d *big.Int
	p, q    *big.Int
	phi     *big.Int
}

// Derive computes n, phi, e and d from a prime pair and proves the result by
// encrypting and decrypting a sentinel value.
func Derive(pair *prime.Pair) (*KeyPair, error) {
	if pair == nil {
		return nil, ErrInvalidKey
	}

	phi := pair.Phi()
	e := big.NewInt(DefaultPublicExponent)
	for gcd(e, phi).Cmp(one) != 0 {
		e.Add(e, two)
	}

	d, err := modInverse(e, phi)
	if err != nil {
		return nil, err
	}

	kp := &KeyPair{
		n:   pair.N(),
		e:   e,
		d:   d,
		p:   pair.P(),
		q:   pair.Q(),
		phi: phi,
	}
	if err := kp.Validate(); err != nil {
		return nil, err
	}
	return kp, nil
}

// NewKeyPair assembles a key pair from explicit components and validates it.
func NewKeyPair(n, e, d, p, q, phi *big.Int) (*KeyPair, error) {
	for _, v := range []*big.Int{n, e, d, p, q, phi} {
		if v == nil || v.Sign() <= 0 {
			return nil, ErrInvalidKey
		}
	}

	kp := &KeyPair{
		n:   new(big.Int).Set(n),
		e:   new(big.Int).Set(e),
		d:   new(big.Int).Set(d),
		p:   new(big.Int).Set(p),
		q:   new(big.Int).Set(q),
		phi: new(big.Int).Set(phi),
	}
	if err := kp.Validate(); err != nil {
		return nil, err
	}
	return kp, nil
}

// Validate encrypts the sentinel 42 (2 when n <= 42) with (n, e), decrypts it with
// (n, d) and fails with ErrKeyValidationFailure unless the sentinel comes back.
func (k *KeyPair) Validate() error {
	sentinel := big.NewInt(42)
	if sentinel.Cmp(k.n) >= 0 {
		sentinel.SetInt64(2)
	}

	c := new(big.Int).Exp(sentinel, k.e, k.n)
	m := new(big.Int).Exp(c, k.d, k.n)
	if m.Cmp(sentinel) != 0 {
		return ErrKeyValidationFailure.WithMetadata(map[string]string{
			"sentinel":  sentinel.String(),
			"recovered": m.String(),
		})
	}
	return nil
}

func (k *KeyPair) N() *big.Int   { return new(big.Int).Set(k.n) }
func (k *KeyPair) E() *big.Int   { return new(big.Int).Set(k.e) }
func (k *KeyPair) D() *big.Int   { return new(big.Int).Set(k.d) }
func (k *KeyPair) P() *big.Int   { return new(big.Int).Set(k.p) }
func (k *KeyPair) Q() *big.Int   { return new(big.Int).Set(k.q) }
func (k *KeyPair) Phi() *big.Int { return new(big.Int).Set(k.phi) }

func (k *KeyPair) Public() PublicKey {
	return PublicKey{N: k.N(), E: k.E()}
}

func (k *KeyPair) Private() PrivateKey {
	return PrivateKey{N: k.N(), D: k.D()}
}

// Info returns the public view together with the bit length of n and the outcome
// of a fresh validation.
func (k *KeyPair) Info() KeyInfo {
	return KeyInfo{
		N:          k.N(),
		E:          k.E(),
		NBitLength: k.n.BitLen(),
		Valid:      k.Validate() == nil,
	}
}
