package rsakeys

import (
	"fmt"
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// PublicKey is the public half (N, E) of an RSA key pair. It is immutable;
// accessors return copies.
type PublicKey struct {
	n *big.Int
	e *big.Int
}

// NewPublicKey creates a PublicKey from a modulus and a public exponent.
func NewPublicKey(n, e *big.Int) (*PublicKey, error) {
	if err := checkComponents(n, e); err != nil {
		return nil, err
	}
	return &PublicKey{n: new(big.Int).Set(n), e: new(big.Int).Set(e)}, nil
}

// Modulus returns a copy of N.
func (k *PublicKey) Modulus() *big.Int { return new(big.Int).Set(k.n) }

// Exponent returns a copy of E.
func (k *PublicKey) Exponent() *big.Int { return new(big.Int).Set(k.e) }

// BitLen returns the bit length of N.
func (k *PublicKey) BitLen() int { return k.n.BitLen() }

// Size returns the modulus size in bytes.
func (k *PublicKey) Size() int { return (k.n.BitLen() + 7) / 8 }

// IsDefaultExponent reports whether E is DefaultPublicExponent.
func (k *PublicKey) IsDefaultExponent() bool {
	return k.e.IsInt64() && k.e.Int64() == DefaultPublicExponent
}

// Equal reports whether both keys hold the same components.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.n.Cmp(other.n) == 0 && k.e.Cmp(other.e) == 0
}

// PrivateKey is the private half (N, D) of an RSA key pair. It is immutable;
// accessors return copies.
type PrivateKey struct {
	n *big.Int
	d *big.Int
}

// NewPrivateKey creates a PrivateKey from a modulus and a private exponent.
func NewPrivateKey(n, d *big.Int) (*PrivateKey, error) {
	if err := checkComponents(n, d); err != nil {
		return nil, err
	}
	return &PrivateKey{n: new(big.Int).Set(n), d: new(big.Int).Set(d)}, nil
}

// Modulus returns a copy of N.
func (k *PrivateKey) Modulus() *big.Int { return new(big.Int).Set(k.n) }

// Exponent returns a copy of D.
func (k *PrivateKey) Exponent() *big.Int { return new(big.Int).Set(k.d) }

// BitLen returns the bit length of N.
func (k *PrivateKey) BitLen() int { return k.n.BitLen() }

// Size returns the modulus size in bytes.
func (k *PrivateKey) Size() int { return (k.n.BitLen() + 7) / 8 }

// Equal reports whether both keys hold the same components.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	return other != nil && k.n.Cmp(other.n) == 0 && k.d.Cmp(other.d) == 0
}

// KeyPair owns a PublicKey and a PrivateKey sharing the same modulus.
type KeyPair struct {
	Public  *PublicKey
	Private *PrivateKey
}

// Validate checks that both keys share N, that E < N and that a sample block
// survives an encrypt/decrypt round trip.
func (p *KeyPair) Validate() error {
	if p == nil || p.Public == nil || p.Private == nil {
		return fmt.Errorf("%w: key pair is incomplete", ErrInvalidKey)
	}
	if p.Public.n.Cmp(p.Private.n) != 0 {
		return fmt.Errorf("%w: moduli differ", ErrKeyPairMismatch)
	}
	if p.Public.e.Cmp(p.Public.n) >= 0 {
		return fmt.Errorf("%w: public exponent exceeds modulus", ErrKeyPairMismatch)
	}

	n := p.Public.n
	// 12345678 reduced into [2, N-1]
	sample := new(big.Int).Mod(big.NewInt(12_345_678), new(big.Int).Sub(n, bigTwo))
	sample.Add(sample, bigTwo)

	cipher := new(big.Int).Exp(sample, p.Public.e, n)
	plain := new(big.Int).Exp(cipher, p.Private.d, n)
	if plain.Cmp(sample) != 0 {
		return fmt.Errorf("%w: sample block did not round trip", ErrKeyPairMismatch)
	}
	return nil
}

func checkComponents(n, exponent *big.Int) error {
	if n == nil || exponent == nil {
		return fmt.Errorf("%w: missing key component", ErrInvalidKey)
	}
	if n.Cmp(bigTwo) <= 0 {
		return fmt.Errorf("%w: modulus must be greater than 2", ErrInvalidKey)
	}
	if exponent.Cmp(bigOne) < 0 {
		return fmt.Errorf("%w: exponent must be positive", ErrInvalidKey)
	}
	return nil
}
