package rsacore

import (
	"fmt"
	"math/big"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/cronokirby/saferith"
)

type exponentiation func(base, exponent, modulus *big.Int) *big.Int

type transformer struct {
	exp exponentiation
}

// NewTransformer returns the square-and-multiply block transform.
func NewTransformer() rsakeys.Transformer {
	return &transformer{exp: ModPow}
}

// NewConstantTimeTransformer returns a block transform backed by saferith,
// whose running time depends only on operand sizes. Even moduli fall back
// to square-and-multiply.
func NewConstantTimeTransformer() rsakeys.Transformer {
	return &transformer{exp: constantTimeModPow}
}

// Encrypt computes block^E mod N.
func (t *transformer) Encrypt(block *big.Int, publicKey *rsakeys.PublicKey) (*big.Int, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: public key is nil", rsakeys.ErrInvalidKey)
	}
	return t.apply(block, publicKey.Exponent(), publicKey.Modulus())
}

// Decrypt computes block^D mod N.
func (t *transformer) Decrypt(block *big.Int, privateKey *rsakeys.PrivateKey) (*big.Int, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: private key is nil", rsakeys.ErrInvalidKey)
	}
	d := privateKey.Exponent()
	defer Scrub(d)
	return t.apply(block, d, privateKey.Modulus())
}

func (t *transformer) apply(block, exponent, modulus *big.Int) (*big.Int, error) {
	if block == nil || block.Sign() < 0 || block.Cmp(modulus) >= 0 {
		return nil, fmt.Errorf("%w: block must lie in [0, N)", rsakeys.ErrBlockOutOfRange)
	}
	return t.exp(block, exponent, modulus), nil
}

func constantTimeModPow(base, exponent, modulus *big.Int) *big.Int {
	if modulus.Bit(0) == 0 {
		return ModPow(base, exponent, modulus)
	}

	m := saferith.ModulusFromNat(new(saferith.Nat).SetBig(modulus, modulus.BitLen()))
	x := new(saferith.Nat).SetBig(base, modulus.BitLen())
	y := new(saferith.Nat).SetBig(exponent, max(exponent.BitLen(), 1))
	return new(saferith.Nat).Exp(x, y, m).Big()
}
