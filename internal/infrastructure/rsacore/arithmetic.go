package rsacore

import (
	"fmt"
	"math/big"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
)

var (
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// ModPow computes base^exponent mod modulus with left-to-right binary
// square-and-multiply. exponent must be non-negative and modulus positive.
func ModPow(base, exponent, modulus *big.Int) *big.Int {
	if modulus.Cmp(bigOne) == 0 {
		return new(big.Int)
	}

	b := new(big.Int).Mod(base, modulus)
	result := big.NewInt(1)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, modulus)
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
	}
	return result
}

// ExtendedGCD returns g = gcd(a, b) and Bezout coefficients x, y such that
// a*x + b*y = g.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	quotient := new(big.Int)
	for r.Sign() != 0 {
		quotient.Quo(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(quotient, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(quotient, s))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(quotient, t))
	}
	return oldR, oldS, oldT
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	return g
}

// ModInverse returns x in [0, m) with a*x = 1 (mod m). It fails with
// rsakeys.ErrModularInverseUndefined when gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Cmp(bigOne) <= 0 {
		return nil, fmt.Errorf("%w: modulus %s must be greater than 1", rsakeys.ErrModularInverseUndefined, m)
	}

	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: gcd is %s", rsakeys.ErrModularInverseUndefined, g)
	}
	return x.Mod(x, m), nil
}

// Scrub overwrites the limbs of each value with zeros and resets it to 0.
func Scrub(values ...*big.Int) {
	for _, v := range values {
		if v == nil {
			continue
		}
		words := v.Bits()
		for i := range words {
			words[i] = 0
		}
		v.SetInt64(0)
	}
}
