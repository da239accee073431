package rsacore

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// smallPrimes serve both as trial divisors and as the first Miller-Rabin
// witnesses. Together they make the test deterministic below 3.3e24.
var smallPrimes = []*big.Int{
	big.NewInt(2), big.NewInt(3), big.NewInt(5), big.NewInt(7),
	big.NewInt(11), big.NewInt(13), big.NewInt(17), big.NewInt(19),
	big.NewInt(23), big.NewInt(29), big.NewInt(31), big.NewInt(37),
}

// IsProbablePrime reports whether n survives trial division by the first
// twelve primes and rounds Miller-Rabin rounds. The first rounds use the
// small primes as witnesses, later rounds draw witnesses in [2, n-2] from
// random. A nil random falls back to crypto/rand.
func IsProbablePrime(n *big.Int, rounds int, random io.Reader) (bool, error) {
	if n.Cmp(bigTwo) < 0 {
		return false, nil
	}

	remainder := new(big.Int)
	for _, p := range smallPrimes {
		if n.Cmp(p) == 0 {
			return true, nil
		}
		if remainder.Mod(n, p).Sign() == 0 {
			return false, nil
		}
	}

	if random == nil {
		random = rand.Reader
	}

	// n - 1 = d * 2^s with d odd
	nMinusOne := new(big.Int).Sub(n, bigOne)
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	witnessRange := new(big.Int).Sub(n, big.NewInt(3))
	for i := 0; i < rounds; i++ {
		var a *big.Int
		if i < len(smallPrimes) {
			a = smallPrimes[i]
		} else {
			r, err := rand.Int(random, witnessRange)
			if err != nil {
				return false, fmt.Errorf("failed to draw Miller-Rabin witness: %w", err)
			}
			a = r.Add(r, bigTwo)
		}

		if isCompositeWitness(n, nMinusOne, d, s, a) {
			return false, nil
		}
	}
	return true, nil
}

// isCompositeWitness reports whether a proves n composite.
func isCompositeWitness(n, nMinusOne, d *big.Int, s uint, a *big.Int) bool {
	x := ModPow(a, d, n)
	if x.Cmp(bigOne) == 0 || x.Cmp(nMinusOne) == 0 {
		return false
	}

	for r := uint(1); r < s; r++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinusOne) == 0 {
			return false
		}
	}
	return true
}
