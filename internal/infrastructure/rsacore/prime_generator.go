package rsacore

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
)

// primeGenerator implements rsakeys.PrimeGenerator by sampling random odd
// candidates of exact bit length.
type primeGenerator struct {
	random      io.Reader
	maxAttempts int
}

// NewPrimeGenerator creates a prime generator reading entropy from random
// (crypto/rand when nil) and trying at most maxAttempts candidates per prime
// (rsakeys.DefaultMaxPrimeAttempts when not positive).
func NewPrimeGenerator(random io.Reader, maxAttempts int) rsakeys.PrimeGenerator {
	if random == nil {
		random = rand.Reader
	}
	if maxAttempts <= 0 {
		maxAttempts = rsakeys.DefaultMaxPrimeAttempts
	}
	return &primeGenerator{
		random:      random,
		maxAttempts: maxAttempts,
	}
}

// GeneratePrime returns a random prime of exactly bitLength bits.
func (g *primeGenerator) GeneratePrime(ctx context.Context, bitLength, certainty int) (*big.Int, error) {
	if bitLength < 2 {
		return nil, fmt.Errorf("%w: prime bit length %d is below 2", rsakeys.ErrInvalidKeySize, bitLength)
	}
	if certainty < 1 {
		return nil, fmt.Errorf("%w: %d rounds", rsakeys.ErrInvalidCertainty, certainty)
	}

	buf := make([]byte, (bitLength+7)/8)
	defer clear(buf)
	excessBits := uint(len(buf)*8 - bitLength)

	candidate := new(big.Int)
	defer Scrub(candidate)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", rsakeys.ErrGenerationTimeout, err)
		}

		if _, err := io.ReadFull(g.random, buf); err != nil {
			return nil, fmt.Errorf("failed to read entropy: %w", err)
		}
		buf[0] &= 0xff >> excessBits

		candidate.SetBytes(buf)
		candidate.SetBit(candidate, bitLength-1, 1)
		candidate.SetBit(candidate, 0, 1)

		isPrime, err := IsProbablePrime(candidate, certainty, g.random)
		if err != nil {
			return nil, err
		}
		if isPrime {
			return new(big.Int).Set(candidate), nil
		}
	}

	return nil, fmt.Errorf("%w: no %d-bit prime within %d candidates", rsakeys.ErrGenerationTimeout, bitLength, g.maxAttempts)
}
