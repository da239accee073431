package rsacore

import (
	"context"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/validators"
	"golang.org/x/sync/errgroup"
)

// maxPrimeCollisions bounds how often Q is redrawn while it equals P.
const maxPrimeCollisions = 64

// KeyGeneratorOptions configures a key pair generator. Zero values fall back
// to the rsakeys defaults.
type KeyGeneratorOptions struct {
	// Certainty is the number of Miller-Rabin rounds per prime.
	Certainty int
	// ExponentPolicy is one of rsakeys.ExponentPolicyDefault, ExponentPolicySearch or ExponentPolicyRandom.
	ExponentPolicy string
	// PublicExponent is the conventional exponent tried first by the default policy. Must be odd.
	PublicExponent int64
	// ExponentSearchWindow bounds the number of exponent candidates.
	ExponentSearchWindow int
	// Progress, when set, receives a description of each generation stage.
	Progress rsakeys.ProgressFunc
}

type keyGenerator struct {
	primes rsakeys.PrimeGenerator
	opts   KeyGeneratorOptions
}

// NewKeyGenerator creates a rsakeys.KeyPairGenerator drawing primes from primes.
func NewKeyGenerator(primes rsakeys.PrimeGenerator, opts KeyGeneratorOptions) (rsakeys.KeyPairGenerator, error) {
	if primes == nil {
		return nil, fmt.Errorf("prime generator cannot be nil")
	}
	if opts.Certainty == 0 {
		opts.Certainty = rsakeys.DefaultCertainty
	}
	if opts.Certainty < 0 {
		return nil, fmt.Errorf("%w: %d rounds", rsakeys.ErrInvalidCertainty, opts.Certainty)
	}
	if opts.ExponentPolicy == "" {
		opts.ExponentPolicy = rsakeys.ExponentPolicyDefault
	}
	switch opts.ExponentPolicy {
	case rsakeys.ExponentPolicyDefault, rsakeys.ExponentPolicySearch, rsakeys.ExponentPolicyRandom:
	default:
		return nil, fmt.Errorf("unsupported exponent policy: %s", opts.ExponentPolicy)
	}
	if opts.PublicExponent == 0 {
		opts.PublicExponent = rsakeys.DefaultPublicExponent
	}
	if opts.PublicExponent < 3 || opts.PublicExponent%2 == 0 {
		return nil, fmt.Errorf("public exponent must be odd and at least 3, got %d", opts.PublicExponent)
	}
	if opts.ExponentSearchWindow <= 0 {
		opts.ExponentSearchWindow = rsakeys.DefaultExponentSearchWindow
	}

	return &keyGenerator{primes: primes, opts: opts}, nil
}

// GenerateKeyPair draws two distinct primes of keySize/2 bits and derives
// the key pair from them. Primes and totient are scrubbed before returning.
func (g *keyGenerator) GenerateKeyPair(ctx context.Context, keySize int) (*rsakeys.KeyPair, error) {
	if !validators.IsValidRSAKeySize(keySize) {
		return nil, fmt.Errorf("%w: %d bits, expected an even size in [%d, %d]",
			rsakeys.ErrInvalidKeySize, keySize, rsakeys.MinKeySize, rsakeys.MaxKeySize)
	}
	primeBits := keySize / 2

	g.progress(fmt.Sprintf("Generating P and Q (%d bits each)", primeBits))
	p, q, err := g.generateDistinctPrimes(ctx, primeBits)
	if err != nil {
		return nil, err
	}
	defer Scrub(p, q)

	g.progress("Calculating modulus N and totient")
	n, totient := modulusAndTotient(p, q)
	defer Scrub(totient)

	g.progress("Selecting public exponent E")
	e, err := g.selectExponent(ctx, totient, primeBits)
	if err != nil {
		return nil, err
	}

	g.progress("Calculating private exponent D")
	pair, err := assemble(n, e, totient)
	if err != nil {
		return nil, err
	}

	g.progress("Key pair generated")
	return pair, nil
}

// DeriveKeyPair builds the key pair for fixed primes p, q and public exponent e.
func (g *keyGenerator) DeriveKeyPair(p, q, e *big.Int) (*rsakeys.KeyPair, error) {
	if p == nil || q == nil || e == nil {
		return nil, fmt.Errorf("%w: p, q and e are required", rsakeys.ErrInvalidPrime)
	}
	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("%w: p and q must differ", rsakeys.ErrInvalidPrime)
	}
	for _, factor := range []*big.Int{p, q} {
		isPrime, err := IsProbablePrime(factor, g.opts.Certainty, nil)
		if err != nil {
			return nil, err
		}
		if !isPrime {
			return nil, fmt.Errorf("%w: %s is composite", rsakeys.ErrInvalidPrime, factor)
		}
	}

	n, totient := modulusAndTotient(p, q)
	defer Scrub(totient)

	if e.Cmp(bigOne) <= 0 || e.Cmp(totient) >= 0 {
		return nil, fmt.Errorf("%w: exponent %s outside (1, totient)", rsakeys.ErrExponentNotFound, e)
	}
	return assemble(n, new(big.Int).Set(e), totient)
}

func (g *keyGenerator) generateDistinctPrimes(ctx context.Context, primeBits int) (*big.Int, *big.Int, error) {
	var p, q *big.Int

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		p, err = g.primes.GeneratePrime(egCtx, primeBits, g.opts.Certainty)
		return err
	})
	eg.Go(func() error {
		var err error
		q, err = g.primes.GeneratePrime(egCtx, primeBits, g.opts.Certainty)
		return err
	})
	if err := eg.Wait(); err != nil {
		Scrub(p, q)
		return nil, nil, fmt.Errorf("failed to generate primes: %w", err)
	}

	for collisions := 0; p.Cmp(q) == 0; collisions++ {
		if collisions == maxPrimeCollisions {
			Scrub(p, q)
			return nil, nil, fmt.Errorf("%w: could not draw distinct primes", rsakeys.ErrGenerationTimeout)
		}
		Scrub(q)
		var err error
		q, err = g.primes.GeneratePrime(ctx, primeBits, g.opts.Certainty)
		if err != nil {
			Scrub(p)
			return nil, nil, fmt.Errorf("failed to generate primes: %w", err)
		}
	}
	return p, q, nil
}

func (g *keyGenerator) selectExponent(ctx context.Context, totient *big.Int, primeBits int) (*big.Int, error) {
	switch g.opts.ExponentPolicy {
	case rsakeys.ExponentPolicySearch:
		return g.searchExponent(big.NewInt(3), totient)
	case rsakeys.ExponentPolicyRandom:
		return g.randomExponent(ctx, totient, primeBits)
	default:
		preferred := big.NewInt(g.opts.PublicExponent)
		if preferred.Cmp(totient) >= 0 {
			return g.searchExponent(big.NewInt(3), totient)
		}
		if GCD(preferred, totient).Cmp(bigOne) == 0 {
			return preferred, nil
		}
		return g.searchExponent(preferred.Add(preferred, bigTwo), totient)
	}
}

// searchExponent returns the first odd candidate >= start below totient that
// is coprime to it.
func (g *keyGenerator) searchExponent(start, totient *big.Int) (*big.Int, error) {
	e := new(big.Int).Set(start)
	if e.Bit(0) == 0 {
		e.Add(e, bigOne)
	}

	for i := 0; i < g.opts.ExponentSearchWindow && e.Cmp(totient) < 0; i++ {
		if GCD(e, totient).Cmp(bigOne) == 0 {
			return e, nil
		}
		e.Add(e, bigTwo)
	}
	return nil, fmt.Errorf("%w: searched %d candidates from %s", rsakeys.ErrExponentNotFound, g.opts.ExponentSearchWindow, start)
}

// randomExponent draws random primes of primeBits bits until one lies below
// totient and is coprime to it.
func (g *keyGenerator) randomExponent(ctx context.Context, totient *big.Int, primeBits int) (*big.Int, error) {
	for i := 0; i < g.opts.ExponentSearchWindow; i++ {
		e, err := g.primes.GeneratePrime(ctx, primeBits, g.opts.Certainty)
		if err != nil {
			return nil, fmt.Errorf("failed to draw random exponent: %w", err)
		}
		if e.Cmp(bigOne) > 0 && e.Cmp(totient) < 0 && GCD(e, totient).Cmp(bigOne) == 0 {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no random prime exponent within %d draws", rsakeys.ErrExponentNotFound, g.opts.ExponentSearchWindow)
}

func (g *keyGenerator) progress(stage string) {
	if g.opts.Progress != nil {
		g.opts.Progress(stage)
	}
}

func modulusAndTotient(p, q *big.Int) (n, totient *big.Int) {
	n = new(big.Int).Mul(p, q)
	pMinusOne := new(big.Int).Sub(p, bigOne)
	qMinusOne := new(big.Int).Sub(q, bigOne)
	totient = new(big.Int).Mul(pMinusOne, qMinusOne)
	Scrub(pMinusOne, qMinusOne)
	return n, totient
}

// assemble derives D and packages the keys. The pair is self-checked before
// it is handed out.
func assemble(n, e, totient *big.Int) (*rsakeys.KeyPair, error) {
	d, err := ModInverse(e, totient)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private exponent: %w", err)
	}
	defer Scrub(d)

	publicKey, err := rsakeys.NewPublicKey(n, e)
	if err != nil {
		return nil, err
	}
	privateKey, err := rsakeys.NewPrivateKey(n, d)
	if err != nil {
		return nil, err
	}

	pair := &rsakeys.KeyPair{Public: publicKey, Private: privateKey}
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("generated key pair failed validation: %w", err)
	}
	return pair, nil
}
