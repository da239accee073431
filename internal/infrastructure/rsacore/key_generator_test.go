//go:build unit
// +build unit

package rsacore

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPrimeGenerator keeps every prime handed out so tests can check
// the factorization of the resulting modulus.
type recordingPrimeGenerator struct {
	inner  rsakeys.PrimeGenerator
	mu     sync.Mutex
	primes []*big.Int
}

func (r *recordingPrimeGenerator) GeneratePrime(ctx context.Context, bitLength, certainty int) (*big.Int, error) {
	prime, err := r.inner.GeneratePrime(ctx, bitLength, certainty)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.primes = append(r.primes, new(big.Int).Set(prime))
	r.mu.Unlock()
	return prime, nil
}

// sequencePrimeGenerator returns fixed primes in order.
type sequencePrimeGenerator struct {
	mu     sync.Mutex
	primes []int64
}

func (s *sequencePrimeGenerator) GeneratePrime(context.Context, int, int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.primes[0]
	if len(s.primes) > 1 {
		s.primes = s.primes[1:]
	}
	return big.NewInt(p), nil
}

func setupKeyGenerator(t *testing.T, opts KeyGeneratorOptions) (rsakeys.KeyPairGenerator, *recordingPrimeGenerator) {
	t.Helper()
	recorder := &recordingPrimeGenerator{inner: NewPrimeGenerator(nil, 0)}
	generator, err := NewKeyGenerator(recorder, opts)
	require.NoError(t, err)
	return generator, recorder
}

func factorsOf(t *testing.T, n *big.Int, primes []*big.Int) (*big.Int, *big.Int) {
	t.Helper()
	for i := range primes {
		for j := i + 1; j < len(primes); j++ {
			if new(big.Int).Mul(primes[i], primes[j]).Cmp(n) == 0 {
				return primes[i], primes[j]
			}
		}
	}
	require.FailNow(t, "modulus is not a product of generated primes")
	return nil, nil
}

func assertKeyPairInvariants(t *testing.T, pair *rsakeys.KeyPair, p, q *big.Int, keySize int) {
	t.Helper()

	n := pair.Public.Modulus()
	assert.Equal(t, new(big.Int).Mul(p, q), n)
	assert.NotEqual(t, 0, p.Cmp(q))
	assert.Contains(t, []int{keySize - 1, keySize}, n.BitLen())
	assert.Equal(t, n, pair.Private.Modulus())

	totient := new(big.Int).Mul(new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Sub(q, big.NewInt(1)))
	e := pair.Public.Exponent()
	d := pair.Private.Exponent()
	assert.Equal(t, big.NewInt(1), GCD(e, totient))
	assert.Equal(t, -1, e.Cmp(totient))
	assert.Equal(t, 1, e.Cmp(big.NewInt(1)))

	ed := new(big.Int).Mul(e, d)
	assert.Equal(t, big.NewInt(1), ed.Mod(ed, totient))
	assert.NoError(t, pair.Validate())
}

func TestGenerateKeyPair(t *testing.T) {
	for _, keySize := range []int{8, 16, 64, 512, 1024} {
		generator, recorder := setupKeyGenerator(t, KeyGeneratorOptions{})

		pair, err := generator.GenerateKeyPair(context.Background(), keySize)
		require.NoError(t, err, "keySize=%d", keySize)

		p, q := factorsOf(t, pair.Public.Modulus(), recorder.primes)
		assertKeyPairInvariants(t, pair, p, q, keySize)
	}
}

func TestGenerateKeyPairDefaultExponent(t *testing.T) {
	generator, _ := setupKeyGenerator(t, KeyGeneratorOptions{})

	pair, err := generator.GenerateKeyPair(context.Background(), 512)
	require.NoError(t, err)
	assert.True(t, pair.Public.IsDefaultExponent())
}

func TestGenerateKeyPairInvalidSizes(t *testing.T) {
	generator, _ := setupKeyGenerator(t, KeyGeneratorOptions{})

	for _, keySize := range []int{-2, 0, 6, 7, 513, 8194} {
		_, err := generator.GenerateKeyPair(context.Background(), keySize)
		assert.ErrorIs(t, err, rsakeys.ErrInvalidKeySize, "keySize=%d", keySize)
	}
}

func TestGenerateKeyPairCancelled(t *testing.T) {
	generator, _ := setupKeyGenerator(t, KeyGeneratorOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := generator.GenerateKeyPair(ctx, 512)
	assert.ErrorIs(t, err, rsakeys.ErrGenerationTimeout)
}

func TestGenerateKeyPairRedrawsEqualPrimes(t *testing.T) {
	primes := &sequencePrimeGenerator{primes: []int64{61, 61, 61, 53}}
	generator, err := NewKeyGenerator(primes, KeyGeneratorOptions{})
	require.NoError(t, err)

	pair, err := generator.GenerateKeyPair(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3233), pair.Public.Modulus())
}

func TestExponentPolicies(t *testing.T) {
	t.Run("DefaultFallsBackToSearchWhenTotientIsSmall", func(t *testing.T) {
		// 11 * 13: totient 120 is below 65537, smallest odd coprime is 7
		primes := &sequencePrimeGenerator{primes: []int64{11, 13}}
		generator, err := NewKeyGenerator(primes, KeyGeneratorOptions{})
		require.NoError(t, err)

		pair, err := generator.GenerateKeyPair(context.Background(), 8)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(7), pair.Public.Exponent())
		assert.Equal(t, big.NewInt(103), pair.Private.Exponent())
	})

	t.Run("Search", func(t *testing.T) {
		primes := &sequencePrimeGenerator{primes: []int64{61, 53}}
		generator, err := NewKeyGenerator(primes, KeyGeneratorOptions{ExponentPolicy: rsakeys.ExponentPolicySearch})
		require.NoError(t, err)

		// totient 3120 = 2^4 * 3 * 5 * 13
		pair, err := generator.GenerateKeyPair(context.Background(), 12)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(7), pair.Public.Exponent())
	})

	t.Run("Random", func(t *testing.T) {
		generator, recorder := setupKeyGenerator(t, KeyGeneratorOptions{ExponentPolicy: rsakeys.ExponentPolicyRandom})

		pair, err := generator.GenerateKeyPair(context.Background(), 256)
		require.NoError(t, err)
		assert.False(t, pair.Public.IsDefaultExponent())
		assert.Equal(t, 128, pair.Public.Exponent().BitLen())
		assert.GreaterOrEqual(t, len(recorder.primes), 3)
		assert.NoError(t, pair.Validate())
	})

	t.Run("SearchWindowExhausted", func(t *testing.T) {
		primes := &sequencePrimeGenerator{primes: []int64{61, 53}}
		generator, err := NewKeyGenerator(primes, KeyGeneratorOptions{
			ExponentPolicy:       rsakeys.ExponentPolicySearch,
			ExponentSearchWindow: 2,
		})
		require.NoError(t, err)

		// 3 and 5 both divide 3120
		_, err = generator.GenerateKeyPair(context.Background(), 12)
		assert.ErrorIs(t, err, rsakeys.ErrExponentNotFound)
	})
}

func TestNewKeyGeneratorOptions(t *testing.T) {
	primes := NewPrimeGenerator(nil, 0)

	_, err := NewKeyGenerator(nil, KeyGeneratorOptions{})
	assert.Error(t, err)

	_, err = NewKeyGenerator(primes, KeyGeneratorOptions{ExponentPolicy: "fermat"})
	assert.Error(t, err)

	_, err = NewKeyGenerator(primes, KeyGeneratorOptions{PublicExponent: 4})
	assert.Error(t, err)

	_, err = NewKeyGenerator(primes, KeyGeneratorOptions{Certainty: -1})
	assert.ErrorIs(t, err, rsakeys.ErrInvalidCertainty)
}

func TestGenerateKeyPairReportsProgress(t *testing.T) {
	var stages []string
	generator, _ := setupKeyGenerator(t, KeyGeneratorOptions{
		Progress: func(stage string) { stages = append(stages, stage) },
	})

	_, err := generator.GenerateKeyPair(context.Background(), 64)
	require.NoError(t, err)
	require.Len(t, stages, 5)
	assert.Equal(t, "Key pair generated", stages[len(stages)-1])
}

func TestDeriveKeyPair(t *testing.T) {
	generator, _ := setupKeyGenerator(t, KeyGeneratorOptions{})

	t.Run("TextbookExample", func(t *testing.T) {
		pair, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(53), big.NewInt(17))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(3233), pair.Public.Modulus())
		assert.Equal(t, big.NewInt(17), pair.Public.Exponent())
		assert.Equal(t, big.NewInt(2753), pair.Private.Exponent())

		transformer := NewTransformer()
		cipher, err := transformer.Encrypt(big.NewInt(65), pair.Public)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(2790), cipher)

		plain, err := transformer.Decrypt(cipher, pair.Private)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(65), plain)
	})

	t.Run("EqualPrimes", func(t *testing.T) {
		_, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(61), big.NewInt(17))
		assert.ErrorIs(t, err, rsakeys.ErrInvalidPrime)
	})

	t.Run("CompositeFactor", func(t *testing.T) {
		_, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(27), big.NewInt(17))
		assert.ErrorIs(t, err, rsakeys.ErrInvalidPrime)
	})

	t.Run("ExponentNotCoprime", func(t *testing.T) {
		_, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(53), big.NewInt(15))
		assert.ErrorIs(t, err, rsakeys.ErrModularInverseUndefined)
	})

	t.Run("ExponentOutOfRange", func(t *testing.T) {
		_, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(53), big.NewInt(3120))
		assert.ErrorIs(t, err, rsakeys.ErrExponentNotFound)
	})
}
