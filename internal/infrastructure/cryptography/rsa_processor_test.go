//go:build unit
// +build unit

package cryptography

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/infrastructure/rsacore"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TestKeySize1024 = 1024
)

func setupRSAProcessor(t *testing.T) rsakeys.RSAProcessor {
	t.Helper()
	logger := testutil.SetupTestLogger(t)
	settings := config.NewDefaultKeyGenSettings()
	settings.Workers = 4
	processor, err := NewRSAProcessorFromSettings(settings, nil, logger)
	require.NoError(t, err)
	return processor
}

func TestRSAProcessor(t *testing.T) {
	processor := setupRSAProcessor(t)
	ctx := context.Background()

	privateKey, publicKey, err := processor.GenerateKeys(ctx, TestKeySize1024)
	require.NoError(t, err)

	t.Run("GenerateKeys", func(t *testing.T) {
		assert.NotNil(t, privateKey)
		assert.NotNil(t, publicKey)
		assert.Contains(t, []int{TestKeySize1024 - 1, TestKeySize1024}, publicKey.BitLen())
		assert.Equal(t, publicKey.Modulus(), privateKey.Modulus())
		assert.NoError(t, processor.ValidateKeyPair(publicKey, privateKey))
	})

	t.Run("EncryptDecrypt", func(t *testing.T) {
		messages := [][]byte{
			[]byte("This is a secret message"),
			{},
			bytes.Repeat([]byte{0x00, 0xFF}, 2000),
		}
		for _, plainText := range messages {
			encrypted, err := processor.Encrypt(plainText, publicKey)
			require.NoError(t, err)
			assert.Zero(t, len(encrypted)%publicKey.Size())

			decrypted, err := processor.Decrypt(encrypted, privateKey)
			require.NoError(t, err)
			assert.Equal(t, plainText, decrypted)
		}
	})

	t.Run("EncryptIsDeterministic", func(t *testing.T) {
		first, err := processor.Encrypt([]byte("same input"), publicKey)
		require.NoError(t, err)
		second, err := processor.Encrypt([]byte("same input"), publicKey)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("SaveAndReadKeys", func(t *testing.T) {
		tmpDir := t.TempDir()
		privFile := filepath.Join(tmpDir, "private-key")
		pubFile := filepath.Join(tmpDir, "public-key.pub")

		require.NoError(t, processor.SavePrivateKeyToFile(privateKey, privFile))
		require.NoError(t, processor.SavePublicKeyToFile(publicKey, pubFile))

		info, err := os.Stat(privFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		readPriv, err := processor.ReadPrivateKey(privFile)
		require.NoError(t, err)
		assert.True(t, privateKey.Equal(readPriv))

		readPub, err := processor.ReadPublicKey(pubFile)
		require.NoError(t, err)
		assert.True(t, publicKey.Equal(readPub))

		content, err := os.ReadFile(pubFile)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("rsa-vault ")))
	})

	t.Run("DecryptWithWrongKey", func(t *testing.T) {
		encrypted, err := processor.Encrypt([]byte("This should fail decryption"), publicKey)
		require.NoError(t, err)

		wrongPrivKey, wrongPubKey, err := processor.GenerateKeys(ctx, TestKeySize1024)
		require.NoError(t, err)

		_, err = processor.Decrypt(encrypted, wrongPrivKey)
		assert.Error(t, err)
		assert.ErrorIs(t, processor.ValidateKeyPair(wrongPubKey, privateKey), rsakeys.ErrKeyPairMismatch)
	})

	t.Run("DecryptMalformedCiphertext", func(t *testing.T) {
		_, err := processor.Decrypt([]byte{0x01, 0x02, 0x03}, privateKey)
		assert.ErrorIs(t, err, rsakeys.ErrMalformedCiphertext)
	})

	t.Run("NilKeys", func(t *testing.T) {
		_, err := processor.Encrypt([]byte("data"), nil)
		assert.Error(t, err)
		_, err = processor.Decrypt([]byte("data"), nil)
		assert.Error(t, err)
	})

	t.Run("SavePrivateKeyInvalidPath", func(t *testing.T) {
		err := processor.SavePrivateKeyToFile(privateKey, "/invalid/path/private-key")
		assert.Error(t, err)
	})

	t.Run("SavePublicKeyInvalidPath", func(t *testing.T) {
		err := processor.SavePublicKeyToFile(publicKey, "/invalid/path/public-key.pub")
		assert.Error(t, err)
	})

	t.Run("ReadMalformedKeyFile", func(t *testing.T) {
		path := testutil.WriteTestFile(t, "broken.pub", []byte("rsa-vault 12zz\n"))
		_, err := processor.ReadPublicKey(path)
		assert.ErrorIs(t, err, rsakeys.ErrMalformedKey)
	})
}

func TestRSAProcessorTextbookKeys(t *testing.T) {
	logger, buf := testutil.NewBufferLogger(t)
	generator, err := rsacore.NewKeyGenerator(rsacore.NewPrimeGenerator(nil, 0), rsacore.KeyGeneratorOptions{})
	require.NoError(t, err)
	processor, err := NewRSAProcessor(generator, rsacore.NewConstantTimeTransformer(), 2, logger)
	require.NoError(t, err)

	pair, err := generator.DeriveKeyPair(big.NewInt(61), big.NewInt(53), big.NewInt(17))
	require.NoError(t, err)

	// 3233 carries one message byte per block
	encrypted, err := processor.Encrypt([]byte("A"), pair.Public)
	require.NoError(t, err)
	assert.Len(t, encrypted, 9*2)

	decrypted, err := processor.Decrypt(encrypted, pair.Private)
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), decrypted)
	assert.Contains(t, buf.String(), "RSA decryption succeeded")
}

func TestRSAProcessorGenerateKeysHonoursProgressAndErrors(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	var stages []string
	processor, err := NewRSAProcessorFromSettings(config.NewDefaultKeyGenSettings(), func(stage string) {
		stages = append(stages, stage)
	}, logger)
	require.NoError(t, err)

	_, _, err = processor.GenerateKeys(context.Background(), 256)
	require.NoError(t, err)
	assert.NotEmpty(t, stages)

	_, _, err = processor.GenerateKeys(context.Background(), 255)
	assert.ErrorIs(t, err, rsakeys.ErrInvalidKeySize)
}

func TestNewRSAProcessorRejectsNilDependencies(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	generator, err := rsacore.NewKeyGenerator(rsacore.NewPrimeGenerator(nil, 0), rsacore.KeyGeneratorOptions{})
	require.NoError(t, err)

	_, err = NewRSAProcessor(nil, rsacore.NewTransformer(), 1, logger)
	assert.Error(t, err)
	_, err = NewRSAProcessor(generator, nil, 1, logger)
	assert.Error(t, err)
	_, err = NewRSAProcessor(generator, rsacore.NewTransformer(), 1, nil)
	assert.Error(t, err)

	settings := config.NewDefaultKeyGenSettings()
	settings.ExponentPolicy = "fermat"
	_, err = NewRSAProcessorFromSettings(settings, nil, logger)
	assert.Error(t, err)
}
