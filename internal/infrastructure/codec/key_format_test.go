//go:build unit
// +build unit

package codec

import (
	"math/big"
	"testing"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKeyText = `-----BEGIN RSA-VAULT PRIVATE KEY-----
9668f701
147b7f71
-----END RSA-VAULT PRIVATE KEY-----
`

func TestEncodePublicKey(t *testing.T) {
	encoder := NewKeyEncoder()

	t.Run("DefaultExponent", func(t *testing.T) {
		publicKey, err := rsakeys.NewPublicKey(big.NewInt(0x9668F701), big.NewInt(65537))
		require.NoError(t, err)
		assert.Equal(t, "rsa-vault 9668f701\n", encoder.EncodePublicKey(publicKey))
	})

	t.Run("NonDefaultExponent", func(t *testing.T) {
		publicKey, err := rsakeys.NewPublicKey(big.NewInt(0x11C68C75), big.NewInt(0x5B97))
		require.NoError(t, err)
		assert.Equal(t, "rsa-vault-ndex 11c68c75 5b97\n", encoder.EncodePublicKey(publicKey))
	})
}

func TestEncodePrivateKey(t *testing.T) {
	privateKey, err := rsakeys.NewPrivateKey(big.NewInt(0x9668F701), big.NewInt(0x147B7F71))
	require.NoError(t, err)

	text := NewKeyEncoder().EncodePrivateKey(privateKey)
	assert.Equal(t, testPrivateKeyText, text)
	assert.Equal(t, big.NewInt(0x147B7F71), privateKey.Exponent())
}

func TestDecodeKeys(t *testing.T) {
	encoder := NewKeyEncoder()

	t.Run("PublicDefaultExponent", func(t *testing.T) {
		publicKey, err := encoder.DecodePublicKey("rsa-vault 9668f701\n")
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(0x9668F701), publicKey.Modulus())
		assert.Equal(t, big.NewInt(65537), publicKey.Exponent())
	})

	t.Run("PublicNdex", func(t *testing.T) {
		publicKey, err := encoder.DecodePublicKey("rsa-vault-ndex 11c68c75 5b97\n")
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(0x11C68C75), publicKey.Modulus())
		assert.Equal(t, big.NewInt(0x5B97), publicKey.Exponent())
	})

	t.Run("Private", func(t *testing.T) {
		privateKey, err := encoder.DecodePrivateKey(testPrivateKeyText)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(0x9668F701), privateKey.Modulus())
		assert.Equal(t, big.NewInt(0x147B7F71), privateKey.Exponent())
	})

	t.Run("RoundTripPair", func(t *testing.T) {
		publicKey, err := encoder.DecodePublicKey("rsa-vault-ndex 11c68c75 5b97\n")
		require.NoError(t, err)
		privateKey, err := rsakeys.NewPrivateKey(big.NewInt(0x11C68C75), big.NewInt(0x37A21E7))
		require.NoError(t, err)

		decoded, err := encoder.DecodePrivateKey(encoder.EncodePrivateKey(privateKey))
		require.NoError(t, err)
		pair := &rsakeys.KeyPair{Public: publicKey, Private: decoded}
		assert.NoError(t, pair.Validate())
	})
}

func TestDecodeMalformedKeys(t *testing.T) {
	encoder := NewKeyEncoder()

	publicTests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"UnknownHeader", "not-a-header\n"},
		{"NdexTooManyPieces", "rsa-vault-ndex 23424 14143 55345\n"},
		{"NdexInvalidModulus", "rsa-vault-ndex 2342g4 14143\n"},
		{"NdexInvalidExponent", "rsa-vault-ndex 23424 14h143\n"},
		{"NdexMissingExponent", "rsa-vault-ndex 23424\n"},
		{"DefaultTooManyPieces", "rsa-vault 23424 14143\n"},
		{"DefaultInvalidChar", "rsa-vault 2342p4\n"},
		{"UppercaseHex", "rsa-vault 9668F701\n"},
		{"ModulusTooSmall", "rsa-vault 2\n"},
	}
	for _, tt := range publicTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoder.DecodePublicKey(tt.text)
			assert.ErrorIs(t, err, rsakeys.ErrMalformedKey)
		})
	}

	privateTests := []struct {
		name string
		text string
	}{
		{"MissingComponent", "-----BEGIN RSA-VAULT PRIVATE KEY-----\n147b7f71\n-----END RSA-VAULT PRIVATE KEY-----\n"},
		{"InvalidChar", "-----BEGIN RSA-VAULT PRIVATE KEY-----\n9668f701h\n147b7f71\n-----END RSA-VAULT PRIVATE KEY-----\n"},
		{"WrongFooter", "-----BEGIN RSA-VAULT PRIVATE KEY-----\n9668f701\n147b7f71\n-----END RSA PRIVATE KEY-----\n"},
		{"PublicKeyText", "rsa-vault 9668f701\n"},
	}
	for _, tt := range privateTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoder.DecodePrivateKey(tt.text)
			assert.ErrorIs(t, err, rsakeys.ErrMalformedKey)
		})
	}

	t.Run("WrapsInvalidKey", func(t *testing.T) {
		_, err := encoder.DecodePublicKey("rsa-vault-ndex 23424 0\n")
		assert.ErrorIs(t, err, rsakeys.ErrMalformedKey)
		assert.ErrorIs(t, err, rsakeys.ErrInvalidKey)
	})
}
