package rsakeys

import (
	"context"
	"math/big"
)

// ProgressFunc receives a short description of each key generation stage.
type ProgressFunc func(stage string)

// PrimeGenerator produces random probable primes.
type PrimeGenerator interface {
	// GeneratePrime returns a random prime of exactly bitLength bits that passed
	// certainty rounds of Miller-Rabin.
	GeneratePrime(ctx context.Context, bitLength, certainty int) (*big.Int, error)
}

// KeyPairGenerator derives RSA key pairs.
type KeyPairGenerator interface {
	// GenerateKeyPair generates a key pair whose modulus has keySize bits (or one less).
	GenerateKeyPair(ctx context.Context, keySize int) (*KeyPair, error)

	// DeriveKeyPair builds a key pair from fixed primes and a public exponent.
	DeriveKeyPair(p, q, e *big.Int) (*KeyPair, error)
}

// Transformer applies the RSA permutation to a single block in [0, N).
type Transformer interface {
	// Encrypt computes block^E mod N.
	Encrypt(block *big.Int, publicKey *PublicKey) (*big.Int, error)

	// Decrypt computes block^D mod N.
	Decrypt(block *big.Int, privateKey *PrivateKey) (*big.Int, error)
}

// BlockCodec converts between byte messages and blocks bounded by a modulus.
type BlockCodec interface {
	// Split frames msg and cuts it into plaintext blocks below modulus.
	Split(msg []byte, modulus *big.Int) ([]*big.Int, error)

	// Join reassembles the message from plaintext blocks produced by Split.
	Join(blocks []*big.Int, modulus *big.Int) ([]byte, error)

	// MarshalBlocks serializes ciphertext blocks at a fixed width.
	MarshalBlocks(blocks []*big.Int, modulus *big.Int) ([]byte, error)

	// UnmarshalBlocks parses fixed width ciphertext blocks.
	UnmarshalBlocks(data []byte, modulus *big.Int) ([]*big.Int, error)
}

// KeyEncoder converts keys to and from their textual key file representation.
type KeyEncoder interface {
	EncodePublicKey(publicKey *PublicKey) string
	EncodePrivateKey(privateKey *PrivateKey) string
	DecodePublicKey(text string) (*PublicKey, error)
	DecodePrivateKey(text string) (*PrivateKey, error)
}

// RSAProcessor handles textbook RSA operations on byte messages and key files.
// NOTE: no padding is applied. Do not encrypt attacker-influenced plaintext in production.
type RSAProcessor interface {
	// GenerateKeys generates an RSA key pair with the specified bit size.
	GenerateKeys(ctx context.Context, keySize int) (*PrivateKey, *PublicKey, error)

	// Encrypt encrypts plaintext of any length block by block with the public key.
	Encrypt(plainText []byte, publicKey *PublicKey) ([]byte, error)

	// Decrypt decrypts ciphertext produced by Encrypt with the private key.
	Decrypt(cipherText []byte, privateKey *PrivateKey) ([]byte, error)

	// ValidateKeyPair checks that the two keys belong to the same pair.
	ValidateKeyPair(publicKey *PublicKey, privateKey *PrivateKey) error

	// SavePrivateKeyToFile saves the private key in the textual key format.
	SavePrivateKeyToFile(privateKey *PrivateKey, filename string) error

	// SavePublicKeyToFile saves the public key in the textual key format.
	SavePublicKeyToFile(publicKey *PublicKey, filename string) error

	// ReadPrivateKey reads a private key file.
	ReadPrivateKey(privateKeyPath string) (*PrivateKey, error)

	// ReadPublicKey reads a public key file.
	ReadPublicKey(publicKeyPath string) (*PublicKey, error)
}

// KeyPairRepository defines persistence operations for key pairs
type KeyPairRepository interface {
	Create(ctx context.Context, keyPair *KeyPairMeta) error
	List(ctx context.Context, query *KeyPairQuery) ([]*KeyPairMeta, error)
	GetByID(ctx context.Context, keyPairID string) (*KeyPairMeta, error)
	DeleteByID(ctx context.Context, keyPairID string) error
}

// KeyPairGenerationService generates and stores key pairs.
type KeyPairGenerationService interface {
	// Generate creates a key pair of keySize bits owned by userID and persists it.
	Generate(ctx context.Context, userID string, keySize uint32) (*KeyPairMeta, error)
}

// KeyPairMetadataService manages stored key pairs.
type KeyPairMetadataService interface {
	List(ctx context.Context, query *KeyPairQuery) ([]*KeyPairMeta, error)
	GetByID(ctx context.Context, keyPairID string) (*KeyPairMeta, error)
	DeleteByID(ctx context.Context, keyPairID string) error

	// PublicKeyText returns the public key file content of a stored key pair.
	PublicKeyText(ctx context.Context, keyPairID string) (string, error)
}

// KeyPairCipherService encrypts and decrypts with stored key pairs.
type KeyPairCipherService interface {
	EncryptWithKey(ctx context.Context, keyPairID string, plainText []byte) ([]byte, error)
	DecryptWithKey(ctx context.Context, keyPairID string, cipherText []byte) ([]byte, error)
}
