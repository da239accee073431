package cryptography

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/infrastructure/codec"
	"github.com/MGTheTrain/rsa-vault/internal/infrastructure/rsacore"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// rsaProcessor struct that implements the RSAProcessor interface
type rsaProcessor struct {
	generator   rsakeys.KeyPairGenerator
	transformer rsakeys.Transformer
	blocks      rsakeys.BlockCodec
	keys        rsakeys.KeyEncoder
	workers     int
	logger      logger.Logger
}

// NewRSAProcessor creates an RSAProcessor transforming up to workers blocks
// concurrently.
func NewRSAProcessor(generator rsakeys.KeyPairGenerator, transformer rsakeys.Transformer, workers int, logger logger.Logger) (rsakeys.RSAProcessor, error) {
	if generator == nil {
		return nil, fmt.Errorf("key pair generator cannot be nil")
	}
	if transformer == nil {
		return nil, fmt.Errorf("transformer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if workers < 1 {
		workers = 1
	}

	return &rsaProcessor{
		generator:   generator,
		transformer: transformer,
		blocks:      codec.NewBlockCodec(),
		keys:        codec.NewKeyEncoder(),
		workers:     workers,
		logger:      logger,
	}, nil
}

// NewRSAProcessorFromSettings wires the prime generator, key pair generator
// and transformer selected by settings. progress may be nil.
func NewRSAProcessorFromSettings(settings *config.KeyGenSettings, progress rsakeys.ProgressFunc, logger logger.Logger) (rsakeys.RSAProcessor, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	primes := rsacore.NewPrimeGenerator(nil, settings.MaxPrimeAttempts)
	generator, err := rsacore.NewKeyGenerator(primes, rsacore.KeyGeneratorOptions{
		Certainty:            settings.Certainty,
		ExponentPolicy:       settings.ExponentPolicy,
		PublicExponent:       settings.PublicExponent,
		ExponentSearchWindow: settings.ExponentSearchWindow,
		Progress:             progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key pair generator: %w", err)
	}

	transformer := rsacore.NewTransformer()
	if settings.ConstantTime {
		transformer = rsacore.NewConstantTimeTransformer()
	}

	return NewRSAProcessor(generator, transformer, settings.WorkerCount(), logger)
}

// GenerateKeys generates an RSA key pair whose modulus has keySize bits (or one less).
func (r *rsaProcessor) GenerateKeys(ctx context.Context, keySize int) (*rsakeys.PrivateKey, *rsakeys.PublicKey, error) {
	pair, err := r.generator.GenerateKeyPair(ctx, keySize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA keys: %w", err)
	}
	r.logger.Info("Generated RSA key pair with modulus of ", pair.Public.BitLen(), " bits")
	return pair.Private, pair.Public, nil
}

// Encrypt frames plainText into blocks, encrypts them concurrently and
// concatenates the fixed width cipher blocks.
// NOTE: textbook RSA, identical plaintexts produce identical ciphertexts.
func (r *rsaProcessor) Encrypt(plainText []byte, publicKey *rsakeys.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, errors.New("public key cannot be nil")
	}
	modulus := publicKey.Modulus()

	blocks, err := r.blocks.Split(plainText, modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to split plaintext: %w", err)
	}

	encrypted, err := r.transformAll(blocks, func(block *big.Int) (*big.Int, error) {
		return r.transformer.Encrypt(block, publicKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}

	cipherText, err := r.blocks.MarshalBlocks(encrypted, modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ciphertext: %w", err)
	}

	r.logger.Info("RSA encryption succeeded: ", len(blocks), " blocks")
	return cipherText, nil
}

// Decrypt reverses Encrypt.
func (r *rsaProcessor) Decrypt(cipherText []byte, privateKey *rsakeys.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	modulus := privateKey.Modulus()

	blocks, err := r.blocks.UnmarshalBlocks(cipherText, modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	decrypted, err := r.transformAll(blocks, func(block *big.Int) (*big.Int, error) {
		return r.transformer.Decrypt(block, privateKey)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}
	defer rsacore.Scrub(decrypted...)

	plainText, err := r.blocks.Join(decrypted, modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to reassemble plaintext: %w", err)
	}

	r.logger.Info("RSA decryption succeeded: ", len(blocks), " blocks")
	return plainText, nil
}

// ValidateKeyPair checks that publicKey and privateKey form a working pair.
func (r *rsaProcessor) ValidateKeyPair(publicKey *rsakeys.PublicKey, privateKey *rsakeys.PrivateKey) error {
	pair := &rsakeys.KeyPair{Public: publicKey, Private: privateKey}
	if err := pair.Validate(); err != nil {
		r.logger.Warn("RSA key pair validation failed: ", err)
		return err
	}
	r.logger.Info("RSA key pair is valid")
	return nil
}

// SavePrivateKeyToFile writes the private key with owner-only permissions.
func (r *rsaProcessor) SavePrivateKeyToFile(privateKey *rsakeys.PrivateKey, filename string) error {
	if privateKey == nil {
		return fmt.Errorf("private key cannot be nil")
	}
	if err := writeKeyFile(filename, r.keys.EncodePrivateKey(privateKey), 0600); err != nil {
		return fmt.Errorf("failed to write private key file: %w", err)
	}

	r.logger.Info("Saved RSA private key ", filename)
	return nil
}

// SavePublicKeyToFile writes the public key.
func (r *rsaProcessor) SavePublicKeyToFile(publicKey *rsakeys.PublicKey, filename string) error {
	if publicKey == nil {
		return fmt.Errorf("public key cannot be nil")
	}
	if err := writeKeyFile(filename, r.keys.EncodePublicKey(publicKey), 0644); err != nil {
		return fmt.Errorf("failed to write public key file: %w", err)
	}

	r.logger.Info("Saved RSA public key ", filename)
	return nil
}

// ReadPrivateKey reads a private key file.
func (r *rsaProcessor) ReadPrivateKey(privateKeyPath string) (*rsakeys.PrivateKey, error) {
	content, err := os.ReadFile(filepath.Clean(privateKeyPath))
	if err != nil {
		return nil, fmt.Errorf("unable to read private key file: %w", err)
	}
	defer clear(content)

	privateKey, err := r.keys.DecodePrivateKey(string(content))
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key %s: %w", privateKeyPath, err)
	}
	return privateKey, nil
}

// ReadPublicKey reads a public key file.
func (r *rsaProcessor) ReadPublicKey(publicKeyPath string) (*rsakeys.PublicKey, error) {
	content, err := os.ReadFile(filepath.Clean(publicKeyPath))
	if err != nil {
		return nil, fmt.Errorf("unable to read public key file: %w", err)
	}

	publicKey, err := r.keys.DecodePublicKey(string(content))
	if err != nil {
		return nil, fmt.Errorf("unable to parse public key %s: %w", publicKeyPath, err)
	}
	return publicKey, nil
}

// transformAll applies fn to every block using at most r.workers goroutines.
// Output order matches input order.
func (r *rsaProcessor) transformAll(blocks []*big.Int, fn func(*big.Int) (*big.Int, error)) ([]*big.Int, error) {
	out := make([]*big.Int, len(blocks))

	var eg errgroup.Group
	eg.SetLimit(r.workers)
	for i, block := range blocks {
		i, block := i, block
		eg.Go(func() error {
			result, err := fn(block)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			out[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func writeKeyFile(filename, content string, perm os.FileMode) error {
	file, err := os.OpenFile(filepath.Clean(filename), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
