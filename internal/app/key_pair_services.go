package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/logger"

	"github.com/google/uuid"
)

// keyPairGenerationService implements the KeyPairGenerationService interface
type keyPairGenerationService struct {
	keyPairRepo    rsakeys.KeyPairRepository
	rsaProcessor   rsakeys.RSAProcessor
	encoder        rsakeys.KeyEncoder
	exponentPolicy string
	logger         logger.Logger
}

// NewKeyPairGenerationService creates a new keyPairGenerationService instance.
// exponentPolicy is recorded with every generated key pair.
func NewKeyPairGenerationService(
	keyPairRepo rsakeys.KeyPairRepository,
	rsaProcessor rsakeys.RSAProcessor,
	encoder rsakeys.KeyEncoder,
	exponentPolicy string,
	logger logger.Logger,
) (rsakeys.KeyPairGenerationService, error) {
	if keyPairRepo == nil || rsaProcessor == nil || encoder == nil {
		return nil, fmt.Errorf("key pair repository, RSA processor and key encoder are required")
	}
	if exponentPolicy == "" {
		exponentPolicy = rsakeys.ExponentPolicyDefault
	}

	return &keyPairGenerationService{
		keyPairRepo:    keyPairRepo,
		rsaProcessor:   rsaProcessor,
		encoder:        encoder,
		exponentPolicy: exponentPolicy,
		logger:         logger,
	}, nil
}

// Generate creates a key pair of keySize bits for userID and stores it.
func (s *keyPairGenerationService) Generate(ctx context.Context, userID string, keySize uint32) (*rsakeys.KeyPairMeta, error) {
	privateKey, publicKey, err := s.rsaProcessor.GenerateKeys(ctx, int(keySize))
	if err != nil {
		return nil, err
	}

	keyPair := &rsakeys.KeyPairMeta{
		ID:              uuid.New().String(),
		KeySize:         keySize,
		ExponentPolicy:  s.exponentPolicy,
		PublicKey:       s.encoder.EncodePublicKey(publicKey),
		PrivateKey:      s.encoder.EncodePrivateKey(privateKey),
		UserID:          userID,
		DateTimeCreated: time.Now().UTC(),
	}

	if err := s.keyPairRepo.Create(ctx, keyPair); err != nil {
		return nil, fmt.Errorf("failed to store key pair: %w", err)
	}

	s.logger.Info("Generated key pair ", keyPair.ID, " of ", keySize, " bits for user ", userID)
	return keyPair, nil
}

// keyPairMetadataService implements the KeyPairMetadataService interface
type keyPairMetadataService struct {
	keyPairRepo rsakeys.KeyPairRepository
	logger      logger.Logger
}

// NewKeyPairMetadataService creates a new keyPairMetadataService instance
func NewKeyPairMetadataService(keyPairRepo rsakeys.KeyPairRepository, logger logger.Logger) (rsakeys.KeyPairMetadataService, error) {
	if keyPairRepo == nil {
		return nil, fmt.Errorf("key pair repository is required")
	}
	return &keyPairMetadataService{
		keyPairRepo: keyPairRepo,
		logger:      logger,
	}, nil
}

// List retrieves key pairs matching query.
func (s *keyPairMetadataService) List(ctx context.Context, query *rsakeys.KeyPairQuery) ([]*rsakeys.KeyPairMeta, error) {
	keyPairs, err := s.keyPairRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list key pairs: %w", err)
	}
	return keyPairs, nil
}

// GetByID retrieves a key pair by its ID.
func (s *keyPairMetadataService) GetByID(ctx context.Context, keyPairID string) (*rsakeys.KeyPairMeta, error) {
	keyPair, err := s.keyPairRepo.GetByID(ctx, keyPairID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve key pair: %w", err)
	}
	return keyPair, nil
}

// DeleteByID deletes a key pair by its ID.
func (s *keyPairMetadataService) DeleteByID(ctx context.Context, keyPairID string) error {
	if err := s.keyPairRepo.DeleteByID(ctx, keyPairID); err != nil {
		return fmt.Errorf("failed to delete key pair: %w", err)
	}
	s.logger.Info("Deleted key pair ", keyPairID)
	return nil
}

func (s *keyPairMetadataService) PublicKeyText(ctx context.Context, keyPairID string) (string, error) {
	keyPair, err := s.GetByID(ctx, keyPairID)
	if err != nil {
		return "", err
	}
	return keyPair.PublicKey, nil
}

// keyPairCipherService implements the KeyPairCipherService interface
type keyPairCipherService struct {
	keyPairRepo  rsakeys.KeyPairRepository
	rsaProcessor rsakeys.RSAProcessor
	encoder      rsakeys.KeyEncoder
	logger       logger.Logger
}

// NewKeyPairCipherService creates a new keyPairCipherService instance
func NewKeyPairCipherService(
	keyPairRepo rsakeys.KeyPairRepository,
	rsaProcessor rsakeys.RSAProcessor,
	encoder rsakeys.KeyEncoder,
	logger logger.Logger,
) (rsakeys.KeyPairCipherService, error) {
	if keyPairRepo == nil || rsaProcessor == nil || encoder == nil {
		return nil, fmt.Errorf("key pair repository, RSA processor and key encoder are required")
	}
	return &keyPairCipherService{
		keyPairRepo:  keyPairRepo,
		rsaProcessor: rsaProcessor,
		encoder:      encoder,
		logger:       logger,
	}, nil
}

// EncryptWithKey encrypts plainText with the public half of a stored key pair.
func (s *keyPairCipherService) EncryptWithKey(ctx context.Context, keyPairID string, plainText []byte) ([]byte, error) {
	keyPair, err := s.keyPairRepo.GetByID(ctx, keyPairID)
	if err != nil {
		return nil, err
	}

	publicKey, err := s.encoder.DecodePublicKey(keyPair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("stored public key of %s is corrupt: %w", keyPairID, err)
	}

	cipherText, err := s.rsaProcessor.Encrypt(plainText, publicKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Encrypted ", len(plainText), " bytes with key pair ", keyPairID)
	return cipherText, nil
}

// DecryptWithKey decrypts cipherText with the private half of a stored key pair.
func (s *keyPairCipherService) DecryptWithKey(ctx context.Context, keyPairID string, cipherText []byte) ([]byte, error) {
	keyPair, err := s.keyPairRepo.GetByID(ctx, keyPairID)
	if err != nil {
		return nil, err
	}

	privateKey, err := s.encoder.DecodePrivateKey(keyPair.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("stored private key of %s is corrupt: %w", keyPairID, err)
	}

	plainText, err := s.rsaProcessor.Decrypt(cipherText, privateKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Decrypted ", len(cipherText), " bytes with key pair ", keyPairID)
	return plainText, nil
}
