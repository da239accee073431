//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"

	"github.com/stretchr/testify/mock"
)

// MockKeyPairGenerationService is a mock implementation of KeyPairGenerationService
type MockKeyPairGenerationService struct {
	mock.Mock
}

func (m *MockKeyPairGenerationService) Generate(ctx context.Context, userID string, keySize uint32) (*rsakeys.KeyPairMeta, error) {
	args := m.Called(ctx, userID, keySize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsakeys.KeyPairMeta), args.Error(1)
}

// MockKeyPairMetadataService is a mock implementation of KeyPairMetadataService
type MockKeyPairMetadataService struct {
	mock.Mock
}

func (m *MockKeyPairMetadataService) List(ctx context.Context, query *rsakeys.KeyPairQuery) ([]*rsakeys.KeyPairMeta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rsakeys.KeyPairMeta), args.Error(1)
}

func (m *MockKeyPairMetadataService) GetByID(ctx context.Context, keyPairID string) (*rsakeys.KeyPairMeta, error) {
	args := m.Called(ctx, keyPairID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsakeys.KeyPairMeta), args.Error(1)
}

func (m *MockKeyPairMetadataService) DeleteByID(ctx context.Context, keyPairID string) error {
	args := m.Called(ctx, keyPairID)
	return args.Error(0)
}

func (m *MockKeyPairMetadataService) PublicKeyText(ctx context.Context, keyPairID string) (string, error) {
	args := m.Called(ctx, keyPairID)
	return args.String(0), args.Error(1)
}

// MockKeyPairCipherService is a mock implementation of KeyPairCipherService
type MockKeyPairCipherService struct {
	mock.Mock
}

func (m *MockKeyPairCipherService) EncryptWithKey(ctx context.Context, keyPairID string, plainText []byte) ([]byte, error) {
	args := m.Called(ctx, keyPairID, plainText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKeyPairCipherService) DecryptWithKey(ctx context.Context, keyPairID string, cipherText []byte) ([]byte, error) {
	args := m.Called(ctx, keyPairID, cipherText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
