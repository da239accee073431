package v1

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/validators"
)

// GenerateKeyPairRequest is the body of POST /keys.
type GenerateKeyPairRequest struct {
	KeySize uint32 `json:"key_size" validate:"required,rsa_keysize"`
}

// Validate checks the requested key size.
func (r *GenerateKeyPairRequest) Validate() error {
	return validateRequest(r)
}

// EncryptRequest carries base64 plaintext. An empty plaintext is allowed.
type EncryptRequest struct {
	PlainText []byte `json:"plaintext"`
}

// EncryptResponse carries base64 ciphertext.
type EncryptResponse struct {
	CipherText []byte `json:"ciphertext"`
}

// DecryptRequest carries base64 ciphertext.
type DecryptRequest struct {
	CipherText []byte `json:"ciphertext" validate:"required"`
}

// Validate checks that ciphertext is present.
func (r *DecryptRequest) Validate() error {
	return validateRequest(r)
}

// DecryptResponse carries base64 plaintext.
type DecryptResponse struct {
	PlainText []byte `json:"plaintext"`
}

// KeyPairMetaResponse describes a stored key pair. The private key is never exposed.
type KeyPairMetaResponse struct {
	ID              string    `json:"id"`
	KeySize         uint32    `json:"key_size"`
	ExponentPolicy  string    `json:"exponent_policy"`
	PublicKey       string    `json:"public_key"`
	UserID          string    `json:"user_id"`
	DateTimeCreated time.Time `json:"date_time_created"`
}

// NewKeyPairMetaResponse maps the domain entity to its response.
func NewKeyPairMetaResponse(keyPair *rsakeys.KeyPairMeta) KeyPairMetaResponse {
	return KeyPairMetaResponse{
		ID:              keyPair.ID,
		KeySize:         keyPair.KeySize,
		ExponentPolicy:  keyPair.ExponentPolicy,
		PublicKey:       keyPair.PublicKey,
		UserID:          keyPair.UserID,
		DateTimeCreated: keyPair.DateTimeCreated,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse represents an informational response
type InfoResponse struct {
	Message string `json:"message"`
}

func validateRequest(request interface{}) error {
	validate, err := validators.New()
	if err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
