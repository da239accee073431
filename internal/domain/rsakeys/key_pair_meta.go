package rsakeys

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// KeyPairMeta is a persisted key pair together with its metadata.
// Keys are held in their textual key file representation.
type KeyPairMeta struct {
	ID              string    `validate:"required,uuid4"`
	KeySize         uint32    `validate:"required,rsa_keysize"`
	ExponentPolicy  string    `validate:"required,oneof=default search random"`
	PublicKey       string    `validate:"required"`
	PrivateKey      string    `validate:"required"`
	UserID          string    `validate:"required,uuid4"`
	DateTimeCreated time.Time `validate:"required"`
}

// Validate for validating KeyPairMeta struct
func (k *KeyPairMeta) Validate() error {
	return validateStruct(k)
}

// KeyPairQuery filters, sorts and paginates key pair listings.
type KeyPairQuery struct {
	KeySize   uint32 `validate:"omitempty,rsa_keysize"`
	UserID    string `validate:"omitempty,uuid4"`
	Limit     int    `validate:"omitempty,min=1,max=1000"`
	Offset    int    `validate:"omitempty,min=0"`
	SortBy    string `validate:"omitempty,oneof=id key_size date_time_created"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewKeyPairQuery creates a KeyPairQuery with default values
func NewKeyPairQuery() *KeyPairQuery {
	return &KeyPairQuery{
		Limit:     100,
		SortBy:    "date_time_created",
		SortOrder: "desc",
	}
}

// Validate for validating KeyPairQuery struct
func (q *KeyPairQuery) Validate() error {
	return validateStruct(q)
}

func validateStruct(s interface{}) error {
	validate, err := validators.New()
	if err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err = validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}
