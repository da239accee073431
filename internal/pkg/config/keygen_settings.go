package config

import (
	"fmt"
	"runtime"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/validators"
)

// KeyGenSettings tunes key generation and the block transform.
type KeyGenSettings struct {
	DefaultKeySize       int    `mapstructure:"default_key_size" validate:"required,rsa_keysize"`
	Certainty            int    `mapstructure:"certainty" validate:"required,min=1,max=256"`
	ExponentPolicy       string `mapstructure:"exponent_policy" validate:"required,oneof=default search random"`
	PublicExponent       int64  `mapstructure:"public_exponent" validate:"required,min=3"`
	MaxPrimeAttempts     int    `mapstructure:"max_prime_attempts" validate:"required,min=1"`
	ExponentSearchWindow int    `mapstructure:"exponent_search_window" validate:"required,min=1"`
	ConstantTime         bool   `mapstructure:"constant_time"`
	Workers              int    `mapstructure:"workers" validate:"min=0"`
}

// NewDefaultKeyGenSettings returns the settings used when nothing is configured.
func NewDefaultKeyGenSettings() *KeyGenSettings {
	return &KeyGenSettings{
		DefaultKeySize:       rsakeys.DefaultKeySize,
		Certainty:            rsakeys.DefaultCertainty,
		ExponentPolicy:       rsakeys.ExponentPolicyDefault,
		PublicExponent:       rsakeys.DefaultPublicExponent,
		MaxPrimeAttempts:     rsakeys.DefaultMaxPrimeAttempts,
		ExponentSearchWindow: rsakeys.DefaultExponentSearchWindow,
		Workers:              runtime.GOMAXPROCS(0),
	}
}

// Validate checks that all fields in KeyGenSettings are valid
func (s *KeyGenSettings) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for KeyGenSettings: %w", err)
	}
	if s.PublicExponent%2 == 0 {
		return fmt.Errorf("public exponent must be odd, got %d", s.PublicExponent)
	}
	return nil
}

// WorkerCount returns Workers, or GOMAXPROCS when Workers is 0.
func (s *KeyGenSettings) WorkerCount() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}
