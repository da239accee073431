package validators

import (
	"github.com/go-playground/validator/v10"
)

// RSA key size bounds in bits. Two primes of at least 4 bits each are required.
const (
	MinRSAKeySize = 8
	MaxRSAKeySize = 8192
)

// IsValidRSAKeySize reports whether keySize can be split evenly into two primes
// and lies within the supported bounds.
func IsValidRSAKeySize(keySize int) bool {
	return keySize >= MinRSAKeySize && keySize <= MaxRSAKeySize && keySize%2 == 0
}

// KeySizeValidation validates an RSA key size field. It is registered under the
// "rsa_keysize" tag.
func KeySizeValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.CanInt() {
		return IsValidRSAKeySize(int(field.Int()))
	}
	if field.CanUint() {
		return IsValidRSAKeySize(int(field.Uint()))
	}
	return false
}

// New returns a validator with the custom RSA validations registered.
func New() (*validator.Validate, error) {
	validate := validator.New()
	if err := validate.RegisterValidation("rsa_keysize", KeySizeValidation); err != nil {
		return nil, err
	}
	return validate, nil
}
