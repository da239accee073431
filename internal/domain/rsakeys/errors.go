package rsakeys

import "errors"

var (
	// ErrGenerationTimeout is returned when no prime was found within the retry budget.
	ErrGenerationTimeout = errors.New("prime generation exceeded retry budget")
	// ErrInvalidKeySize is returned for key sizes that cannot be split into two primes.
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrExponentNotFound is returned when no public exponent coprime to the totient was found.
	ErrExponentNotFound = errors.New("no coprime public exponent found")
	// ErrBlockOutOfRange is returned when a transform input is negative or not below the modulus.
	ErrBlockOutOfRange = errors.New("block out of range")
	// ErrModularInverseUndefined is returned when an inverse is required but gcd != 1.
	ErrModularInverseUndefined = errors.New("modular inverse undefined")

	// ErrInvalidKey is returned for nil or structurally invalid keys.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidPrime is returned when a supplied factor is not prime.
	ErrInvalidPrime = errors.New("invalid prime")
	// ErrInvalidCertainty is returned for a non-positive Miller-Rabin round count.
	ErrInvalidCertainty = errors.New("invalid primality certainty")
	// ErrKeyPairMismatch is returned when a public and a private key do not belong together.
	ErrKeyPairMismatch = errors.New("key pair mismatch")
	// ErrMalformedKey is returned when a textual key cannot be parsed.
	ErrMalformedKey = errors.New("malformed key")
	// ErrMalformedCiphertext is returned when a ciphertext does not decode into whole blocks.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrModulusTooSmall is returned when a modulus cannot carry a single byte per block.
	ErrModulusTooSmall = errors.New("modulus too small for byte blocks")
	// ErrKeyNotFound is returned by repositories and services for unknown key pair IDs.
	ErrKeyNotFound = errors.New("key pair not found")
)
