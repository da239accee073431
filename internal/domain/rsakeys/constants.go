package rsakeys

import "github.com/MGTheTrain/rsa-vault/internal/pkg/validators"

// DefaultPublicExponent is the conventional public exponent (F4).
const DefaultPublicExponent = 65537

// DefaultKeySize is the key size in bits used when none is requested.
const DefaultKeySize = 2048

// MinKeySize is the smallest supported key size in bits.
const MinKeySize = validators.MinRSAKeySize

// MaxKeySize is the largest supported key size in bits.
const MaxKeySize = validators.MaxRSAKeySize

// DefaultCertainty is the default number of Miller-Rabin rounds.
const DefaultCertainty = 20

// DefaultMaxPrimeAttempts bounds the number of candidates tried per prime.
const DefaultMaxPrimeAttempts = 100000

// DefaultExponentSearchWindow bounds the number of candidates tried when
// searching for a public exponent coprime to the totient.
const DefaultExponentSearchWindow = 1 << 16

// Exponent selection policies
const (
	// ExponentPolicyDefault tries DefaultPublicExponent first and searches upward when it does not fit.
	ExponentPolicyDefault = "default"
	// ExponentPolicySearch always searches upward from 3.
	ExponentPolicySearch = "search"
	// ExponentPolicyRandom draws a random prime exponent below the totient.
	ExponentPolicyRandom = "random"
)

// Key types
const (
	KeyTypePublic  = "public"
	KeyTypePrivate = "private"
)
