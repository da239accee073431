// Package rsacore implements the RSA key generation and modular arithmetic
// engine: square-and-multiply exponentiation, the extended Euclidean algorithm,
// Miller-Rabin primality testing, prime and key pair generation and the block
// transform.
//
// The package never logs. Errors are returned to the caller wrapped around the
// sentinels declared in the rsakeys package.
//
// The default transform is not constant time: square-and-multiply leaks timing
// correlated with exponent bits. NewConstantTimeTransformer trades speed for a
// fixed-shape exponentiation.
package rsacore
