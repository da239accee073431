// Package rsakeys defines the core types and contracts for textbook RSA:
// public and private keys, key pairs, key pair metadata, the sentinel errors
// surfaced by key generation and the block transform, and the interfaces
// implemented by the infrastructure layer.
package rsakeys
