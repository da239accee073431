// Package codec converts between byte messages, RSA blocks and the textual
// key file format.
package codec
