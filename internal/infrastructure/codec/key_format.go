package codec

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
)

const (
	PublicKeyHeader     = "rsa-vault"
	PublicKeyNdexHeader = "rsa-vault-ndex"
	PrivateKeyHeader    = "-----BEGIN RSA-VAULT PRIVATE KEY-----"
	PrivateKeyFooter    = "-----END RSA-VAULT PRIVATE KEY-----"

	hexRadix = 16
)

var hexComponent = regexp.MustCompile(`^[0-9a-f]+$`)

type keyEncoder struct{}

// NewKeyEncoder returns the rsakeys.KeyEncoder for the rsa-vault key file format.
func NewKeyEncoder() rsakeys.KeyEncoder {
	return &keyEncoder{}
}

// EncodePublicKey omits E when it is the default public exponent.
func (keyEncoder) EncodePublicKey(publicKey *rsakeys.PublicKey) string {
	n := publicKey.Modulus().Text(hexRadix)
	if publicKey.IsDefaultExponent() {
		return fmt.Sprintf("%s %s\n", PublicKeyHeader, n)
	}
	return fmt.Sprintf("%s %s %s\n", PublicKeyNdexHeader, n, publicKey.Exponent().Text(hexRadix))
}

func (keyEncoder) EncodePrivateKey(privateKey *rsakeys.PrivateKey) string {
	d := privateKey.Exponent()
	text := fmt.Sprintf("%s\n%s\n%s\n%s\n", PrivateKeyHeader, privateKey.Modulus().Text(hexRadix), d.Text(hexRadix), PrivateKeyFooter)
	d.SetInt64(0)
	return text
}

func (keyEncoder) DecodePublicKey(text string) (*rsakeys.PublicKey, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty public key", rsakeys.ErrMalformedKey)
	}

	var n, e *big.Int
	var err error
	switch fields[0] {
	case PublicKeyNdexHeader:
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: expected modulus and exponent, got %d fields", rsakeys.ErrMalformedKey, len(fields)-1)
		}
		if n, err = parseHex(fields[1]); err != nil {
			return nil, err
		}
		if e, err = parseHex(fields[2]); err != nil {
			return nil, err
		}
	case PublicKeyHeader:
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: expected modulus only, got %d fields", rsakeys.ErrMalformedKey, len(fields)-1)
		}
		if n, err = parseHex(fields[1]); err != nil {
			return nil, err
		}
		e = big.NewInt(rsakeys.DefaultPublicExponent)
	default:
		return nil, fmt.Errorf("%w: unknown public key header %q", rsakeys.ErrMalformedKey, fields[0])
	}

	publicKey, err := rsakeys.NewPublicKey(n, e)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rsakeys.ErrMalformedKey, err)
	}
	return publicKey, nil
}

func (keyEncoder) DecodePrivateKey(text string) (*rsakeys.PrivateKey, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 4 {
		return nil, fmt.Errorf("%w: expected 4 lines, got %d", rsakeys.ErrMalformedKey, len(lines))
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if lines[0] != PrivateKeyHeader || lines[3] != PrivateKeyFooter {
		return nil, fmt.Errorf("%w: missing private key header or footer", rsakeys.ErrMalformedKey)
	}

	n, err := parseHex(lines[1])
	if err != nil {
		return nil, err
	}
	d, err := parseHex(lines[2])
	if err != nil {
		return nil, err
	}
	defer d.SetInt64(0)

	privateKey, err := rsakeys.NewPrivateKey(n, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rsakeys.ErrMalformedKey, err)
	}
	return privateKey, nil
}

func parseHex(component string) (*big.Int, error) {
	if !hexComponent.MatchString(component) {
		return nil, fmt.Errorf("%w: %q is not lowercase hex", rsakeys.ErrMalformedKey, component)
	}
	v, ok := new(big.Int).SetString(component, hexRadix)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q", rsakeys.ErrMalformedKey, component)
	}
	return v, nil
}
