package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
)

// lengthPrefixSize is the width of the big-endian message length that
// precedes every framed message.
const lengthPrefixSize = 8

type blockCodec struct{}

// NewBlockCodec returns the length-prefixed rsakeys.BlockCodec.
//
// Split frames the message as an 8 byte big-endian length followed by the
// message bytes, zero pads the frame to a multiple of the plain block width
// k = (bitlen(N)-1)/8 and reads each k byte chunk as a big-endian integer,
// which keeps every block below N. Ciphertext blocks are serialized at the
// fixed width ceil(bitlen(N)/8).
func NewBlockCodec() rsakeys.BlockCodec {
	return &blockCodec{}
}

// PlainBlockSize returns the number of message bytes carried per block.
func PlainBlockSize(modulus *big.Int) (int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return 0, fmt.Errorf("%w: modulus must be positive", rsakeys.ErrModulusTooSmall)
	}
	k := (modulus.BitLen() - 1) / 8
	if k < 1 {
		return 0, fmt.Errorf("%w: %d-bit modulus cannot carry a full byte", rsakeys.ErrModulusTooSmall, modulus.BitLen())
	}
	return k, nil
}

// CipherBlockSize returns the serialized width of a ciphertext block.
func CipherBlockSize(modulus *big.Int) int {
	return (modulus.BitLen() + 7) / 8
}

func (blockCodec) Split(msg []byte, modulus *big.Int) ([]*big.Int, error) {
	k, err := PlainBlockSize(modulus)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, roundUp(lengthPrefixSize+len(msg), k))
	defer clear(frame)
	binary.BigEndian.PutUint64(frame, uint64(len(msg)))
	copy(frame[lengthPrefixSize:], msg)

	blocks := make([]*big.Int, 0, len(frame)/k)
	for offset := 0; offset < len(frame); offset += k {
		blocks = append(blocks, new(big.Int).SetBytes(frame[offset:offset+k]))
	}
	return blocks, nil
}

func (blockCodec) Join(blocks []*big.Int, modulus *big.Int) ([]byte, error) {
	k, err := PlainBlockSize(modulus)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", rsakeys.ErrMalformedCiphertext)
	}

	frame := make([]byte, len(blocks)*k)
	defer clear(frame)
	for i, block := range blocks {
		if block == nil || block.Sign() < 0 || block.BitLen() > 8*k {
			return nil, fmt.Errorf("%w: block %d exceeds %d bytes", rsakeys.ErrMalformedCiphertext, i, k)
		}
		block.FillBytes(frame[i*k : (i+1)*k])
	}

	length := binary.BigEndian.Uint64(frame)
	if length > uint64(len(frame)-lengthPrefixSize) || roundUp(lengthPrefixSize+int(length), k) != len(frame) {
		return nil, fmt.Errorf("%w: length prefix %d does not match %d blocks", rsakeys.ErrMalformedCiphertext, length, len(blocks))
	}

	msg := make([]byte, length)
	copy(msg, frame[lengthPrefixSize:])
	return msg, nil
}

func (blockCodec) MarshalBlocks(blocks []*big.Int, modulus *big.Int) ([]byte, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive", rsakeys.ErrModulusTooSmall)
	}
	w := CipherBlockSize(modulus)

	out := make([]byte, len(blocks)*w)
	for i, block := range blocks {
		if block == nil || block.Sign() < 0 || block.Cmp(modulus) >= 0 {
			return nil, fmt.Errorf("%w: block %d", rsakeys.ErrBlockOutOfRange, i)
		}
		block.FillBytes(out[i*w : (i+1)*w])
	}
	return out, nil
}

func (blockCodec) UnmarshalBlocks(data []byte, modulus *big.Int) ([]*big.Int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive", rsakeys.ErrModulusTooSmall)
	}
	w := CipherBlockSize(modulus)
	if len(data) == 0 || len(data)%w != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of %d", rsakeys.ErrMalformedCiphertext, len(data), w)
	}

	blocks := make([]*big.Int, 0, len(data)/w)
	for offset := 0; offset < len(data); offset += w {
		block := new(big.Int).SetBytes(data[offset : offset+w])
		if block.Cmp(modulus) >= 0 {
			return nil, fmt.Errorf("%w: block at offset %d is not below the modulus", rsakeys.ErrMalformedCiphertext, offset)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func roundUp(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}
