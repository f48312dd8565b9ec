package bindata

import (
	"fmt"
	"math/big"

	"github.com/spacemeshos/go-scale"
)

// EncodeScale writes the width as a compact integer followed by the
// big-endian bytes of the value.
func (b *BinaryData) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact32(enc, uint32(b.width))
		if err != nil {
			return total, fmt.Errorf("EncodeCompact32 failed: %w", err)
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, b.value.Bytes(), byteLen(b.width))
		if err != nil {
			return total, fmt.Errorf("EncodeByteSliceWithLimit failed: %w", err)
		}
		total += n
	}
	return total, nil
}

// DecodeScale reads a BinaryData written by EncodeScale.
// The decoded value is validated like New does.
func (b *BinaryData) DecodeScale(dec *scale.Decoder) (total int, err error) {
	var width uint32
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, fmt.Errorf("DecodeCompact32 failed: %w", err)
		}
		total += n
		width = field
	}
	if width == 0 || width > MaxWidth {
		return total, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, byteLen(uint(width)))
		if err != nil {
			return total, fmt.Errorf("DecodeByteSliceWithLimit failed: %w", err)
		}
		total += n
		decoded, err := New(uint(width), BigValue(new(big.Int).SetBytes(field)))
		if err != nil {
			return total, err
		}
		*b = *decoded
	}
	return total, nil
}

// byteLen is the number of bytes needed to hold width bits.
func byteLen(width uint) uint32 {
	return uint32((width + 7) / 8)
}
