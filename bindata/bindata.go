// Package bindata implements BinaryData, an unsigned integer held in a fixed
// number of binary digits.
//
// The stored value always fits its width: rendering it yields exactly width
// digits, zero-padded on the left. Values are arbitrary-precision so a width
// is not limited to a machine word.
//
// A BinaryData is not safe for concurrent mutation.
package bindata

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// MaxWidth is the largest width a BinaryData can be declared with.
const MaxWidth = math.MaxInt32

// BinaryData holds a non-negative integer rendered in exactly Width() bits.
type BinaryData struct {
	width uint
	value *big.Int
}

// New creates a BinaryData of the given width holding v.
// v must fit in width bits; if it doesn't, ErrInvalidLength is returned.
func New(width uint, v Value) (*BinaryData, error) {
	if width == 0 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidWidth, width, MaxWidth)
	}
	b := &BinaryData{width: width, value: new(big.Int)}
	if err := b.Set(v); err != nil {
		return nil, err
	}
	return b, nil
}

// MustNew is like New but panics on error.
func MustNew(width uint, v Value) *BinaryData {
	b, err := New(width, v)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBinaryData creates a new BinaryData of width newWidth holding the
// current value of data. It always succeeds when newWidth >= data.Width().
func FromBinaryData(data *BinaryData, newWidth uint) (*BinaryData, error) {
	return New(newWidth, Literal("0b"+data.String()))
}

// Set replaces the stored value with v.
// On error the previous value is kept.
func (b *BinaryData) Set(v Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrMalformedLiteral)
	}
	value, err := v.resolve()
	if err != nil {
		return err
	}
	return b.replace(value)
}

// replace checks the bit length of value against the width and stores it.
func (b *BinaryData) replace(value *big.Int) error {
	if l := uint(value.BitLen()); l > b.width {
		return fmt.Errorf("%w - %d bits / %d bits", ErrInvalidLength, l, b.width)
	}
	b.value = value
	return nil
}

// SetBitAt sets the bit at idx to 1 if bit is true or to 0 otherwise.
// Index 0 is the least significant bit.
func (b *BinaryData) SetBitAt(idx int, bit bool) error {
	if err := b.checkIndex(idx); err != nil {
		return err
	}
	var flag uint
	if bit {
		flag = 1
	}
	return b.replace(new(big.Int).SetBit(b.value, idx, flag))
}

// BitAt reports whether the bit at idx is set.
func (b *BinaryData) BitAt(idx int) (bool, error) {
	if err := b.checkIndex(idx); err != nil {
		return false, err
	}
	return b.value.Bit(idx) == 1, nil
}

func (b *BinaryData) checkIndex(idx int) error {
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, idx)
	}
	if uint(idx) >= b.width {
		return fmt.Errorf("%w: %d (maximum position is %d)", ErrIndexOutOfRange, idx, b.width-1)
	}
	return nil
}

// CheckLength verifies the rendered value is exactly Width() digits long.
func (b *BinaryData) CheckLength() error {
	_, err := b.Format()
	return err
}

// Format renders the value as Width() binary digits, most significant first.
func (b *BinaryData) Format() (string, error) {
	digits := b.value.Text(2)
	if uint(len(digits)) < b.width {
		digits = strings.Repeat("0", int(b.width)-len(digits)) + digits
	}
	if uint(len(digits)) != b.width {
		return "", fmt.Errorf("%w - %d bits / %d bits", ErrLengthMismatch, len(digits), b.width)
	}
	return digits, nil
}

// String returns the binary digits of the value, e.g. "00001010".
// If the value does not render to exactly Width() digits, the error text
// is returned instead.
func (b *BinaryData) String() string {
	s, err := b.Format()
	if err != nil {
		return err.Error()
	}
	return s
}

// PrettyString returns the binary digits in groups of 4 counted from the
// least significant end, e.g. "10 1111 0000".
func (b *BinaryData) PrettyString() string {
	digits := b.String()
	head := len(digits) % 4
	var sb strings.Builder
	sb.Grow(len(digits) + len(digits)/4)
	sb.WriteString(digits[:head])
	for i := head; i < len(digits); i += 4 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(digits[i : i+4])
	}
	return sb.String()
}

// DenaryNumber returns the value as a float64.
// Values above 2^53 lose precision; use BigInt for an exact value.
func (b *BinaryData) DenaryNumber() float64 {
	f, _ := new(big.Float).SetInt(b.value).Float64()
	return f
}

// LengthAsNumber returns the width as an int.
func (b *BinaryData) LengthAsNumber() int {
	return int(b.width)
}

// Width returns the number of binary digits.
func (b *BinaryData) Width() uint {
	return b.width
}

// BigInt returns a copy of the stored value.
func (b *BinaryData) BigInt() *big.Int {
	return new(big.Int).Set(b.value)
}

// Uint64 returns the stored value if it fits in 64 bits.
func (b *BinaryData) Uint64() (uint64, error) {
	if !b.value.IsUint64() {
		return 0, fmt.Errorf("value of %d bits does not fit in 64 bits", b.value.BitLen())
	}
	return b.value.Uint64(), nil
}

// Equal reports whether b and other have the same width and value.
func (b *BinaryData) Equal(other *BinaryData) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width && b.value.Cmp(other.value) == 0
}

// Clone returns an independent copy of b.
func (b *BinaryData) Clone() *BinaryData {
	return &BinaryData{width: b.width, value: b.BigInt()}
}
