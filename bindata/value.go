package bindata

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/exp/constraints"
)

// Value is an initial or replacement value for a BinaryData.
// It is one of Int, Uint, Big or Literal.
type Value interface {
	// resolve returns the value as a new non-negative big integer.
	resolve() (*big.Int, error)
}

// Int is a native signed integer value.
type Int int64

// Uint is a native unsigned integer value.
type Uint uint64

// Big is an arbitrary-precision integer value. It is copied on use.
type Big struct {
	*big.Int
}

// Literal is an integer literal such as "42", "0b1010", "0o17" or "0xFF".
type Literal string

// Integer wraps any Go integer type into a Value.
func Integer[T constraints.Integer](v T) Value {
	if v < 0 {
		return Int(v)
	}
	return Uint(v)
}

// BigValue wraps a big integer into a Value.
func BigValue(v *big.Int) Value {
	return Big{v}
}

func (v Int) resolve() (*big.Int, error) {
	if v < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeValue, int64(v))
	}
	return new(big.Int).SetInt64(int64(v)), nil
}

func (v Uint) resolve() (*big.Int, error) {
	return new(big.Int).SetUint64(uint64(v)), nil
}

func (v Big) resolve() (*big.Int, error) {
	if v.Int == nil {
		return new(big.Int), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeValue, v.Int.String())
	}
	return new(big.Int).Set(v.Int), nil
}

func (v Literal) resolve() (*big.Int, error) {
	return ParseLiteral(string(v))
}

// ParseLiteral parses an integer literal.
//
// Surrounding whitespace is ignored and an empty literal is zero.
// The prefixes 0b, 0o and 0x (in either case) select base 2, 8 and 16,
// anything else is decimal with an optional sign.
// Digit separators are not accepted.
func ParseLiteral(s string) (*big.Int, error) {
	lit := strings.TrimSpace(s)
	if lit == "" {
		return new(big.Int), nil
	}

	base := 10
	digits := lit
	if len(lit) > 1 && lit[0] == '0' {
		switch lit[1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
		if base != 10 {
			digits = lit[2:]
		}
	}

	negative := false
	if base == 10 {
		switch digits[0] {
		case '-':
			negative = true
			digits = digits[1:]
		case '+':
			digits = digits[1:]
		}
	}

	if digits == "" || !validDigits(digits, base) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLiteral, s)
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLiteral, s)
	}
	if negative && v.Sign() != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeValue, lit)
	}
	return v, nil
}

// validDigits rejects anything SetString would accept beyond plain digits
// (signs and underscores).
func validDigits(digits string, base int) bool {
	for _, c := range digits {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return false
		}
		if d >= base {
			return false
		}
	}
	return true
}
