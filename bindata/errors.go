package bindata

import "errors"

var (
	ErrInvalidLength   = errors.New("binary data has invalid length")
	ErrLengthMismatch  = errors.New("rendered binary data does not match its width")
	ErrInvalidWidth    = errors.New("invalid width")
	ErrNegativeIndex   = errors.New("index cannot be negative")
	ErrIndexOutOfRange = errors.New("index out of range")

	ErrNegativeValue    = errors.New("value cannot be negative")
	ErrMalformedLiteral = errors.New("malformed integer literal")
)
