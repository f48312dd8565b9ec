package bindata

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		lit  string
		want int64
	}{
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"42", 42},
		{"+42", 42},
		{"-0", 0},
		{" 17\n", 17},
		{"007", 7},
		{"0b101", 5},
		{"0B101", 5},
		{"0o17", 15},
		{"0O17", 15},
		{"0xff", 255},
		{"0XFF", 255},
		{"0x00", 0},
	}
	for _, tc := range tests {
		got, err := ParseLiteral(tc.lit)
		require.NoError(t, err, "literal %q", tc.lit)
		require.Equal(t, 0, big.NewInt(tc.want).Cmp(got), "literal %q gave %s", tc.lit, got)
	}
}

func TestParseLiteralMalformed(t *testing.T) {
	for _, lit := range []string{
		"0x",
		"0b",
		"0b2",
		"0o8",
		"0xg",
		"12a",
		"1_000",
		"0x_ff",
		"0x-1",
		"-0x1",
		"+",
		"-",
		"1.5",
		"1e3",
		"  1 2 ",
	} {
		_, err := ParseLiteral(lit)
		require.ErrorIs(t, err, ErrMalformedLiteral, "literal %q", lit)
	}
}

func TestParseLiteralNegative(t *testing.T) {
	_, err := ParseLiteral("-12")
	require.ErrorIs(t, err, ErrNegativeValue)
}

func TestParseLiteralLarge(t *testing.T) {
	got, err := ParseLiteral("0x1" + "0000000000000000000000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, 161, got.BitLen())
}

func TestIntegerVariants(t *testing.T) {
	v, err := Integer(int16(300)).resolve()
	require.NoError(t, err)
	require.Equal(t, int64(300), v.Int64())

	v, err = Integer(^uint64(0)).resolve()
	require.NoError(t, err)
	require.True(t, v.IsUint64())
	require.Equal(t, ^uint64(0), v.Uint64())

	_, err = Integer(int8(-1)).resolve()
	require.ErrorIs(t, err, ErrNegativeValue)
}

func TestNilBigIsZero(t *testing.T) {
	b, err := New(3, BigValue(nil))
	require.NoError(t, err)
	require.Equal(t, "000", b.String())
}

func FuzzParseLiteral(f *testing.F) {
	for _, seed := range []string{"0", "42", "0b1010", "0o777", "0xdeadbeef", "-1", "0x", "1_0"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, lit string) {
		v, err := ParseLiteral(lit)
		if err != nil {
			return
		}
		require.GreaterOrEqual(t, v.Sign(), 0)

		// any accepted value can be rebuilt from its binary rendering
		width := uint(v.BitLen())
		if width == 0 {
			width = 1
		}
		b, err := New(width, BigValue(v))
		require.NoError(t, err)
		again, err := ParseLiteral("0b" + b.String())
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(again))
	})
}
