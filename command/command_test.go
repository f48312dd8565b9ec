package command

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/fixbin/bindata"
	"github.com/spacemeshos/fixbin/config"
	"github.com/spacemeshos/fixbin/store"
)

type harness struct {
	cfg *config.Config
	out bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.CacheSize = 8
	return &harness{cfg: cfg}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	parser := flags.NewParser(h.cfg, flags.HelpFlag|flags.PassDoubleDash)
	env := &Env{Ctx: context.Background(), Config: h.cfg, Out: &h.out}
	require.NoError(t, Register(parser, env))
	_, err := parser.ParseArgs(args)
	return err
}

func TestShow(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "show", "-w", "8", "0xFF"))
	require.Equal(t, "binary: 11111111\npretty: 1111 1111\ndenary: 255\n", h.out.String())
}

func TestShowCollectsErrors(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "show", "-w", "4", "16", "0b11", "zz")
	require.ErrorIs(t, err, bindata.ErrInvalidLength)
	require.ErrorIs(t, err, bindata.ErrMalformedLiteral)
	// the valid value is still rendered
	require.Contains(t, h.out.String(), "binary: 0011")
}

func TestSetBit(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "setbit", "-w", "8", "-i", "0", "0"))
	require.Contains(t, h.out.String(), "binary: 00000001\n")
	require.Contains(t, h.out.String(), "denary: 1\n")

	require.NoError(t, h.run(t, "setbit", "-w", "8", "-i", "7", "--clear", "0xff"))
	require.Contains(t, h.out.String(), "binary: 01111111\n")
}

func TestSetBitIndexErrors(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.run(t, "setbit", "-w", "8", "--index=8", "0"), bindata.ErrIndexOutOfRange)
	require.ErrorIs(t, h.run(t, "setbit", "-w", "8", "--index=-1", "0"), bindata.ErrNegativeIndex)
	require.Error(t, h.run(t, "setbit", "-w", "8", "--index=x", "0"))
}

func TestWiden(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "widen", "-w", "4", "-n", "12", "0b1001"))
	require.Contains(t, h.out.String(), "pretty: 0000 0000 1001\n")

	require.ErrorIs(t, h.run(t, "widen", "-w", "4", "-n", "3", "0b1001"), bindata.ErrInvalidLength)
}

func TestStoreCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "put", "-w", "16", "port", "8080"))
	require.NoError(t, h.run(t, "put", "-w", "4", "nibble", "0xa"))
	require.ErrorIs(t, h.run(t, "put", "-w", "4", "bad", "0x10"), bindata.ErrInvalidLength)

	require.NoError(t, h.run(t, "ls"))
	require.Equal(t, "nibble\nport\n", h.out.String())

	require.NoError(t, h.run(t, "get", "port"))
	require.Equal(t, "port (16 bits)\nbinary: 0001111110010000\npretty: 0001 1111 1001 0000\ndenary: 8080\n", h.out.String())

	require.ErrorIs(t, h.run(t, "get", "nibble", "missing"), store.ErrNotFound)
	require.Contains(t, h.out.String(), "binary: 1010")

	require.NoError(t, h.run(t, "rm", "nibble", "port"))
	require.NoError(t, h.run(t, "ls"))
	require.Empty(t, h.out.String())
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "value.xdr")

	require.NoError(t, h.run(t, "put", "-w", "70", "big", "0x2fffffffffffffffff"))
	require.NoError(t, h.run(t, "export", "big", file))
	require.NoError(t, h.run(t, "import", "copy", file))

	require.NoError(t, h.run(t, "get", "copy"))
	require.Contains(t, h.out.String(), "copy (70 bits)\n")
	require.Contains(t, h.out.String(), "denary: 885443715538058477567\n")

	require.ErrorIs(t, h.run(t, "export", "missing", file), store.ErrNotFound)
}

func TestMissingRequiredOption(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "show", "0x1")
	var flagsErr *flags.Error
	require.ErrorAs(t, err, &flagsErr)
	require.Equal(t, flags.ErrRequired, flagsErr.Type)
}

func TestMigrate(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "put", "-w", "8", "v", "200"))

	old := h.cfg.DataDir
	h.cfg.DataDir = filepath.Join(t.TempDir(), "moved")
	require.NoError(t, h.run(t, "migrate", "--from", old))

	require.NoError(t, h.run(t, "get", "v"))
	require.Contains(t, h.out.String(), "binary: 11001000\n")
}
