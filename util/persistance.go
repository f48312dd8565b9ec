package util

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/natefinch/atomic"
	xdr "github.com/nullstyle/go-xdr/xdr3"

	"github.com/spacemeshos/fixbin/bindata"
)

// snapshot is the on-disk form of a BinaryData.
type snapshot struct {
	Width uint32
	Value []byte // big-endian
}

// Persist writes data to filename, replacing it atomically.
func Persist(filename string, data *bindata.BinaryData) error {
	var w bytes.Buffer
	s := snapshot{Width: uint32(data.Width()), Value: data.BigInt().Bytes()}
	if _, err := xdr.Marshal(&w, &s); err != nil {
		return fmt.Errorf("serializing: %w", err)
	}

	if err := atomic.WriteFile(filename, &w); err != nil {
		return fmt.Errorf("writing to disk: %w", err)
	}
	return nil
}

// Load reads a BinaryData written by Persist.
func Load(filename string) (*bindata.BinaryData, error) {
	raw, err := os.ReadFile(filename) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("loading file: %w", err)
	}

	var s snapshot
	if _, err := xdr.Unmarshal(bytes.NewReader(raw), &s); err != nil {
		return nil, fmt.Errorf("deserializing: %w", err)
	}
	data, err := bindata.New(uint(s.Width), bindata.BigValue(new(big.Int).SetBytes(s.Value)))
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", filename, err)
	}
	return data, nil
}
