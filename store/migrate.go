package store

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/spacemeshos/fixbin/logging"
)

// Migrate moves the values of the store in oldDir into a new store in targetDir.
//
// Every value is decoded and re-encoded, so a single entry that is not a valid
// BinaryData aborts the migration and leaves oldDir untouched. Keys outside the
// value namespace are not carried over. On success oldDir is removed.
// Nothing happens if oldDir doesn't exist or both paths are the same.
func Migrate(ctx context.Context, targetDir, oldDir string) error {
	log := logging.FromContext(ctx)
	log.Info(
		"attempting store migration",
		zap.String("oldDir", oldDir),
		zap.String("targetDir", targetDir),
	)
	if oldDir == targetDir {
		log.Debug("skipping in-place store migration")
		return nil
	}

	oldDb, err := leveldb.OpenFile(oldDir, &opt.Options{ErrorIfMissing: true})
	switch {
	case os.IsNotExist(err):
		log.Debug("skipping store migration - old store doesn't exist")
		return nil
	case err != nil:
		return fmt.Errorf("opening old store: %w", err)
	}
	defer oldDb.Close()

	if skipped := countForeignKeys(oldDb); skipped > 0 {
		log.Warn("old store has keys outside the value namespace, they won't be migrated", zap.Int("keys", skipped))
	}

	// Read everything before the target exists so a bad entry leaves no trace.
	batch := new(leveldb.Batch)
	iter := oldDb.NewIterator(util.BytesPrefix(keyPrefix), nil)
	defer iter.Release()
	for iter.Next() {
		name := string(iter.Key()[len(keyPrefix):])
		data, err := decode(iter.Value())
		if err != nil {
			log.Error("invalid binary data in old store", zap.String("name", name), zap.Error(err))
			return fmt.Errorf("migrating %q: %w", name, err)
		}
		raw, err := encode(data)
		if err != nil {
			return fmt.Errorf("migrating %q: %w", name, err)
		}
		batch.Put(key(name), raw)
		log.Debug("migrating binary data", zap.String("name", name), zap.Uint("width", data.Width()))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterating old store: %w", err)
	}

	targetDb, err := leveldb.OpenFile(targetDir, &opt.Options{ErrorIfExist: true})
	if err != nil {
		return fmt.Errorf("opening target store: %w", err)
	}
	defer targetDb.Close()
	if err := targetDb.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("writing target store: %w", err)
	}

	if err := oldDb.Close(); err != nil {
		return fmt.Errorf("closing old store: %w", err)
	}
	if err := os.RemoveAll(oldDir); err != nil {
		return fmt.Errorf("removing old store: %w", err)
	}
	log.Info("store migrated to new location", zap.Int("values", batch.Len()))
	return nil
}

func countForeignKeys(db *leveldb.DB) int {
	iter := db.NewIterator(nil, nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		if !bytes.HasPrefix(iter.Key(), keyPrefix) {
			n++
		}
	}
	return n
}
