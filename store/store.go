// Package store persists named BinaryData values in LevelDB.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spacemeshos/go-scale"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/spacemeshos/fixbin/bindata"
	"github.com/spacemeshos/fixbin/logging"
)

// DefaultCacheSize is the number of values cached when Open is given a
// non-positive size.
const DefaultCacheSize = 256

var (
	ErrNotFound    = fmt.Errorf("binary data not found: %w", leveldb.ErrNotFound)
	ErrInvalidName = errors.New("invalid name")

	opsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixbin",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Number of store operations",
	}, []string{"op"})

	cacheHitsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fixbin",
		Subsystem: "store",
		Name:      "cache_hits_total",
		Help:      "Number of reads served from the cache",
	})
)

// keyPrefix namespaces value keys inside the database.
var keyPrefix = []byte("bin/")

// Store is a LevelDB backed map from names to BinaryData.
// It is safe for concurrent use.
type Store struct {
	db    *leveldb.DB
	cache *lru.Cache
	wo    *opt.WriteOptions
}

// Open opens (creating if needed) the store in dir.
func Open(ctx context.Context, dir string, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database @ %s: %w", dir, err)
	}
	logging.FromContext(ctx).Debug("opened store", zap.String("dir", dir), zap.Int("cacheSize", cacheSize))
	return &Store{
		db:    db,
		cache: cache,
		wo:    &opt.WriteOptions{Sync: true},
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(name string) []byte {
	return append(append([]byte{}, keyPrefix...), name...)
}

func encode(data *bindata.BinaryData) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := data.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(raw []byte) (*bindata.BinaryData, error) {
	data := &bindata.BinaryData{}
	if _, err := data.DecodeScale(scale.NewDecoder(bytes.NewReader(raw))); err != nil {
		return nil, err
	}
	return data, nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	return nil
}

// Put stores a copy of data under name, replacing any previous value.
func (s *Store) Put(ctx context.Context, name string, data *bindata.BinaryData) error {
	if err := checkName(name); err != nil {
		return err
	}
	opsMetric.WithLabelValues("put").Inc()

	raw, err := encode(data)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", name, err)
	}
	if err := s.db.Put(key(name), raw, s.wo); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	s.cache.Add(name, data.Clone())
	logging.FromContext(ctx).Debug("stored binary data",
		zap.String("name", name),
		zap.Uint("width", data.Width()),
	)
	return nil
}

// Get returns the value stored under name.
// The returned value is a copy and can be mutated freely.
func (s *Store) Get(ctx context.Context, name string) (*bindata.BinaryData, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	opsMetric.WithLabelValues("get").Inc()

	if cached, ok := s.cache.Get(name); ok {
		cacheHitsMetric.Inc()
		return cached.(*bindata.BinaryData).Clone(), nil
	}

	raw, err := s.db.Get(key(name), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("get %s from DB: %w", name, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("deserializing %s: %w", name, err)
	}
	s.cache.Add(name, data.Clone())
	logging.FromContext(ctx).Debug("loaded binary data from DB", zap.String("name", name))
	return data, nil
}

// Has reports whether a value is stored under name.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	opsMetric.WithLabelValues("has").Inc()
	if s.cache.Contains(name) {
		return true, nil
	}
	return s.db.Has(key(name), nil)
}

// Delete removes name. Deleting a missing name is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	opsMetric.WithLabelValues("delete").Inc()
	s.cache.Remove(name)
	if err := s.db.Delete(key(name), s.wo); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	logging.FromContext(ctx).Debug("deleted binary data", zap.String("name", name))
	return nil
}

// List returns all stored names in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	opsMetric.WithLabelValues("list").Inc()
	iter := s.db.NewIterator(util.BytesPrefix(keyPrefix), nil)
	defer iter.Release()

	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[len(keyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterating DB: %w", err)
	}
	return names, nil
}
