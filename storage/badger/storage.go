package badger

import (
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/dgraph-io/badger/options"
	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/akhenakh/geojson2image"
)

// Storage cold storage of renderings
type Storage struct {
	*badger.DB
	logger log.Logger
}

// NewStorage returns a cold storage using badger
func NewStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	// renderings are small, keep them in the LSM tree
	opts := badger.LSMOnlyOptions(path)
	opts.ValueLogLoadingMode = options.FileIO
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DB at %s: %w", path, err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "badger"),
	}, db.Close, nil
}

// NewROStorage returns a read only storage using badger
func NewROStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	opts := badger.LSMOnlyOptions(path)
	opts.ValueLogLoadingMode = options.FileIO
	opts.ReadOnly = true
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open DB for reading at %s: %w", path, err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "badger"),
	}, db.Close, nil
}

// LoadRender loads one rendering from the DB
func (s *Storage) LoadRender(key uint64) (*geojson2image.RenderStorage, bool, error) {
	var rs *geojson2image.RenderStorage
	err := s.View(func(txn *badger.Txn) error {
		item, err := txn.Get(geojson2image.RenderKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(v []byte) error {
			rs, err = geojson2image.DecodeRender(v)
			return err
		})
	})
	if err != nil {
		return nil, false, err
	}

	if rs == nil {
		return nil, false, nil
	}

	return rs, true, nil
}

// StoreRender saves one rendering into the DB
func (s *Storage) StoreRender(key uint64, rs *geojson2image.RenderStorage) error {
	v, err := geojson2image.EncodeRender(rs)
	if err != nil {
		return err
	}

	err = s.Update(func(txn *badger.Txn) error {
		return txn.Set(geojson2image.RenderKey(key), v)
	})
	if err != nil {
		return err
	}

	level.Debug(s.logger).Log("msg", "stored rendering", "key", key, "size", len(rs.Image))

	return nil
}

// RenderCount returns the number of stored renderings
func (s *Storage) RenderCount() (int, error) {
	count := 0
	err := s.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{geojson2image.RenderPrefix()}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
