package leveldb

import (
	"fmt"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/akhenakh/geojson2image"
)

// Storage cold storage of renderings
type Storage struct {
	*leveldb.DB
	logger log.Logger
}

// NewStorage returns a cold storage using leveldb
func NewStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	// Creating DB
	o := &opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DB at %s: %w", path, err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "leveldb"),
	}, db.Close, nil
}

// NewROStorage returns a read only storage using leveldb
func NewROStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	o := &opt.Options{
		Filter:   filter.NewBloomFilter(10),
		ReadOnly: true,
	}
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open DB for reading at %s: %w", path, err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "leveldb"),
	}, db.Close, nil
}

// LoadRender loads one rendering from the DB
func (s *Storage) LoadRender(key uint64) (*geojson2image.RenderStorage, bool, error) {
	v, err := s.Get(geojson2image.RenderKey(key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	rs, err := geojson2image.DecodeRender(v)
	if err != nil {
		return nil, false, err
	}

	return rs, true, nil
}

// StoreRender saves one rendering into the DB
func (s *Storage) StoreRender(key uint64, rs *geojson2image.RenderStorage) error {
	v, err := geojson2image.EncodeRender(rs)
	if err != nil {
		return err
	}
	if err := s.Put(geojson2image.RenderKey(key), v, nil); err != nil {
		return err
	}

	level.Debug(s.logger).Log("msg", "stored rendering", "key", key, "size", len(rs.Image))

	return nil
}

// RenderCount returns the number of stored renderings
func (s *Storage) RenderCount() (int, error) {
	iter := s.NewIterator(util.BytesPrefix([]byte{geojson2image.RenderPrefix()}), &opt.ReadOptions{
		DontFillCache: true,
	})
	defer iter.Release()

	count := 0
	for iter.Next() {
		count++
	}
	return count, iter.Error()
}
