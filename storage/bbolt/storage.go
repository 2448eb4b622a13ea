package bbolt

import (
	"bytes"
	"fmt"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"go.etcd.io/bbolt"

	"github.com/akhenakh/geojson2image"
)

var renderBucket = []byte("render")

// Storage cold storage of renderings
type Storage struct {
	*bbolt.DB
	logger log.Logger
}

// NewStorage returns a cold storage using bbolt
func NewStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	// Creating DB
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DB at %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(renderBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "bbolt"),
	}, db.Close, nil
}

// NewROStorage returns a read only storage using bbolt, the DB must exist
func NewROStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open DB for reading at %s: %w", path, err)
	}

	err = db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(renderBucket) == nil {
			return fmt.Errorf("no %s bucket in %s", renderBucket, path)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "bbolt"),
	}, db.Close, nil
}

// LoadRender loads one rendering from the DB
func (s *Storage) LoadRender(key uint64) (*geojson2image.RenderStorage, bool, error) {
	var rs *geojson2image.RenderStorage
	err := s.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(renderBucket)
		v := b.Get(geojson2image.RenderKey(key))
		if v == nil {
			return nil
		}

		var err error
		rs, err = geojson2image.DecodeRender(v)
		return err
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

	err = s.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(renderBucket)
		return b.Put(geojson2image.RenderKey(key), v)
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
	err := s.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(renderBucket).Cursor()
		prefix := []byte{geojson2image.RenderPrefix()}
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			count++
		}
		return nil
	})
	return count, err
}
