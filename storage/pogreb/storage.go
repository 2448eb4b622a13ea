package pogreb

import (
	"fmt"

	"github.com/akrylysov/pogreb"
	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/akhenakh/geojson2image"
)

// Storage cold storage of renderings
type Storage struct {
	*pogreb.DB
	logger log.Logger
}

// NewStorage returns a cold storage using pogreb
func NewStorage(path string, logger log.Logger) (*Storage, func() error, error) {
	// Creating DB
	db, err := pogreb.Open(path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DB at %s: %w", path, err)
	}

	return &Storage{
		DB:     db,
		logger: log.With(logger, "component", "storage", "db", "pogreb"),
	}, db.Close, nil
}

// LoadRender loads one rendering from the DB
func (s *Storage) LoadRender(key uint64) (*geojson2image.RenderStorage, bool, error) {
	// pogreb returns a nil value for missing keys
	v, err := s.Get(geojson2image.RenderKey(key))
	if err != nil {
		return nil, false, err
	}
	if v == nil {
		return nil, false, nil
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
	if err := s.Put(geojson2image.RenderKey(key), v); err != nil {
		return err
	}

	level.Debug(s.logger).Log("msg", "stored rendering", "key", key, "size", len(rs.Image))

	return nil
}

// RenderCount returns the number of stored renderings
func (s *Storage) RenderCount() (int, error) {
	count := 0
	it := s.Items()
	for {
		key, _, err := it.Next()
		if err != nil {
			if err != pogreb.ErrIterationDone {
				return 0, err
			}
			break
		}
		// pogreb has no ordered iteration, filter on the prefix
		if len(key) > 0 && key[0] == geojson2image.RenderPrefix() {
			count++
		}
	}
	return count, nil
}
