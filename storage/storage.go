// Package storage opens a rendering cache by backend name.
package storage

import (
	log "github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/akhenakh/geojson2image"
	"github.com/akhenakh/geojson2image/storage/badger"
	"github.com/akhenakh/geojson2image/storage/bbolt"
	"github.com/akhenakh/geojson2image/storage/leveldb"
	"github.com/akhenakh/geojson2image/storage/pogreb"
)

// Backend names
const (
	BBolt   = "bbolt"
	LevelDB = "leveldb"
	Pogreb  = "pogreb"
	Badger  = "badger"
)

// RenderStore a Store able to count its renderings
type RenderStore interface {
	geojson2image.Store
	RenderCount() (int, error)
}

// Open returns the dbType backend stored at path and its close func.
// bbolt uses a single file, other backends a directory.
func Open(dbType, path string, logger log.Logger) (RenderStore, func() error, error) {
	switch dbType {
	case BBolt:
		return bbolt.NewStorage(path, logger)
	case LevelDB:
		return leveldb.NewStorage(path, logger)
	case Pogreb:
		return pogreb.NewStorage(path, logger)
	case Badger:
		return badger.NewStorage(path, logger)
	}
	return nil, nil, unknownType(dbType)
}

// OpenReadOnly returns the existing dbType backend stored at path, opened
// read only, and its close func.
// pogreb has no read only mode and is opened as Open does.
func OpenReadOnly(dbType, path string, logger log.Logger) (RenderStore, func() error, error) {
	switch dbType {
	case BBolt:
		return bbolt.NewROStorage(path, logger)
	case LevelDB:
		return leveldb.NewROStorage(path, logger)
	case Pogreb:
		return pogreb.NewStorage(path, logger)
	case Badger:
		return badger.NewROStorage(path, logger)
	}
	return nil, nil, unknownType(dbType)
}

func unknownType(dbType string) error {
	return errors.Errorf("unknown storage type %q, want bbolt|leveldb|pogreb|badger", dbType)
}
