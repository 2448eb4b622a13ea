package geojson2image

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidGeometry returned when a bounding box has no extent on one axis,
	// nothing can be projected into it
	ErrInvalidGeometry = errors.New("invalid geometry: zero extent bounding box")

	// ErrEmptyGeometry returned when a tree does not contain any position
	ErrEmptyGeometry = errors.New("empty geometry: no coordinates found")
)

// UnsupportedGeometryTypeError returned when a node type is not a GeoJSON type
type UnsupportedGeometryTypeError struct {
	Type string
}

func (e *UnsupportedGeometryTypeError) Error() string {
	return fmt.Sprintf("unsupported GeoJSON type: %s", e.Type)
}

// InvalidOptionError returned when a style property can't be used
type InvalidOptionError struct {
	Key   string
	Value interface{}
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid draw option %s: %v", e.Key, e.Value)
}
