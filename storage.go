package geojson2image

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
)

// Store persists encoded renderings
type Store interface {
	// LoadRender returns false when key is unknown
	LoadRender(key uint64) (*RenderStorage, bool, error)
	StoreRender(key uint64, rs *RenderStorage) error
}

// RenderStorage on disk storage of a rendering
type RenderStorage struct {
	Width, Height int
	BBox          BBox

	// Image encoded image bytes
	Image []byte

	CreatedAt time.Time
}

func (rs *RenderStorage) String() string {
	return fmt.Sprintf("Width: %d\nHeight: %d\nBBox: %s\nSize: %d\nCreatedAt: %s\n",
		rs.Width,
		rs.Height,
		rs.BBox,
		len(rs.Image),
		rs.CreatedAt,
	)
}

// EncodeRender serializes rs as canonical CBOR, the value format of every Store backend
func EncodeRender(rs *RenderStorage) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := cbor.NewEncoder(buf, cbor.CanonicalEncOptions())
	if err := enc.Encode(rs); err != nil {
		return nil, errors.Wrap(err, "failed to encode rendering")
	}
	return buf.Bytes(), nil
}

// DecodeRender reads back a value written by EncodeRender
func DecodeRender(v []byte) (*RenderStorage, error) {
	rs := &RenderStorage{}
	dec := cbor.NewDecoder(bytes.NewReader(v))
	if err := dec.Decode(rs); err != nil {
		return nil, errors.Wrap(err, "failed to decode rendering")
	}
	return rs, nil
}
