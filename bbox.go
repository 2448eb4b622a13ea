package geojson2image

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BBox geographic bounding box in degrees
type BBox struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

func (b BBox) String() string {
	return fmt.Sprintf("[%g %g %g %g]", b.MinLon, b.MaxLon, b.MinLat, b.MaxLat)
}

// ParseBBox parses "minLon,maxLon,minLat,maxLat"
func ParseBBox(s string) (*BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, errors.Errorf("invalid bbox %q: want minLon,maxLon,minLat,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid bbox %q", s)
		}
		v[i] = f
	}
	return &BBox{MinLon: v[0], MaxLon: v[1], MinLat: v[2], MaxLat: v[3]}, nil
}

// LonDelta longitude extent in degrees
func (b BBox) LonDelta() float64 { return b.MaxLon - b.MinLon }

// LatDelta latitude extent in degrees
func (b BBox) LatDelta() float64 { return b.MaxLat - b.MinLat }

// CrossesAntimeridian reports if the box longitude range wraps over +-180
func (b BBox) CrossesAntimeridian() bool { return b.MaxLon < b.MinLon }

// Combine returns the smallest box containing b1 and b2,
// nil is the identity: combining with nil returns the other operand.
func Combine(b1, b2 *BBox) *BBox {
	if b1 == nil {
		return b2
	}
	if b2 == nil {
		return b1
	}
	return &BBox{
		MinLon: math.Min(b1.MinLon, b2.MinLon),
		MaxLon: math.Max(b1.MaxLon, b2.MaxLon),
		MinLat: math.Min(b1.MinLat, b2.MinLat),
		MaxLat: math.Max(b1.MaxLat, b2.MaxLat),
	}
}

func positionBox(p Position) *BBox {
	return &BBox{MinLon: p.Lon(), MaxLon: p.Lon(), MinLat: p.Lat(), MaxLat: p.Lat()}
}

// BoundingBox returns the geographic extent of all positions in n.
// No antimeridian correction is applied, see SeamBoundingBox.
func BoundingBox(n Node) (BBox, error) {
	b, err := reduce(n)
	if err != nil {
		return BBox{}, err
	}
	if b == nil {
		return BBox{}, ErrEmptyGeometry
	}
	return *b, nil
}

func reduce(n Node) (*BBox, error) {
	var b *BBox

	switch g := n.(type) {
	case *GeometryCollection:
		for _, child := range g.Geometries {
			cb, err := reduce(child)
			if err != nil {
				return nil, err
			}
			b = Combine(b, cb)
		}
	case *FeatureCollection:
		for _, f := range g.Features {
			cb, err := reduce(f)
			if err != nil {
				return nil, err
			}
			b = Combine(b, cb)
		}
	case *Feature:
		if g == nil || g.Geometry == nil {
			return nil, nil
		}
		return reduce(g.Geometry)
	case *Point:
		b = positionBox(g.Coordinates)
	case *MultiPoint:
		b = reducePositions(b, g.Coordinates)
	case *LineString:
		b = reducePositions(b, g.Coordinates)
	case *MultiLineString:
		for _, ls := range g.Coordinates {
			b = reducePositions(b, ls)
		}
	case *Polygon:
		for _, ring := range g.Coordinates {
			b = reducePositions(b, ring)
		}
	case *MultiPolygon:
		for _, poly := range g.Coordinates {
			for _, ring := range poly {
				b = reducePositions(b, ring)
			}
		}
	default:
		return nil, &UnsupportedGeometryTypeError{Type: typeName(n)}
	}

	return b, nil
}

func reducePositions(b *BBox, ps []Position) *BBox {
	for _, p := range ps {
		b = Combine(b, positionBox(p))
	}
	return b
}
