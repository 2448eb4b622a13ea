package geojson2image

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
)

// SeamBoundingBox returns a bounding box whose longitude range is an arc
// containing every position of n, expanded minimally position after position
// the same way s2.RectBounder does.
// When that arc crosses the antimeridian the returned box has MinLon > MaxLon,
// eg a polygon from 170 to -170 gives MinLon 170, MaxLon -170.
func SeamBoundingBox(n Node) (BBox, error) {
	lng := s1.EmptyInterval()
	lat := r1.EmptyInterval()

	err := walkPositions(n, func(p Position) {
		lng = lng.AddPoint(toRadians(p.Lon()))
		lat = lat.AddPoint(p.Lat())
	})
	if err != nil {
		return BBox{}, err
	}
	if lng.IsEmpty() {
		return BBox{}, ErrEmptyGeometry
	}

	// same range as the plain box, avoid the radians round trip
	if !lng.IsInverted() {
		return BoundingBox(n)
	}

	return BBox{
		MinLon: s1.Angle(lng.Lo).Degrees(),
		MaxLon: s1.Angle(lng.Hi).Degrees(),
		MinLat: lat.Lo,
		MaxLat: lat.Hi,
	}, nil
}

func toRadians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// walkPositions calls fn for every position of n in document order
func walkPositions(n Node, fn func(Position)) error {
	switch g := n.(type) {
	case *GeometryCollection:
		for _, child := range g.Geometries {
			if err := walkPositions(child, fn); err != nil {
				return err
			}
		}
	case *FeatureCollection:
		for _, f := range g.Features {
			if err := walkPositions(f, fn); err != nil {
				return err
			}
		}
	case *Feature:
		if g == nil || g.Geometry == nil {
			return nil
		}
		return walkPositions(g.Geometry, fn)
	case *Point:
		fn(g.Coordinates)
	case *MultiPoint:
		eachPosition(g.Coordinates, fn)
	case *LineString:
		eachPosition(g.Coordinates, fn)
	case *MultiLineString:
		for _, ls := range g.Coordinates {
			eachPosition(ls, fn)
		}
	case *Polygon:
		for _, ring := range g.Coordinates {
			eachPosition(ring, fn)
		}
	case *MultiPolygon:
		for _, poly := range g.Coordinates {
			for _, ring := range poly {
				eachPosition(ring, fn)
			}
		}
	default:
		return &UnsupportedGeometryTypeError{Type: typeName(n)}
	}
	return nil
}

func eachPosition(ps []Position, fn func(Position)) {
	for _, p := range ps {
		fn(p)
	}
}
