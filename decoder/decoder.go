// Package decoder reads GeoJSON documents into geojson2image nodes.
package decoder

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	g2i "github.com/akhenakh/geojson2image"
)

// Decode parses any GeoJSON object: a geometry, a Feature or a FeatureCollection.
// Unknown types return a *geojson2image.UnsupportedGeometryTypeError.
func Decode(data []byte) (g2i.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid geojson: malformed json")
	}
	t := gjson.GetBytes(data, "type")
	if !t.Exists() {
		return nil, errors.New("invalid geojson: missing type")
	}

	switch t.String() {
	case g2i.TypeFeatureCollection:
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, errors.Wrap(convertErr(err), "can't decode feature collection")
		}
		return FromFeatureCollection(&fc)
	case g2i.TypeFeature:
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(convertErr(err), "can't decode feature")
		}
		return FromFeature(&f)
	case g2i.TypePoint, g2i.TypeMultiPoint,
		g2i.TypeLineString, g2i.TypeMultiLineString,
		g2i.TypePolygon, g2i.TypeMultiPolygon,
		g2i.TypeGeometryCollection:
		var g geom.T
		if err := geojson.Unmarshal(data, &g); err != nil {
			return nil, errors.Wrap(convertErr(err), "can't decode geometry")
		}
		return FromGeom(g)
	default:
		return nil, &g2i.UnsupportedGeometryTypeError{Type: t.String()}
	}
}

// DecodeReader reads r entirely then see Decode
func DecodeReader(r io.Reader) (g2i.Node, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "can't read geojson")
	}
	return Decode(data)
}

// convertErr maps go-geom unsupported type errors to ours
func convertErr(err error) error {
	var ut geojson.ErrUnsupportedType
	if errors.As(err, &ut) {
		return &g2i.UnsupportedGeometryTypeError{Type: string(ut)}
	}
	return err
}

// FromFeatureCollection converts a go-geom feature collection
func FromFeatureCollection(fc *geojson.FeatureCollection) (*g2i.FeatureCollection, error) {
	n := &g2i.FeatureCollection{
		Features: make([]*g2i.Feature, 0, len(fc.Features)),
	}
	for i, f := range fc.Features {
		nf, err := FromFeature(f)
		if err != nil {
			return nil, errors.Wrapf(err, "feature #%d", i)
		}
		n.Features = append(n.Features, nf)
	}
	return n, nil
}

// FromFeature converts a go-geom feature, a nil geometry stays nil
func FromFeature(f *geojson.Feature) (*g2i.Feature, error) {
	if f == nil {
		return &g2i.Feature{}, nil
	}
	nf := &g2i.Feature{Properties: f.Properties}
	if f.Geometry == nil {
		return nf, nil
	}
	g, err := FromGeom(f.Geometry)
	if err != nil {
		return nil, err
	}
	nf.Geometry = g
	return nf, nil
}

// FromGeom converts a go-geom geometry, types without a GeoJSON
// representation such as *geom.LinearRing are unsupported.
func FromGeom(g geom.T) (g2i.Node, error) {
	switch rg := g.(type) {
	case *geom.Point:
		return &g2i.Point{Coordinates: position(rg.Coords())}, nil
	case *geom.MultiPoint:
		return &g2i.MultiPoint{Coordinates: positions(rg.Coords())}, nil
	case *geom.LineString:
		return &g2i.LineString{Coordinates: positions(rg.Coords())}, nil
	case *geom.MultiLineString:
		return &g2i.MultiLineString{Coordinates: rings(rg.Coords())}, nil
	case *geom.Polygon:
		return &g2i.Polygon{Coordinates: rings(rg.Coords())}, nil
	case *geom.MultiPolygon:
		cs := rg.Coords()
		mp := &g2i.MultiPolygon{Coordinates: make([][][]g2i.Position, len(cs))}
		for i, p := range cs {
			mp.Coordinates[i] = rings(p)
		}
		return mp, nil
	case *geom.GeometryCollection:
		gc := &g2i.GeometryCollection{}
		for _, child := range rg.Geoms() {
			n, err := FromGeom(child)
			if err != nil {
				return nil, err
			}
			gc.Geometries = append(gc.Geometries, n)
		}
		return gc, nil
	}

	return nil, &g2i.UnsupportedGeometryTypeError{
		Type: strings.TrimPrefix(fmt.Sprintf("%T", g), "*geom."),
	}
}

func position(c geom.Coord) g2i.Position {
	return g2i.Position{c.X(), c.Y()}
}

func positions(cs []geom.Coord) []g2i.Position {
	ps := make([]g2i.Position, len(cs))
	for i, c := range cs {
		ps[i] = position(c)
	}
	return ps
}

func rings(rs [][]geom.Coord) [][]g2i.Position {
	out := make([][]g2i.Position, len(rs))
	for i, r := range rs {
		out[i] = positions(r)
	}
	return out
}
