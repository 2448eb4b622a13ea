package geojson2image

// Node is a GeoJSON object: one of Point, MultiPoint, LineString,
// MultiLineString, Polygon, MultiPolygon, GeometryCollection, Feature or
// FeatureCollection. The set is closed, other packages can't add kinds.
type Node interface {
	// Type returns the GeoJSON "type" member
	Type() string

	node()
}

// Position is a [longitude, latitude] pair in WGS84 degrees
type Position [2]float64

// Lon returns the longitude
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude
func (p Position) Lat() float64 { return p[1] }

// GeoJSON type names
const (
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
	TypeFeature            = "Feature"
	TypeFeatureCollection  = "FeatureCollection"
)

type Point struct {
	Coordinates Position
}

type MultiPoint struct {
	Coordinates []Position
}

type LineString struct {
	Coordinates []Position
}

type MultiLineString struct {
	Coordinates [][]Position
}

// Polygon first ring is the exterior, following rings are holes
type Polygon struct {
	Coordinates [][]Position
}

type MultiPolygon struct {
	Coordinates [][][]Position
}

type GeometryCollection struct {
	Geometries []Node
}

// Feature a geometry with its properties, properties are used as DrawOptions
// for the geometry. Geometry may be nil.
type Feature struct {
	Geometry   Node
	Properties map[string]interface{}
}

type FeatureCollection struct {
	Features []*Feature
}

func (*Point) Type() string              { return TypePoint }
func (*MultiPoint) Type() string         { return TypeMultiPoint }
func (*LineString) Type() string         { return TypeLineString }
func (*MultiLineString) Type() string    { return TypeMultiLineString }
func (*Polygon) Type() string            { return TypePolygon }
func (*MultiPolygon) Type() string       { return TypeMultiPolygon }
func (*GeometryCollection) Type() string { return TypeGeometryCollection }
func (*Feature) Type() string            { return TypeFeature }
func (*FeatureCollection) Type() string  { return TypeFeatureCollection }

func (*Point) node()              {}
func (*MultiPoint) node()         {}
func (*LineString) node()         {}
func (*MultiLineString) node()    {}
func (*Polygon) node()            {}
func (*MultiPolygon) node()       {}
func (*GeometryCollection) node() {}
func (*Feature) node()            {}
func (*FeatureCollection) node()  {}

// typeName returns the GeoJSON type of n, "null" for a missing geometry
func typeName(n Node) string {
	if n == nil {
		return "null"
	}
	return n.Type()
}
