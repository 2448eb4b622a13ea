package geojson2image

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// bogus is not a GeoJSON type
type bogus struct{}

func (*bogus) Type() string { return "Circle" }
func (*bogus) node()        {}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		want    BBox
		wantErr error
	}{
		{
			"lone point",
			&Point{Coordinates: Position{2.35, 48.85}},
			BBox{MinLon: 2.35, MaxLon: 2.35, MinLat: 48.85, MaxLat: 48.85},
			nil,
		},
		{
			"multipoint",
			&MultiPoint{Coordinates: []Position{{1, 2}, {-3, 4}, {5, -6}}},
			BBox{MinLon: -3, MaxLon: 5, MinLat: -6, MaxLat: 4},
			nil,
		},
		{
			"linestring",
			&LineString{Coordinates: []Position{{10, 10}, {20, 5}}},
			BBox{MinLon: 10, MaxLon: 20, MinLat: 5, MaxLat: 10},
			nil,
		},
		{
			"multilinestring",
			&MultiLineString{Coordinates: [][]Position{{{0, 0}, {1, 1}}, {{-1, 3}, {0, 0}}}},
			BBox{MinLon: -1, MaxLon: 1, MinLat: 0, MaxLat: 3},
			nil,
		},
		{
			"polygon with hole",
			&Polygon{Coordinates: [][]Position{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {3, 2}, {3, 3}, {2, 2}},
			}},
			BBox{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 10},
			nil,
		},
		{
			"multipolygon",
			&MultiPolygon{Coordinates: [][][]Position{
				{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
				{{{-5, -5}, {-4, -5}, {-4, -4}, {-5, -5}}},
			}},
			BBox{MinLon: -5, MaxLon: 1, MinLat: -5, MaxLat: 1},
			nil,
		},
		{
			"geometry collection",
			&GeometryCollection{Geometries: []Node{
				&Point{Coordinates: Position{-20, 30}},
				&LineString{Coordinates: []Position{{0, 0}, {40, -10}}},
			}},
			BBox{MinLon: -20, MaxLon: 40, MinLat: -10, MaxLat: 30},
			nil,
		},
		{
			"feature collection skipping null geometry",
			&FeatureCollection{Features: []*Feature{
				{Geometry: &Point{Coordinates: Position{1, 1}}},
				{Geometry: nil},
				{Geometry: &Point{Coordinates: Position{3, -2}}},
			}},
			BBox{MinLon: 1, MaxLon: 3, MinLat: -2, MaxLat: 1},
			nil,
		},
		{
			"empty feature collection",
			&FeatureCollection{},
			BBox{},
			ErrEmptyGeometry,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := BoundingBox(tt.node)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			if !cmp.Equal(got, tt.want) {
				t.Errorf("BoundingBox() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingBox_Unsupported(t *testing.T) {
	_, err := BoundingBox(&GeometryCollection{Geometries: []Node{
		&Point{Coordinates: Position{1, 1}},
		&bogus{},
	}})
	require.Error(t, err)

	var ut *UnsupportedGeometryTypeError
	require.ErrorAs(t, err, &ut)
	require.Equal(t, "Circle", ut.Type)

	_, err = BoundingBox(nil)
	require.ErrorAs(t, err, &ut)
	require.Equal(t, "null", ut.Type)
}

func TestCombine(t *testing.T) {
	a := &BBox{MinLon: 0, MaxLon: 10, MinLat: -5, MaxLat: 5}
	b := &BBox{MinLon: -3, MaxLon: 4, MinLat: 2, MaxLat: 8}
	c := &BBox{MinLon: 7, MaxLon: 12, MinLat: -9, MaxLat: 0}

	t.Run("identity", func(t *testing.T) {
		require.Equal(t, a, Combine(nil, a))
		require.Equal(t, a, Combine(a, nil))
		require.Nil(t, Combine(nil, nil))
	})

	t.Run("commutative", func(t *testing.T) {
		require.Equal(t, *Combine(a, b), *Combine(b, a))
		require.Equal(t, *Combine(a, c), *Combine(c, a))
	})

	t.Run("associative", func(t *testing.T) {
		require.Equal(t, *Combine(Combine(a, b), c), *Combine(a, Combine(b, c)))
	})

	t.Run("union", func(t *testing.T) {
		require.Equal(t, BBox{MinLon: -3, MaxLon: 12, MinLat: -9, MaxLat: 8}, *Combine(Combine(a, b), c))
	})
}

func TestParseBBox(t *testing.T) {
	got, err := ParseBBox("-10, 10,-5,5")
	require.NoError(t, err)
	require.Equal(t, BBox{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}, *got)

	_, err = ParseBBox("1,2,3")
	require.Error(t, err)

	_, err = ParseBBox("1,2,3,a")
	require.Error(t, err)
}
