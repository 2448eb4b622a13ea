package geojson2image

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/akhenakh/geojson2image/raster/rastertest"
)

var testBox = BBox{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}

func rgba(c RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func record(t *testing.T, n Node, opts DrawOptions) *rastertest.Recorder {
	t.Helper()
	rec := rastertest.New(200, 200)
	require.NoError(t, Render(rec, n, testBox, 200, 200, opts))
	return rec
}

func TestRender_PointDefaults(t *testing.T) {
	rec := record(t, &Point{Coordinates: Position{0, 0}}, DrawOptions{})

	require.Len(t, rec.Ops, 2)

	fill := rec.Ops[0]
	require.Equal(t, rastertest.FillEllipse, fill.Kind)
	require.Equal(t, PointDiameter, fill.Size)
	require.Equal(t, rgba(Red), fill.Color)
	require.InDelta(t, 100, fill.Points[0].X, 1)
	require.InDelta(t, 100, fill.Points[0].Y, 1)

	border := rec.Ops[1]
	require.Equal(t, rastertest.StrokeEllipse, border.Kind)
	require.Equal(t, PointDiameter, border.Size)
	require.Equal(t, rgba(Black), border.Color)
	require.Equal(t, fill.Points, border.Points)
}

func TestRender_PointBorders(t *testing.T) {
	rec := record(t, &MultiPoint{Coordinates: []Position{{0, 0}, {5, 2}}}, DrawOptions{
		PointBackgroundColor: Color(0, 255, 0),
		PointBorderColor:     Color(0, 0, 255),
		PointBorderSize:      Size(3),
	})

	fills := rec.Filter(rastertest.FillEllipse)
	require.Len(t, fills, 2)
	for _, op := range fills {
		require.Equal(t, color.RGBA{G: 255, A: 255}, op.Color)
	}

	strokes := rec.Filter(rastertest.StrokeEllipse)
	require.Len(t, strokes, 6)
	for i, op := range strokes[:3] {
		require.Equal(t, PointDiameter+i, op.Size)
		require.Equal(t, color.RGBA{B: 255, A: 255}, op.Color)
	}
}

func TestRender_PointOnAntimeridian(t *testing.T) {
	rec := record(t, &MultiPoint{Coordinates: []Position{{180, 0}, {-180, 0}}}, DrawOptions{})
	require.Empty(t, rec.Ops)
}

func TestRender_DegenerateRing(t *testing.T) {
	tests := []struct {
		name string
		ring []Position
	}{
		{"closed triangle of two positions", []Position{{0, 0}, {1, 1}, {0, 0}}},
		{"open two positions", []Position{{0, 0}, {1, 1}}},
		{"single position", []Position{{0, 0}}},
		{"empty", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := record(t, &Polygon{Coordinates: [][]Position{tt.ring}}, DrawOptions{
				PolygonBackgroundColor: Color(0, 0, 255),
			})
			require.Empty(t, rec.Ops)
		})
	}
}

func TestRender_RingAutoClose(t *testing.T) {
	opts := DrawOptions{PolygonBackgroundColor: Color(0, 0, 255)}

	open := []Position{{-5, -2}, {5, -2}, {5, 2}, {-5, 2}}
	closed := []Position{{-5, -2}, {5, -2}, {5, 2}, {-5, 2}, {-5, -2}}

	recOpen := record(t, &Polygon{Coordinates: [][]Position{open}}, opts)
	recClosed := record(t, &Polygon{Coordinates: [][]Position{closed}}, opts)

	if diff := cmp.Diff(recClosed.Ops, recOpen.Ops); diff != "" {
		t.Errorf("open ring mismatch (-closed +open):\n%s", diff)
	}
	// the caller's ring is left untouched
	require.Len(t, open, 4)

	// a triangle left open has enough positions once closed
	recTriangle := record(t, &Polygon{Coordinates: [][]Position{{{0, 0}, {1, 1}, {2, 0}}}}, opts)
	require.Len(t, recTriangle.Filter(rastertest.StrokePolygon), 1)
	require.Len(t, recTriangle.Filter(rastertest.FillPolygon), 1)
}

func TestRender_Polygon(t *testing.T) {
	poly := [][]Position{
		{{-8, -4}, {8, -4}, {8, 4}, {-8, 4}, {-8, -4}},
		{{-2, -1}, {2, -1}, {2, 1}, {-2, 1}, {-2, -1}},
	}

	t.Run("default style", func(t *testing.T) {
		rec := record(t, &Polygon{Coordinates: poly}, DrawOptions{})

		strokes := rec.Filter(rastertest.StrokePolygon)
		require.Len(t, strokes, 2)
		for _, op := range strokes {
			require.Equal(t, DefaultPolygonBorderSize, op.Size)
			require.Equal(t, rgba(Black), op.Color)
			require.Len(t, op.Points, 5)
		}
		require.Empty(t, rec.Filter(rastertest.FillPolygon))
	})

	t.Run("filled after every ring is stroked", func(t *testing.T) {
		rec := record(t, &Polygon{Coordinates: poly}, DrawOptions{
			PolygonBackgroundColor: Color(0, 0, 255),
			PolygonBorderColor:     Color(255, 255, 0),
			PolygonBorderSize:      Size(1),
		})

		require.Len(t, rec.Ops, 3)
		require.Equal(t, rastertest.StrokePolygon, rec.Ops[0].Kind)
		require.Equal(t, rastertest.StrokePolygon, rec.Ops[1].Kind)
		require.Equal(t, color.RGBA{R: 255, G: 255, A: 255}, rec.Ops[0].Color)
		require.Equal(t, 1, rec.Ops[0].Size)

		fill := rec.Ops[2]
		require.Equal(t, rastertest.FillPolygon, fill.Kind)
		require.Equal(t, color.RGBA{B: 255, A: 255}, fill.Color)
		// both rings in one path
		require.Len(t, fill.Points, 10)
		require.Equal(t, append(append([]image.Point{}, rec.Ops[0].Points...), rec.Ops[1].Points...), fill.Points)
	})

	t.Run("no border", func(t *testing.T) {
		rec := record(t, &Polygon{Coordinates: poly}, DrawOptions{
			PolygonBackgroundColor: Color(0, 0, 255),
			PolygonBorderSize:      Size(0),
		})
		require.Len(t, rec.Ops, 1)
		require.Equal(t, rastertest.FillPolygon, rec.Ops[0].Kind)
	})
}

func TestRender_MultiPolygonOfOne(t *testing.T) {
	poly := [][]Position{{{-8, -4}, {8, -4}, {0, 4}, {-8, -4}}}
	opts := DrawOptions{PolygonBackgroundColor: Color(12, 34, 56)}

	single := record(t, &Polygon{Coordinates: poly}, opts)
	multi := record(t, &MultiPolygon{Coordinates: [][][]Position{poly}}, opts)

	require.NotEmpty(t, single.Ops)
	if diff := cmp.Diff(single.Ops, multi.Ops); diff != "" {
		t.Errorf("MultiPolygon mismatch (-polygon +multipolygon):\n%s", diff)
	}
}

func TestRender_LineString(t *testing.T) {
	ls := []Position{{-9, -4}, {0, 0}, {9, 4}, {9, -4}}

	t.Run("segments", func(t *testing.T) {
		rec := record(t, &LineString{Coordinates: ls}, DrawOptions{})
		lines := rec.Filter(rastertest.DrawLine)
		require.Len(t, lines, 3)
		for i := 1; i < len(lines); i++ {
			require.Equal(t, lines[i-1].Points[1], lines[i].Points[0])
		}
		require.Equal(t, DefaultLineBorderSize, lines[0].Size)
		require.Equal(t, rgba(Black), lines[0].Color)
	})

	t.Run("zero size", func(t *testing.T) {
		rec := record(t, &MultiLineString{Coordinates: [][]Position{ls, ls}}, DrawOptions{LineBorderSize: Size(0)})
		require.Empty(t, rec.Ops)
	})

	t.Run("single position", func(t *testing.T) {
		rec := record(t, &LineString{Coordinates: ls[:1]}, DrawOptions{})
		require.Empty(t, rec.Ops)
	})

	t.Run("styled multilinestring", func(t *testing.T) {
		rec := record(t, &MultiLineString{Coordinates: [][]Position{ls[:2], ls[2:]}}, DrawOptions{
			LineBorderColor: Color(200, 0, 200),
			LineBorderSize:  Size(7),
		})
		lines := rec.Filter(rastertest.DrawLine)
		require.Len(t, lines, 2)
		for _, op := range lines {
			require.Equal(t, 7, op.Size)
			require.Equal(t, color.RGBA{R: 200, B: 200, A: 255}, op.Color)
		}
	})
}

func TestRender_FeatureCollection(t *testing.T) {
	square := func(lon float64) Node {
		return &Polygon{Coordinates: [][]Position{
			{{lon, -2}, {lon + 3, -2}, {lon + 3, 2}, {lon, 2}, {lon, -2}},
		}}
	}

	fc := &FeatureCollection{Features: []*Feature{
		{Geometry: square(-9), Properties: map[string]interface{}{
			"polygon_background_color": []interface{}{255.0, 0.0, 0.0},
		}},
		{Geometry: square(-3), Properties: map[string]interface{}{
			"polygon_background_color": "#0000ff",
			"polygon_border_size":      1.0,
		}},
		// no style, must not inherit from its siblings
		{Geometry: square(3)},
		{Geometry: nil, Properties: map[string]interface{}{"name": "nowhere"}},
	}}

	// collection level options never reach features
	rec := record(t, fc, DrawOptions{PolygonBackgroundColor: Color(0, 255, 0)})

	fills := rec.Filter(rastertest.FillPolygon)
	require.Len(t, fills, 2)
	require.Equal(t, color.RGBA{R: 255, A: 255}, fills[0].Color)
	require.Equal(t, color.RGBA{B: 255, A: 255}, fills[1].Color)

	strokes := rec.Filter(rastertest.StrokePolygon)
	require.Len(t, strokes, 3)
	require.Equal(t, []int{3, 1, 3}, []int{strokes[0].Size, strokes[1].Size, strokes[2].Size})
}

func TestRender_GeometryCollectionInheritsOptions(t *testing.T) {
	gc := &GeometryCollection{Geometries: []Node{
		&Point{Coordinates: Position{1, 1}},
		&GeometryCollection{Geometries: []Node{
			&LineString{Coordinates: []Position{{0, 0}, {2, 2}}},
		}},
	}}

	rec := record(t, gc, DrawOptions{
		PointBackgroundColor: Color(1, 1, 1),
		LineBorderColor:      Color(2, 2, 2),
	})

	require.Equal(t, color.RGBA{R: 1, G: 1, B: 1, A: 255}, rec.Filter(rastertest.FillEllipse)[0].Color)
	require.Equal(t, color.RGBA{R: 2, G: 2, B: 2, A: 255}, rec.Filter(rastertest.DrawLine)[0].Color)
}

func TestRender_Errors(t *testing.T) {
	t.Run("unsupported type", func(t *testing.T) {
		rec := rastertest.New(200, 200)
		err := Render(rec, &GeometryCollection{Geometries: []Node{&bogus{}}}, testBox, 200, 200, DrawOptions{})
		var ut *UnsupportedGeometryTypeError
		require.ErrorAs(t, err, &ut)
		require.Equal(t, "Circle", ut.Type)
	})

	t.Run("invalid option", func(t *testing.T) {
		rec := rastertest.New(200, 200)
		err := Render(rec, &Feature{
			Geometry:   &Point{Coordinates: Position{0, 0}},
			Properties: map[string]interface{}{"point_border_size": -2.0},
		}, testBox, 200, 200, DrawOptions{})
		var oe *InvalidOptionError
		require.ErrorAs(t, err, &oe)
		require.Empty(t, rec.Ops)
	})

	t.Run("zero extent box", func(t *testing.T) {
		rec := rastertest.New(200, 200)
		err := Render(rec, &Point{Coordinates: Position{1, 1}}, BBox{MinLon: 1, MaxLon: 1, MinLat: 1, MaxLat: 1}, 200, 200, DrawOptions{})
		require.Equal(t, ErrInvalidGeometry, err)
	})
}
