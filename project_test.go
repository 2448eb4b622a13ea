package geojson2image

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	box := BBox{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}

	tests := []struct {
		name  string
		p     Position
		wantX int
		wantY int
	}{
		{"center", Position{0, 0}, 100, 100},
		{"north west corner", Position{-10, 5}, 0, 0},
		{"south east corner", Position{10, -5}, 200, 200},
		{"north east corner", Position{10, 5}, 200, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Project(tt.p, box, 200, 200)
			require.True(t, ok)
			require.InDelta(t, tt.wantX, got.X, 1)
			require.InDelta(t, tt.wantY, got.Y, 1)
		})
	}
}

func TestProject_Origin(t *testing.T) {
	box := BBox{MinLon: -10, MaxLon: 10, MinLat: -5, MaxLat: 5}
	got, ok := Project(Position{-10, 5}, box, 200, 200)
	require.True(t, ok)
	require.Equal(t, 0, got.X)
	require.Equal(t, 0, got.Y)
}

func TestProject_Antimeridian(t *testing.T) {
	box := BBox{MinLon: 170, MaxLon: 190, MinLat: -10, MaxLat: 10}

	_, ok := Project(Position{180, 0}, box, 100, 100)
	require.False(t, ok)
	_, ok = Project(Position{-180, 0}, box, 100, 100)
	require.False(t, ok)

	_, ok = Project(Position{179.9999, 0}, box, 100, 100)
	require.True(t, ok)
}

func TestProject_Monotonic(t *testing.T) {
	box := BBox{MinLon: -40, MaxLon: 40, MinLat: -60, MaxLat: 60}

	prevX := math.MinInt32
	for lon := -40.0; lon <= 40; lon += 2.5 {
		p, ok := Project(Position{lon, 0}, box, 500, 500)
		require.True(t, ok)
		require.GreaterOrEqual(t, p.X, prevX)
		prevX = p.X
	}

	// y grows southward
	prevY := math.MinInt32
	for lat := 60.0; lat >= -60; lat -= 2.5 {
		p, ok := Project(Position{0, lat}, box, 500, 500)
		require.True(t, ok)
		require.GreaterOrEqual(t, p.Y, prevY)
		prevY = p.Y
	}
}

// the latitude axis is plain spherical Web Mercator
func TestProject_Mercator(t *testing.T) {
	box := BBox{MinLon: 0, MaxLon: 20, MinLat: 40, MaxLat: 60}
	const size = 1000

	top := project.WGS84.ToMercator(orb.Point{box.MinLon, box.MaxLat})
	bottom := project.WGS84.ToMercator(orb.Point{box.MaxLon, box.MinLat})

	for _, p := range []Position{{5, 45}, {12.5, 52.3}, {19, 59}, {1, 41}} {
		m := project.WGS84.ToMercator(orb.Point{p.Lon(), p.Lat()})
		wantX := (m.X() - top.X()) * size / (bottom.X() - top.X())
		wantY := (top.Y() - m.Y()) * size / (top.Y() - bottom.Y())

		got, ok := Project(p, box, size, size)
		require.True(t, ok)
		require.InDelta(t, math.Floor(wantX), got.X, 1, "x of %v", p)
		require.InDelta(t, math.Floor(wantY), got.Y, 1, "y of %v", p)
	}
}

func TestNewViewport(t *testing.T) {
	_, err := NewViewport(BBox{MinLon: 1, MaxLon: 1, MinLat: 0, MaxLat: 10}, 10, 10)
	require.Equal(t, ErrInvalidGeometry, err)

	_, err = NewViewport(BBox{MinLon: 0, MaxLon: 10, MinLat: 3, MaxLat: 3}, 10, 10)
	require.Equal(t, ErrInvalidGeometry, err)

	_, err = NewViewport(BBox{MinLon: 0, MaxLon: 10, MinLat: 86, MaxLat: 90}, 10, 10)
	require.Equal(t, ErrInvalidGeometry, err)

	vp, err := NewViewport(BBox{MinLon: 0, MaxLon: 10, MinLat: 0, MaxLat: 10}, 10, 10)
	require.NoError(t, err)
	p, ok := vp.Project(Position{0, 10})
	require.True(t, ok)
	require.Equal(t, 0, p.X)
	require.Equal(t, 0, p.Y)
}

func TestProject_Poles(t *testing.T) {
	box := BBox{MinLon: -10, MaxLon: 10, MinLat: -90, MaxLat: 40}

	south, ok := Project(Position{-10, -90}, box, 200, 200)
	require.True(t, ok)
	require.InDelta(t, 200, south.Y, 1)

	clamped, ok := Project(Position{-10, -MaxLatitude}, box, 200, 200)
	require.True(t, ok)
	require.Equal(t, clamped, south)

	p, ok := Project(Position{0, 40}, box, 200, 200)
	require.True(t, ok)
	require.Equal(t, 0, p.Y)

	p, ok = Project(Position{0, 10}, box, 200, 200)
	require.True(t, ok)
	require.InDelta(t, 30, p.Y, 1)

	north, ok := Project(Position{0, 90}, BBox{MinLon: -10, MaxLon: 10, MinLat: 0, MaxLat: 90}, 200, 200)
	require.True(t, ok)
	require.Equal(t, 0, north.Y)
}
