package geojson2image

import (
	"image"
	"math"
)

// MaxLatitude the Web Mercator latitude limit, latitudes beyond are clamped
const MaxLatitude = 85.05112877980659

// pixelX maps a longitude to the [0, 1] Web Mercator unit square
func pixelX(lon float64) float64 {
	return (lon + 180) / 360
}

// pixelY maps a latitude to the [0, 1] Web Mercator unit square, 0 is north
func pixelY(lat float64) float64 {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	sin := math.Sin(lat * math.Pi / 180)
	return 0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)
}

// normalizeLon shifts a longitude into [0, 360)
func normalizeLon(lon float64) float64 {
	lon += 180
	if lon > 360 {
		lon -= 360
	}
	return lon
}

// Project maps a position to pixel coordinates of a width x height raster
// covering box. It returns false for positions on the antimeridian (longitude
// exactly 180 or -180), they are dropped to avoid seam artifacts.
// box must have an extent on both axes, see Viewport for a checked version.
func Project(p Position, box BBox, width, height int) (image.Point, bool) {
	if p.Lon() == 180 || p.Lon() == -180 {
		return image.Point{}, false
	}

	xDelta := pixelX(box.MaxLon) - pixelX(box.MinLon)
	yDelta := pixelY(box.MaxLat) - pixelY(box.MinLat)

	x := (pixelX(normalizeLon(p.Lon())) - pixelX(normalizeLon(box.MinLon))) * float64(width) / xDelta
	y := (pixelY(box.MaxLat) - pixelY(p.Lat())) * float64(height) / yDelta

	return image.Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}, true
}

// Viewport a bounding box rendered onto a width x height raster
type Viewport struct {
	Box    BBox
	Width  int
	Height int
}

// NewViewport returns a Viewport, ErrInvalidGeometry if the box has no extent.
// A box lying entirely beyond MaxLatitude has none once clamped.
func NewViewport(box BBox, width, height int) (Viewport, error) {
	if pixelX(box.MaxLon) == pixelX(box.MinLon) || pixelY(box.MaxLat) == pixelY(box.MinLat) {
		return Viewport{}, ErrInvalidGeometry
	}
	return Viewport{Box: box, Width: width, Height: height}, nil
}

// Project see Project
func (v Viewport) Project(p Position) (image.Point, bool) {
	return Project(p, v.Box, v.Width, v.Height)
}
