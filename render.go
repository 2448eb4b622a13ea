package geojson2image

import (
	"image"
	"image/color"

	"github.com/akhenakh/geojson2image/raster"
)

// Render draws n onto s, box being mapped onto the width x height raster.
// Feature properties replace opts for their geometry.
// It does not handle geometries crossing the antimeridian, see Image.
func Render(s raster.Surface, n Node, box BBox, width, height int, opts DrawOptions) error {
	vp, err := NewViewport(box, width, height)
	if err != nil {
		return err
	}
	r := &renderer{
		surface: s,
		vp:      vp,
		colors:  make(map[RGB]color.Color),
	}
	return r.render(n, opts)
}

type renderer struct {
	surface raster.Surface
	vp      Viewport
	colors  map[RGB]color.Color
}

func (r *renderer) render(n Node, opts DrawOptions) error {
	switch g := n.(type) {
	case *GeometryCollection:
		for _, child := range g.Geometries {
			if err := r.render(child, opts); err != nil {
				return err
			}
		}
	case *FeatureCollection:
		for _, f := range g.Features {
			// parent options never leak into a feature
			if err := r.render(f, DrawOptions{}); err != nil {
				return err
			}
		}
	case *Feature:
		if g == nil || g.Geometry == nil {
			return nil
		}
		fopts, err := OptionsFromProperties(g.Properties)
		if err != nil {
			return err
		}
		return r.render(g.Geometry, fopts)
	case *Polygon:
		r.polygon(g.Coordinates, opts)
	case *MultiPolygon:
		for _, poly := range g.Coordinates {
			r.polygon(poly, opts)
		}
	case *Point:
		r.point(g.Coordinates, opts)
	case *MultiPoint:
		for _, p := range g.Coordinates {
			r.point(p, opts)
		}
	case *LineString:
		r.line(g.Coordinates, opts)
	case *MultiLineString:
		for _, ls := range g.Coordinates {
			r.line(ls, opts)
		}
	default:
		return &UnsupportedGeometryTypeError{Type: typeName(n)}
	}
	return nil
}

func (r *renderer) color(c RGB) color.Color {
	if col, ok := r.colors[c]; ok {
		return col
	}
	col := r.surface.AllocateColor(c.R, c.G, c.B)
	r.colors[c] = col
	return col
}

// project returns the pixels of ps, skipping unrenderable positions
func (r *renderer) project(ps []Position) []image.Point {
	pts := make([]image.Point, 0, len(ps))
	for _, p := range ps {
		pt, ok := r.vp.Project(p)
		if !ok {
			continue
		}
		pts = append(pts, pt)
	}
	return pts
}

// polygon strokes every ring, then fills all rings at once
func (r *renderer) polygon(rings [][]Position, opts DrawOptions) {
	var fill []image.Point

	size := opts.polygonBorderSize()
	for _, ring := range rings {
		ring = closeRing(ring)
		// a closed ring needs 3 distinct positions
		if len(ring) <= 3 {
			continue
		}

		pts := r.project(ring)
		if len(pts) >= 3 && size > 0 {
			r.surface.StrokePolygon(pts, r.color(opts.polygonBorderColor()), size)
		}
		fill = append(fill, pts...)
	}

	if opts.PolygonBackgroundColor != nil && len(fill) >= 3 {
		r.surface.FillPolygon(fill, r.color(*opts.PolygonBackgroundColor))
	}
}

// closeRing returns ring with its first position appended if it is not closed,
// ring itself is never modified
func closeRing(ring []Position) []Position {
	if len(ring) == 0 || ring[0] == ring[len(ring)-1] {
		return ring
	}
	closed := make([]Position, len(ring), len(ring)+1)
	copy(closed, ring)
	return append(closed, ring[0])
}

func (r *renderer) point(p Position, opts DrawOptions) {
	center, ok := r.vp.Project(p)
	if !ok {
		return
	}

	r.surface.FillEllipse(center, PointDiameter, r.color(opts.pointBackgroundColor()))

	border := r.color(opts.pointBorderColor())
	for i := 0; i < opts.pointBorderSize(); i++ {
		r.surface.StrokeEllipse(center, PointDiameter+i, border)
	}
}

func (r *renderer) line(ls []Position, opts DrawOptions) {
	size := opts.lineBorderSize()
	if size == 0 {
		return
	}
	pts := r.project(ls)
	if len(pts) < 2 {
		return
	}

	c := r.color(opts.lineBorderColor())
	for i := 1; i < len(pts); i++ {
		r.surface.DrawLine(pts[i-1], pts[i], c, size)
	}
}
