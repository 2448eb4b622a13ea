package geojson2image

import (
	"encoding/json"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style property keys read from Feature properties
const (
	PolygonBackgroundColorKey = "polygon_background_color"
	PolygonBorderColorKey     = "polygon_border_color"
	PolygonBorderSizeKey      = "polygon_border_size"
	PointBackgroundColorKey   = "point_background_color"
	PointBorderColorKey       = "point_border_color"
	PointBorderSizeKey        = "point_border_size"
	LineBorderColorKey        = "line_border_color"
	LineBorderSizeKey         = "line_border_size"

	// BackgroundColorKey legacy polygon fill key, used when
	// polygon_background_color is absent
	BackgroundColorKey = "background_color"
)

const (
	DefaultPolygonBorderSize = 3
	DefaultPointBorderSize   = 1
	DefaultLineBorderSize    = 3

	// PointDiameter diameter in pixels of the disc drawn for a point
	PointDiameter = 10

	// MaxBorderSize largest border size accepted from properties
	MaxBorderSize = 64
)

// RGB an opaque color
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{0, 0, 0}
	Red   = RGB{255, 0, 0}
)

// Color returns a pointer to RGB{r, g, b}, handy for DrawOptions literals
func Color(r, g, b uint8) *RGB {
	return &RGB{R: r, G: g, B: b}
}

// Size returns a pointer to n, handy for DrawOptions literals
func Size(n int) *int {
	return &n
}

// DrawOptions styling of a geometry subtree, nil fields select the default
type DrawOptions struct {
	// PolygonBackgroundColor polygons are not filled when nil
	PolygonBackgroundColor *RGB
	// PolygonBorderColor defaults to black
	PolygonBorderColor *RGB
	// PolygonBorderSize defaults to 3, 0 disables the border
	PolygonBorderSize *int

	// PointBackgroundColor defaults to red
	PointBackgroundColor *RGB
	// PointBorderColor defaults to black
	PointBorderColor *RGB
	// PointBorderSize number of outlines around a point, defaults to 1
	PointBorderSize *int

	// LineBorderColor defaults to black
	LineBorderColor *RGB
	// LineBorderSize defaults to 3
	LineBorderSize *int
}

func colorOr(c *RGB, def RGB) RGB {
	if c == nil {
		return def
	}
	return *c
}

func sizeOr(s *int, def int) int {
	if s == nil {
		return def
	}
	return *s
}

func (o DrawOptions) polygonBorderColor() RGB   { return colorOr(o.PolygonBorderColor, Black) }
func (o DrawOptions) polygonBorderSize() int    { return sizeOr(o.PolygonBorderSize, DefaultPolygonBorderSize) }
func (o DrawOptions) pointBackgroundColor() RGB { return colorOr(o.PointBackgroundColor, Red) }
func (o DrawOptions) pointBorderColor() RGB     { return colorOr(o.PointBorderColor, Black) }
func (o DrawOptions) pointBorderSize() int      { return sizeOr(o.PointBorderSize, DefaultPointBorderSize) }
func (o DrawOptions) lineBorderColor() RGB      { return colorOr(o.LineBorderColor, Black) }
func (o DrawOptions) lineBorderSize() int       { return sizeOr(o.LineBorderSize, DefaultLineBorderSize) }

// OptionsFromProperties reads the style keys of Feature properties,
// other keys are ignored. Colors are [r, g, b] arrays or "#rrggbb" strings,
// sizes non negative integers, polygon_background_color may be false.
func OptionsFromProperties(props map[string]interface{}) (DrawOptions, error) {
	var opts DrawOptions

	colors := []struct {
		key string
		dst **RGB
	}{
		{PolygonBorderColorKey, &opts.PolygonBorderColor},
		{PointBackgroundColorKey, &opts.PointBackgroundColor},
		{PointBorderColorKey, &opts.PointBorderColor},
		{LineBorderColorKey, &opts.LineBorderColor},
	}
	for _, c := range colors {
		v, ok := props[c.key]
		if !ok || v == nil {
			continue
		}
		rgb, err := parseColor(c.key, v)
		if err != nil {
			return DrawOptions{}, err
		}
		*c.dst = rgb
	}

	sizes := []struct {
		key string
		dst **int
	}{
		{PolygonBorderSizeKey, &opts.PolygonBorderSize},
		{PointBorderSizeKey, &opts.PointBorderSize},
		{LineBorderSizeKey, &opts.LineBorderSize},
	}
	for _, s := range sizes {
		v, ok := props[s.key]
		if !ok || v == nil {
			continue
		}
		n, err := parseSize(s.key, v)
		if err != nil {
			return DrawOptions{}, err
		}
		*s.dst = n
	}

	fillKey := PolygonBackgroundColorKey
	fill, ok := props[fillKey]
	if !ok {
		fillKey = BackgroundColorKey
		fill, ok = props[fillKey]
	}
	if ok && fill != nil {
		if b, isBool := fill.(bool); isBool {
			if b {
				return DrawOptions{}, &InvalidOptionError{Key: fillKey, Value: fill}
			}
			return opts, nil
		}
		rgb, err := parseColor(fillKey, fill)
		if err != nil {
			return DrawOptions{}, err
		}
		opts.PolygonBackgroundColor = rgb
	}

	return opts, nil
}

func parseColor(key string, v interface{}) (*RGB, error) {
	invalid := &InvalidOptionError{Key: key, Value: v}

	switch c := v.(type) {
	case RGB:
		return &c, nil
	case *RGB:
		return c, nil
	case string:
		hc, err := colorful.Hex(c)
		if err != nil {
			return nil, invalid
		}
		r, g, b := hc.RGB255()
		return &RGB{R: r, G: g, B: b}, nil
	case []interface{}:
		if len(c) != 3 {
			return nil, invalid
		}
		var comps [3]uint8
		for i, cv := range c {
			n, ok := toInt(cv)
			if !ok || n < 0 || n > 255 {
				return nil, invalid
			}
			comps[i] = uint8(n)
		}
		return &RGB{R: comps[0], G: comps[1], B: comps[2]}, nil
	case []int:
		if len(c) != 3 {
			return nil, invalid
		}
		vs := make([]interface{}, len(c))
		for i := range c {
			vs[i] = c[i]
		}
		return parseColor(key, vs)
	}

	return nil, invalid
}

func parseSize(key string, v interface{}) (*int, error) {
	n, ok := toInt(v)
	if !ok || n < 0 || n > MaxBorderSize {
		return nil, &InvalidOptionError{Key: key, Value: v}
	}
	return &n, nil
}

// toInt accepts integral JSON numbers
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
