package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/go-kit/kit/log/level"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/akhenakh/geojson2image"
	"github.com/akhenakh/geojson2image/decoder"
)

// maxBodySize largest GeoJSON document accepted
const maxBodySize = 32 << 20

// RenderHandler HTTP 1.1 Handler rendering a posted GeoJSON as PNG
// query parameters: width, height, bbox=minLon,maxLon,minLat,maxLat, seam=true
func (s *Server) RenderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	span, ctx := opentracing.StartSpanFromContext(ctx, "RenderHandler")
	defer span.Finish()

	req, err := parseRenderRequest(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rs, err := s.Render(ctx, req)
	if err != nil {
		if IsRequestError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		level.Error(s.logger).Log("msg", "failed to render", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(rs.Image)))
	w.Write(rs.Image)
}

// BoundsResponse bounding boxes of a document
type BoundsResponse struct {
	BBox     [4]float64 `json:"bbox"`
	SeamBBox [4]float64 `json:"seam_bbox"`
	Crosses  bool       `json:"crosses_antimeridian"`
}

// BoundsHandler HTTP 1.1 Handler returning the bounding boxes of a posted GeoJSON
// as [minLon, maxLon, minLat, maxLat]
func (s *Server) BoundsHandler(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "can't read body", http.StatusBadRequest)
		return
	}

	node, err := decoder.Decode(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	box, err := geojson2image.BoundingBox(node)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seam, err := geojson2image.SeamBoundingBox(node)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := BoundsResponse{
		BBox:     [4]float64{box.MinLon, box.MaxLon, box.MinLat, box.MaxLat},
		SeamBBox: [4]float64{seam.MinLon, seam.MaxLon, seam.MinLat, seam.MaxLat},
		Crosses:  seam.CrossesAntimeridian(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		level.Error(s.logger).Log("msg", "can't encode bounds", "error", err)
	}
}

func parseRenderRequest(w http.ResponseWriter, r *http.Request) (*RenderRequest, error) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, errors.New("can't read body")
	}

	req := &RenderRequest{GeoJSON: body}

	q := r.URL.Query()
	if v := q.Get("width"); v != "" {
		req.Width, err = strconv.Atoi(v)
		if err != nil || req.Width < 0 {
			return nil, errors.New("invalid parameter width")
		}
	}
	if v := q.Get("height"); v != "" {
		req.Height, err = strconv.Atoi(v)
		if err != nil || req.Height < 0 {
			return nil, errors.New("invalid parameter height")
		}
	}
	if v := q.Get("bbox"); v != "" {
		box, err := geojson2image.ParseBBox(v)
		if err != nil {
			return nil, err
		}
		req.BBox = box
	}
	if v := q.Get("seam"); v != "" {
		req.SeamAware, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid parameter seam")
		}
	}

	return req, nil
}
