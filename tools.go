package geojson2image

import (
	"encoding/binary"
)

const (
	renderPrefix = 'R'
)

// RenderKey storage key of a rendering
func RenderKey(key uint64) []byte {
	k := make([]byte, 1+8)
	k[0] = renderPrefix
	binary.BigEndian.PutUint64(k[1:], key)
	return k
}

// RenderPrefix prefix of all rendering keys
func RenderPrefix() byte {
	return renderPrefix
}
