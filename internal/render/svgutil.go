package render

import "bytes"

// normalizeSVG rewrites style spellings oksvg does not accept.
func normalizeSVG(svg []byte) []byte {
	out := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	out = bytes.ReplaceAll(out, []byte("stroke: #"), []byte("stroke:#"))
	out = bytes.ReplaceAll(out, []byte("stop-color: #"), []byte("stop-color:#"))
	return out
}
