package srcmdl

import "srcmdl/internal/vvd"

// Vvd is the fully parsed vertex-data file (spec.md §3/§4.E).
type Vvd = vvd.Vvd

type (
	VvdHeader = vvd.Header
	Vertex    = vvd.Vertex
	BoneWeight = vvd.BoneWeight
	Tangent    = vvd.Tangent
)

// ParseVVD parses a complete .vvd byte blob (spec.md §6.2 parse_vvd).
func ParseVVD(buf []byte) (*Vvd, error) {
	return vvd.Parse(buf)
}
