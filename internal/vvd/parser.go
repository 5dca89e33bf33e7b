package vvd

import (
	"srcmdl/internal/binreader"
	"srcmdl/internal/srcerr"
)

// Parse reads a complete .vvd byte blob, selecting LOD 0 and applying the
// fix-up table if present (spec.md §4.E). Post-condition:
// len(Vertices) == len(Tangents).
func Parse(buf []byte) (*Vvd, error) {
	r := binreader.New(buf)

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	lodCount := int32(0)
	if requestedLod < h.LodCount {
		lodCount = h.LodVertexCount[requestedLod]
	}

	sourceVertices, err := readVertices(r, h.VertexIndex, lodCount)
	if err != nil {
		return nil, err
	}
	sourceTangents, err := readTangents(r, h.TangentIndex, lodCount)
	if err != nil {
		return nil, err
	}

	if h.FixupCount <= 0 {
		return &Vvd{Header: h, Vertices: sourceVertices, Tangents: sourceTangents}, nil
	}

	fixups, err := readFixups(r, h.FixupIndex, h.FixupCount)
	if err != nil {
		return nil, err
	}

	var vertices []Vertex
	var tangents []Tangent
	for _, fx := range fixups {
		if fx.Lod > requestedLod {
			continue
		}
		start := fx.SourceVertexID
		end := start + fx.VertexCount
		if start < 0 || end > int32(len(sourceVertices)) || end > int32(len(sourceTangents)) {
			return nil, outOfBoundsFixup(start)
		}
		vertices = append(vertices, sourceVertices[start:end]...)
		tangents = append(tangents, sourceTangents[start:end]...)
	}

	return &Vvd{Header: h, Vertices: vertices, Tangents: tangents}, nil
}

func readHeader(r *binreader.Reader) (Header, error) {
	var h Header
	var err error
	if h.ID, err = r.Int32At(0); err != nil {
		return h, err
	}
	if h.Version, err = r.Int32At(4); err != nil {
		return h, err
	}
	checksum, err := r.ReadAt(8, 4)
	if err != nil {
		return h, err
	}
	copy(h.Checksum[:], checksum)
	if h.LodCount, err = r.Int32At(12); err != nil {
		return h, err
	}
	for i := 0; i < 8; i++ {
		v, err := r.Int32At(16 + i*4)
		if err != nil {
			return h, err
		}
		h.LodVertexCount[i] = v
	}
	if h.FixupCount, err = r.Int32At(48); err != nil {
		return h, err
	}
	if h.FixupIndex, err = r.Int32At(52); err != nil {
		return h, err
	}
	if h.VertexIndex, err = r.Int32At(56); err != nil {
		return h, err
	}
	if h.TangentIndex, err = r.Int32At(60); err != nil {
		return h, err
	}
	return h, nil
}

func readVertices(r *binreader.Reader, base int32, count int32) ([]Vertex, error) {
	offsets := binreader.Offsets(base, count, vertexStride)
	out := make([]Vertex, 0, len(offsets))
	for _, off := range offsets {
		v, err := readVertex(r, int(off))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func readVertex(r *binreader.Reader, off int) (Vertex, error) {
	var v Vertex
	for i := 0; i < 3; i++ {
		w, err := r.Float32At(off + i*4)
		if err != nil {
			return v, err
		}
		v.BoneWeights.Weight[i] = w
	}
	for i := 0; i < 3; i++ {
		b, err := r.Uint8At(off + 12 + i)
		if err != nil {
			return v, err
		}
		v.BoneWeights.Bone[i] = b
	}
	boneCount, err := r.Uint8At(off + 15)
	if err != nil {
		return v, err
	}
	v.BoneWeights.BoneCount = boneCount

	px, err := r.Float32At(off + 16)
	if err != nil {
		return v, err
	}
	py, err := r.Float32At(off + 20)
	if err != nil {
		return v, err
	}
	pz, err := r.Float32At(off + 24)
	if err != nil {
		return v, err
	}
	v.Position.X, v.Position.Y, v.Position.Z = px, py, pz

	nx, err := r.Float32At(off + 28)
	if err != nil {
		return v, err
	}
	ny, err := r.Float32At(off + 32)
	if err != nil {
		return v, err
	}
	nz, err := r.Float32At(off + 36)
	if err != nil {
		return v, err
	}
	v.Normal.X, v.Normal.Y, v.Normal.Z = nx, ny, nz

	u, err := r.Float32At(off + 40)
	if err != nil {
		return v, err
	}
	vv, err := r.Float32At(off + 44)
	if err != nil {
		return v, err
	}
	v.UV[0], v.UV[1] = u, vv

	return v, nil
}

// readTangents reads the parallel tangent stream. spec.md §4.E: "tangent
// stream follows identically" — same base/count/fixup treatment as
// vertices, just a different record shape and offset root.
func readTangents(r *binreader.Reader, base int32, count int32) ([]Tangent, error) {
	offsets := binreader.Offsets(base, count, 16)
	out := make([]Tangent, 0, len(offsets))
	for _, off := range offsets {
		x, err := r.Float32At(int(off))
		if err != nil {
			return nil, err
		}
		y, err := r.Float32At(int(off) + 4)
		if err != nil {
			return nil, err
		}
		z, err := r.Float32At(int(off) + 8)
		if err != nil {
			return nil, err
		}
		w, err := r.Float32At(int(off) + 12)
		if err != nil {
			return nil, err
		}
		out = append(out, Tangent{X: x, Y: y, Z: z, W: w})
	}
	return out, nil
}

func outOfBoundsFixup(sourceVertexID int32) error {
	return srcerr.OutOfBounds("vvd_fixup", sourceVertexID)
}

type vvdFixup struct {
	Lod            int32
	SourceVertexID int32
	VertexCount    int32
}

func readFixups(r *binreader.Reader, base int32, count int32) ([]vvdFixup, error) {
	offsets := binreader.Offsets(base, count, fixupStride)
	out := make([]vvdFixup, 0, len(offsets))
	for _, off := range offsets {
		lod, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		src, err := r.Int32At(int(off) + 4)
		if err != nil {
			return nil, err
		}
		cnt, err := r.Int32At(int(off) + 8)
		if err != nil {
			return nil, err
		}
		out = append(out, vvdFixup{Lod: lod, SourceVertexID: src, VertexCount: cnt})
	}
	return out, nil
}
