package vtx

import "srcmdl/internal/binreader"

const lod0 = 0

// Parse reads a complete .dx90.vtx byte blob, keeping only LOD 0 of every
// model (spec.md §4.F).
func Parse(buf []byte) (*Vtx, error) {
	r := binreader.New(buf)

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	offsets := binreader.Offsets(h.BodyPartOffset, h.BodyPartCount, bodyPartRecordSize)
	bodyParts := make([]BodyPart, 0, len(offsets))
	for _, off := range offsets {
		bp, err := readBodyPart(r, int(off))
		if err != nil {
			return nil, err
		}
		bodyParts = append(bodyParts, bp)
	}

	return &Vtx{Header: h, BodyParts: bodyParts}, nil
}

func readHeader(r *binreader.Reader) (Header, error) {
	var h Header
	var err error
	if h.Version, err = r.Int32At(0); err != nil {
		return h, err
	}
	if h.VertexCacheSize, err = r.Int32At(4); err != nil {
		return h, err
	}
	if h.MaxBonesPerStrip, err = r.Uint16At(8); err != nil {
		return h, err
	}
	if h.MaxBonesPerTriangle, err = r.Uint16At(10); err != nil {
		return h, err
	}
	if h.MaxBonesPerVertex, err = r.Int32At(12); err != nil {
		return h, err
	}
	checksum, err := r.ReadAt(16, 4)
	if err != nil {
		return h, err
	}
	copy(h.Checksum[:], checksum)
	if h.LodCount, err = r.Int32At(20); err != nil {
		return h, err
	}
	if h.MaterialReplacementList, err = r.Int32At(24); err != nil {
		return h, err
	}
	if h.BodyPartCount, err = r.Int32At(28); err != nil {
		return h, err
	}
	if h.BodyPartOffset, err = r.Int32At(32); err != nil {
		return h, err
	}
	return h, nil
}

func readBodyPart(r *binreader.Reader, off int) (BodyPart, error) {
	var bp BodyPart
	modelCount, err := r.Int32At(off)
	if err != nil {
		return bp, err
	}
	modelOffset, err := r.Int32At(off + 4)
	if err != nil {
		return bp, err
	}
	offsets := binreader.Offsets(int32(off)+modelOffset, modelCount, modelRecordSize)
	bp.Models = make([]Model, 0, len(offsets))
	for _, mOff := range offsets {
		m, err := readModel(r, int(mOff))
		if err != nil {
			return bp, err
		}
		bp.Models = append(bp.Models, m)
	}
	return bp, nil
}

func readModel(r *binreader.Reader, off int) (Model, error) {
	var m Model
	lodCount, err := r.Int32At(off)
	if err != nil {
		return m, err
	}
	lodOffset, err := r.Int32At(off + 4)
	if err != nil {
		return m, err
	}
	if lodCount <= 0 {
		return m, nil
	}
	// Only LOD 0, the first entry in the lod table, is retained.
	offsets := binreader.Offsets(int32(off)+lodOffset, lodCount, modelLodRecordSize)
	if len(offsets) <= lod0 {
		return m, nil
	}
	lod, err := readModelLod(r, int(offsets[lod0]))
	if err != nil {
		return m, err
	}
	m.Lod0 = lod
	return m, nil
}

func readModelLod(r *binreader.Reader, off int) (ModelLod, error) {
	var lod ModelLod
	meshCount, err := r.Int32At(off)
	if err != nil {
		return lod, err
	}
	meshOffset, err := r.Int32At(off + 4)
	if err != nil {
		return lod, err
	}
	if lod.SwitchPoint, err = r.Float32At(off + 8); err != nil {
		return lod, err
	}
	offsets := binreader.Offsets(int32(off)+meshOffset, meshCount, meshRecordSize)
	lod.Meshes = make([]Mesh, 0, len(offsets))
	for _, mOff := range offsets {
		mesh, err := readMesh(r, int(mOff))
		if err != nil {
			return lod, err
		}
		lod.Meshes = append(lod.Meshes, mesh)
	}
	return lod, nil
}

func readMesh(r *binreader.Reader, off int) (Mesh, error) {
	var mesh Mesh
	stripGroupCount, err := r.Int32At(off)
	if err != nil {
		return mesh, err
	}
	stripGroupOffset, err := r.Int32At(off + 4)
	if err != nil {
		return mesh, err
	}
	flags, err := r.Uint8At(off + 8)
	if err != nil {
		return mesh, err
	}
	mesh.Flags = flags

	offsets := binreader.Offsets(int32(off)+stripGroupOffset, stripGroupCount, stripGroupRecordSize)
	mesh.StripGroups = make([]StripGroup, 0, len(offsets))
	for _, sgOff := range offsets {
		sg, err := readStripGroup(r, int(sgOff))
		if err != nil {
			return mesh, err
		}
		mesh.StripGroups = append(mesh.StripGroups, sg)
	}
	return mesh, nil
}

func readStripGroup(r *binreader.Reader, off int) (StripGroup, error) {
	var sg StripGroup
	vertexCount, err := r.Int32At(off)
	if err != nil {
		return sg, err
	}
	vertexOffset, err := r.Int32At(off + 4)
	if err != nil {
		return sg, err
	}
	indexCount, err := r.Int32At(off + 8)
	if err != nil {
		return sg, err
	}
	indexOffset, err := r.Int32At(off + 12)
	if err != nil {
		return sg, err
	}
	stripCount, err := r.Int32At(off + 16)
	if err != nil {
		return sg, err
	}
	stripOffset, err := r.Int32At(off + 20)
	if err != nil {
		return sg, err
	}
	flags, err := r.Uint8At(off + 24)
	if err != nil {
		return sg, err
	}
	sg.Flags = flags

	vOffsets := binreader.Offsets(int32(off)+vertexOffset, vertexCount, vertexRecordSize)
	sg.Vertices = make([]Vertex, 0, len(vOffsets))
	for _, vOff := range vOffsets {
		v, err := readVertex(r, int(vOff))
		if err != nil {
			return sg, err
		}
		sg.Vertices = append(sg.Vertices, v)
	}

	iOffsets := binreader.Offsets(int32(off)+indexOffset, indexCount, indexRecordSize)
	sg.Indices = make([]uint16, 0, len(iOffsets))
	for _, iOff := range iOffsets {
		idx, err := r.Uint16At(int(iOff))
		if err != nil {
			return sg, err
		}
		sg.Indices = append(sg.Indices, idx)
	}

	sOffsets := binreader.Offsets(int32(off)+stripOffset, stripCount, stripRecordSize)
	sg.Strips = make([]Strip, 0, len(sOffsets))
	for _, sOff := range sOffsets {
		strip, err := readStrip(r, int(sOff))
		if err != nil {
			return sg, err
		}
		sg.Strips = append(sg.Strips, strip)
	}

	return sg, nil
}

func readVertex(r *binreader.Reader, off int) (Vertex, error) {
	var v Vertex
	for i := 0; i < 3; i++ {
		b, err := r.Uint8At(off + i)
		if err != nil {
			return v, err
		}
		v.BoneWeightIndexes[i] = b
	}
	boneCount, err := r.Uint8At(off + 3)
	if err != nil {
		return v, err
	}
	v.BoneCount = boneCount
	meshVertexID, err := r.Uint16At(off + 4)
	if err != nil {
		return v, err
	}
	v.OriginalMeshVertexID = meshVertexID
	for i := 0; i < 3; i++ {
		b, err := r.Uint8At(off + 6 + i)
		if err != nil {
			return v, err
		}
		v.BoneID[i] = b
	}
	return v, nil
}

func readStrip(r *binreader.Reader, off int) (Strip, error) {
	var s Strip
	var err error
	if s.IndexCount, err = r.Int32At(off); err != nil {
		return s, err
	}
	if s.IndexOffset, err = r.Int32At(off + 4); err != nil {
		return s, err
	}
	if s.VertexCount, err = r.Int32At(off + 8); err != nil {
		return s, err
	}
	if s.VertexOffset, err = r.Int32At(off + 12); err != nil {
		return s, err
	}
	flags, err := r.Uint8At(off + 18)
	if err != nil {
		return s, err
	}
	s.Flags = StripFlag(flags)
	return s, nil
}
