package mdl

import (
	"srcmdl/internal/binreader"
	"srcmdl/internal/codec"
	"srcmdl/internal/mathutil"
	"srcmdl/internal/srcerr"
)

// Parse reads a complete .mdl byte blob into an Mdl value (spec.md §4.D).
// It does not enforce Header.Magic or Header.Version — a caller that cares
// inspects the returned header. Every other parse step that dereferences
// an offset returns OutOfBounds/Eof on failure rather than skipping the
// record.
func Parse(buf []byte) (*Mdl, error) {
	r := binreader.New(buf)

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	bones, err := readBones(r, header)
	if err != nil {
		return nil, err
	}

	boneControllers, err := readBoneControllers(r, header)
	if err != nil {
		return nil, err
	}

	textures, err := readTextures(r, header)
	if err != nil {
		return nil, err
	}

	textureDirs, err := readTextureDirs(r, header)
	if err != nil {
		return nil, err
	}

	skins, err := readSkinTable(r, header)
	if err != nil {
		return nil, err
	}

	bodyParts, err := readBodyParts(r, header)
	if err != nil {
		return nil, err
	}

	attachments, err := readAttachments(r, header)
	if err != nil {
		return nil, err
	}

	hitboxSets, err := readHitboxSets(r, header)
	if err != nil {
		return nil, err
	}

	poseParams, err := readPoseParams(r, header)
	if err != nil {
		return nil, err
	}

	surfaceProp := ""
	if header.SurfacePropIndex != 0 {
		surfaceProp, err = r.StringAt(int(header.SurfacePropIndex), 0)
		if err != nil {
			return nil, err
		}
	}

	animations, err := readAnimations(r, header, bones)
	if err != nil {
		return nil, err
	}

	return &Mdl{
		Header:          header,
		Bones:           bones,
		BoneControllers: boneControllers,
		Textures:        textures,
		TextureDirs:     textureDirs,
		Skins:           skins,
		BodyParts:       bodyParts,
		Attachments:     attachments,
		HitboxSets:      hitboxSets,
		PoseParams:      poseParams,
		SurfaceProp:     surfaceProp,
		Animations:      animations,
	}, nil
}

func readVector(r *binreader.Reader, off int) (mathutil.Vector, error) {
	x, err := r.Float32At(off)
	if err != nil {
		return mathutil.Vector{}, err
	}
	y, err := r.Float32At(off + 4)
	if err != nil {
		return mathutil.Vector{}, err
	}
	z, err := r.Float32At(off + 8)
	if err != nil {
		return mathutil.Vector{}, err
	}
	return mathutil.Vector{X: x, Y: y, Z: z}, nil
}

func readQuaternion(r *binreader.Reader, off int) (mathutil.Quaternion, error) {
	x, err := r.Float32At(off)
	if err != nil {
		return mathutil.Quaternion{}, err
	}
	y, err := r.Float32At(off + 4)
	if err != nil {
		return mathutil.Quaternion{}, err
	}
	z, err := r.Float32At(off + 8)
	if err != nil {
		return mathutil.Quaternion{}, err
	}
	w, err := r.Float32At(off + 12)
	if err != nil {
		return mathutil.Quaternion{}, err
	}
	return mathutil.Quaternion{X: x, Y: y, Z: z, W: w}, nil
}

func readRadianEuler(r *binreader.Reader, off int) (mathutil.RadianEuler, error) {
	x, err := r.Float32At(off)
	if err != nil {
		return mathutil.RadianEuler{}, err
	}
	y, err := r.Float32At(off + 4)
	if err != nil {
		return mathutil.RadianEuler{}, err
	}
	z, err := r.Float32At(off + 8)
	if err != nil {
		return mathutil.RadianEuler{}, err
	}
	return mathutil.RadianEuler{X: x, Y: y, Z: z}, nil
}

func readHeader(r *binreader.Reader) (Header, error) {
	var h Header
	if r.Len() < headerSize {
		return h, srcerr.Eof(headerSize - r.Len())
	}

	read32 := func(off int) (int32, error) { return r.Int32At(off) }

	var err error
	if h.Magic, err = read32(0); err != nil {
		return h, err
	}
	if h.Version, err = read32(4); err != nil {
		return h, err
	}
	checksum, err := r.ReadAt(8, 4)
	if err != nil {
		return h, err
	}
	copy(h.Checksum[:], checksum)
	if h.Name, err = r.StringAt(12, 64); err != nil {
		return h, err
	}
	if h.DataLength, err = read32(76); err != nil {
		return h, err
	}
	if h.EyePosition, err = readVector(r, 80); err != nil {
		return h, err
	}
	if h.IlluminationPosition, err = readVector(r, 92); err != nil {
		return h, err
	}
	if h.HullMin, err = readVector(r, 104); err != nil {
		return h, err
	}
	if h.HullMax, err = readVector(r, 116); err != nil {
		return h, err
	}
	if h.ViewBBMin, err = readVector(r, 128); err != nil {
		return h, err
	}
	if h.ViewBBMax, err = readVector(r, 140); err != nil {
		return h, err
	}
	flags, err := r.Uint32At(152)
	if err != nil {
		return h, err
	}
	h.Flags = flags

	fields := []struct {
		off int
		dst *int32
	}{
		{156, &h.BoneCount}, {160, &h.BoneOffset},
		{164, &h.BoneControllerCount}, {168, &h.BoneControllerOffset},
		{172, &h.HitboxCount}, {176, &h.HitboxOffset},
		{180, &h.LocalAnimationCount}, {184, &h.LocalAnimationOffset},
		{188, &h.LocalSeqCount}, {192, &h.LocalSeqOffset},
		{196, &h.ActivityListVersion}, {200, &h.EventsIndexed},
		{204, &h.TextureCount}, {208, &h.TextureOffset},
		{212, &h.TextureDirCount}, {216, &h.TextureDirOffset},
		{220, &h.SkinReferenceCount}, {224, &h.SkinFamilyCount},
		{228, &h.SkinReferenceOffset},
		{232, &h.BodyPartCount}, {236, &h.BodyPartOffset},
		{240, &h.AttachmentCount}, {244, &h.AttachmentOffset},
		{248, &h.LocalNodeCount}, {252, &h.LocalNodeIndex},
		{256, &h.LocalNodeNameIndex},
		{260, &h.FlexDescCount}, {264, &h.FlexDescIndex},
		{268, &h.FlexControllerCount}, {272, &h.FlexControllerIndex},
		{276, &h.FlexRulesCount}, {280, &h.FlexRulesIndex},
		{284, &h.IkChainCount}, {288, &h.IkChainIndex},
		{292, &h.MouthsCount}, {296, &h.MouthsIndex},
		{300, &h.LocalPoseParamCount}, {304, &h.LocalPoseParamIndex},
		{308, &h.SurfacePropIndex},
		{312, &h.KeyValueIndex}, {316, &h.KeyValueCount},
		{320, &h.IkLockCount}, {324, &h.IkLockIndex},
		{332, &h.Contents},
		{336, &h.IncludeModelCount}, {340, &h.IncludeModelIndex},
		{344, &h.VirtualModel},
		{348, &h.AnimBlocksNameIndex}, {352, &h.AnimBlocksCount}, {356, &h.AnimBlocksIndex},
		{360, &h.AnimBlockModel},
		{364, &h.BoneTableNameIndex},
		{368, &h.VertexBase}, {372, &h.OffsetBase},
		{384, &h.FlexControllerUICount}, {388, &h.FlexControllerUIIndex},
		{400, &h.StudioHdr2Index},
	}
	for _, f := range fields {
		v, err := read32(f.off)
		if err != nil {
			return h, err
		}
		*f.dst = v
	}

	if h.Mass, err = r.Float32At(328); err != nil {
		return h, err
	}
	if h.DirectionalDotProduct, err = r.Uint8At(376); err != nil {
		return h, err
	}
	if h.RootLod, err = r.Uint8At(377); err != nil {
		return h, err
	}
	if h.NumAllowedRootLods, err = r.Uint8At(378); err != nil {
		return h, err
	}
	if h.VertAnimFixedScale, err = r.Float32At(392); err != nil {
		return h, err
	}

	return h, nil
}

func readBones(r *binreader.Reader, h Header) ([]Bone, error) {
	offsets := binreader.Offsets(h.BoneOffset, h.BoneCount, boneRecordSize)
	bones := make([]Bone, 0, len(offsets))
	for _, off := range offsets {
		b, err := readBone(r, int(off))
		if err != nil {
			return nil, err
		}
		bones = append(bones, b)
	}
	return bones, nil
}

func readBone(r *binreader.Reader, off int) (Bone, error) {
	var b Bone

	nameIdx, err := r.Int32At(off)
	if err != nil {
		return b, err
	}
	if b.Name, err = r.StringAt(int(nameIdx), 0); err != nil {
		return b, err
	}
	if b.Parent, err = r.Int32At(off + 4); err != nil {
		return b, err
	}
	for i := 0; i < 6; i++ {
		v, err := r.Int32At(off + 8 + i*4)
		if err != nil {
			return b, err
		}
		b.ControllerIndices[i] = v
	}
	if b.Pos, err = readVector(r, off+32); err != nil {
		return b, err
	}
	if b.Quat, err = readQuaternion(r, off+44); err != nil {
		return b, err
	}
	if b.Rot, err = readRadianEuler(r, off+60); err != nil {
		return b, err
	}
	if b.PosScale, err = readVector(r, off+72); err != nil {
		return b, err
	}
	if b.RotScale, err = readVector(r, off+84); err != nil {
		return b, err
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			v, err := r.Float32At(off + 96 + (row*4+col)*4)
			if err != nil {
				return b, err
			}
			b.PoseToBone.Rows[row][col] = v
		}
	}
	if b.QAlignment, err = readQuaternion(r, off+144); err != nil {
		return b, err
	}
	flags, err := r.Uint32At(off + 160)
	if err != nil {
		return b, err
	}
	b.Flags = flags
	if b.ProcType, err = r.Int32At(off + 164); err != nil {
		return b, err
	}
	procIndex, err := r.Int32At(off + 168)
	if err != nil {
		return b, err
	}
	if b.PhysicsBone, err = r.Int32At(off + 172); err != nil {
		return b, err
	}
	surfacePropIdx, err := r.Int32At(off + 176)
	if err != nil {
		return b, err
	}
	if b.SurfaceProp, err = r.StringAt(int(surfacePropIdx), 0); err != nil {
		return b, err
	}
	contents, err := r.Int32At(off + 180)
	if err != nil {
		return b, err
	}
	b.Contents = uint32(contents)

	if procIndex != 0 {
		rule, err := readProceduralRule(r, ProceduralRuleKind(b.ProcType), int(procIndex))
		if err != nil {
			return b, err
		}
		b.Proc = rule
	}

	return b, nil
}

// readProceduralRule decodes the tagged procedural-bone payload. An
// unrecognized ProcType tolerates to nil (spec.md §9) rather than failing
// the whole parse.
func readProceduralRule(r *binreader.Reader, kind ProceduralRuleKind, off int) (*ProceduralRule, error) {
	switch kind {
	case ProcAxisInterp:
		rule := &AxisInterpRule{}
		var err error
		if rule.ControlBone, err = r.Int32At(off); err != nil {
			return nil, err
		}
		if rule.Axis, err = r.Int32At(off + 4); err != nil {
			return nil, err
		}
		base := off + 8
		for i := 0; i < 6; i++ {
			if rule.Pos[i], err = readVector(r, base+i*12); err != nil {
				return nil, err
			}
		}
		base += 6 * 12
		for i := 0; i < 6; i++ {
			if rule.Quat[i], err = readQuaternion(r, base+i*16); err != nil {
				return nil, err
			}
		}
		return &ProceduralRule{Kind: kind, AxisInterp: rule}, nil

	case ProcQuaternionInterp:
		rule := &QuaternionInterpRule{}
		var err error
		if rule.InverseTolerance, err = r.Float32At(off); err != nil {
			return nil, err
		}
		if rule.Trigger, err = readQuaternion(r, off+4); err != nil {
			return nil, err
		}
		if rule.Pos, err = readVector(r, off+20); err != nil {
			return nil, err
		}
		if rule.Quat, err = readQuaternion(r, off+32); err != nil {
			return nil, err
		}
		return &ProceduralRule{Kind: kind, QuatInterp: rule}, nil

	case ProcAimAtBone, ProcAimAtAttachment:
		rule := &AimAtRule{}
		var err error
		if rule.Parent, err = r.Int32At(off); err != nil {
			return nil, err
		}
		if rule.Aim, err = r.Int32At(off + 4); err != nil {
			return nil, err
		}
		if rule.AimVector, err = readVector(r, off+8); err != nil {
			return nil, err
		}
		if rule.UpVector, err = readVector(r, off+20); err != nil {
			return nil, err
		}
		if rule.BasePosition, err = readVector(r, off+32); err != nil {
			return nil, err
		}
		return &ProceduralRule{Kind: kind, AimAt: rule}, nil

	case ProcJiggle:
		rule, err := readJiggleRule(r, off)
		if err != nil {
			return nil, err
		}
		return &ProceduralRule{Kind: kind, Jiggle: rule}, nil

	default:
		return nil, nil
	}
}

func readJiggleRule(r *binreader.Reader, off int) (*JiggleRule, error) {
	rule := &JiggleRule{}
	flags, err := r.Uint32At(off)
	if err != nil {
		return nil, err
	}
	rule.Flags = flags

	floats := []*float32{
		&rule.Length, &rule.TipMass,
		&rule.YawStiffness, &rule.YawDamping, &rule.PitchStiffness, &rule.PitchDamping,
		&rule.AlongStiffness, &rule.AlongDamping,
		&rule.AngleLimit,
		&rule.MinYaw, &rule.MaxYaw, &rule.YawFriction, &rule.YawBound,
		&rule.MinPitch, &rule.MaxPitch, &rule.PitchFriction, &rule.PitchBounce,
		&rule.BaseMass, &rule.BaseStiffness, &rule.BaseDamping,
		&rule.BaseMinLeft, &rule.BaseMaxLeft, &rule.BaseLeftFriction,
		&rule.BaseMinUp, &rule.BaseMaxUp, &rule.BaseUpFriction,
		&rule.BaseMinForward, &rule.BaseMaxForward, &rule.BaseForwardFriction,
		&rule.BoingImpactSpeed, &rule.BoingImpactAngle, &rule.BoingDampingRate,
		&rule.BoingFrequency, &rule.BoingAmplitude,
	}
	base := off + 4
	for i, dst := range floats {
		v, err := r.Float32At(base + i*4)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return rule, nil
}

func readBoneControllers(r *binreader.Reader, h Header) ([]BoneController, error) {
	offsets := binreader.Offsets(h.BoneControllerOffset, h.BoneControllerCount, boneControllerSize)
	out := make([]BoneController, 0, len(offsets))
	for _, off := range offsets {
		var c BoneController
		var err error
		if c.Bone, err = r.Int32At(int(off)); err != nil {
			return nil, err
		}
		ty, err := r.Int32At(int(off) + 4)
		if err != nil {
			return nil, err
		}
		c.Type = uint32(ty)
		if c.Start, err = r.Float32At(int(off) + 8); err != nil {
			return nil, err
		}
		if c.End, err = r.Float32At(int(off) + 12); err != nil {
			return nil, err
		}
		if c.RestIndex, err = r.Int32At(int(off) + 16); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// readTextures reads the material reference table. Each record's
// name_index is relative to the record's own offset, per spec.md §4.D
// step 2; backslashes are normalized to forward slashes.
func readTextures(r *binreader.Reader, h Header) ([]TextureInfo, error) {
	offsets := binreader.Offsets(h.TextureOffset, h.TextureCount, textureRecordSize)
	out := make([]TextureInfo, 0, len(offsets))
	for _, off := range offsets {
		nameIdx, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		name, err := r.StringAt(int(off)+int(nameIdx), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, TextureInfo{Name: normalizeSlashes(name)})
	}
	return out, nil
}

func normalizeSlashes(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == '\\' {
			b[i] = '/'
		}
	}
	return string(b)
}

// readTextureDirs reads the texture search-directory table: an array of
// file-absolute i32 offsets, each pointing to a NUL-terminated path.
func readTextureDirs(r *binreader.Reader, h Header) ([]string, error) {
	offsets := binreader.Offsets(h.TextureDirOffset, h.TextureDirCount, textureDirEntrySize)
	out := make([]string, 0, len(offsets))
	for _, off := range offsets {
		strOff, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		s, err := r.StringAt(int(strOff), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func readSkinTable(r *binreader.Reader, h Header) (SkinTable, error) {
	table := SkinTable{
		ReferenceCount: h.SkinReferenceCount,
		FamilyCount:    h.SkinFamilyCount,
	}
	if h.SkinReferenceCount <= 0 || h.SkinFamilyCount <= 0 {
		return table, nil
	}
	offsets := binreader.Offsets(h.SkinReferenceOffset, h.SkinReferenceCount*h.SkinFamilyCount, skinReferenceSize)
	flat := make([]uint16, 0, len(offsets))
	for _, off := range offsets {
		v, err := r.Uint16At(int(off))
		if err != nil {
			return table, err
		}
		flat = append(flat, v)
	}
	table.Families = make([][]uint16, h.SkinFamilyCount)
	for f := int32(0); f < h.SkinFamilyCount; f++ {
		start := f * h.SkinReferenceCount
		table.Families[f] = flat[start : start+h.SkinReferenceCount]
	}
	return table, nil
}

func readBodyParts(r *binreader.Reader, h Header) ([]BodyPart, error) {
	offsets := binreader.Offsets(h.BodyPartOffset, h.BodyPartCount, bodyPartRecordSize)
	out := make([]BodyPart, 0, len(offsets))
	for _, off := range offsets {
		bp, err := readBodyPart(r, int(off))
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

func readBodyPart(r *binreader.Reader, off int) (BodyPart, error) {
	var bp BodyPart
	nameIdx, err := r.Int32At(off)
	if err != nil {
		return bp, err
	}
	if bp.Name, err = r.StringAt(off+int(nameIdx), 0); err != nil {
		return bp, err
	}
	modelCount, err := r.Int32At(off + 4)
	if err != nil {
		return bp, err
	}
	modelIndex, err := r.Int32At(off + 12)
	if err != nil {
		return bp, err
	}

	offsets := binreader.Offsets(int32(off)+modelIndex, modelCount, modelRecordSize)
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
	name, err := r.StringAt(off, 64)
	if err != nil {
		return m, err
	}
	m.Name = name
	if m.BoundingRadius, err = r.Float32At(off + 68); err != nil {
		return m, err
	}
	meshCount, err := r.Int32At(off + 72)
	if err != nil {
		return m, err
	}
	meshIndex, err := r.Int32At(off + 76)
	if err != nil {
		return m, err
	}
	vertexIndex, err := r.Int32At(off + 84)
	if err != nil {
		return m, err
	}
	// vertex_index is a byte offset into the VVD vertex stream; divide by
	// the 48-byte vertex record size to yield a vertex index (spec.md
	// §4.D step 6 — this conversion must happen during parse).
	m.VertexOffset = vertexIndex / vvdVertexStride

	offsets := binreader.Offsets(int32(off)+meshIndex, meshCount, meshRecordSize)
	m.Meshes = make([]Mesh, 0, len(offsets))
	for _, mOff := range offsets {
		mesh, err := readMesh(r, int(mOff))
		if err != nil {
			return m, err
		}
		m.Meshes = append(m.Meshes, mesh)
	}
	return m, nil
}

func readMesh(r *binreader.Reader, off int) (Mesh, error) {
	var mesh Mesh
	material, err := r.Int32At(off)
	if err != nil {
		return mesh, err
	}
	mesh.MaterialIndex = material
	if mesh.VertexOffset, err = r.Int32At(off + 12); err != nil {
		return mesh, err
	}
	return mesh, nil
}

func readAttachments(r *binreader.Reader, h Header) ([]Attachment, error) {
	offsets := binreader.Offsets(h.AttachmentOffset, h.AttachmentCount, attachmentRecordSize)
	out := make([]Attachment, 0, len(offsets))
	for _, off := range offsets {
		var a Attachment
		nameIdx, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		if a.Name, err = r.StringAt(int(off)+int(nameIdx), 0); err != nil {
			return nil, err
		}
		flags, err := r.Uint32At(int(off) + 4)
		if err != nil {
			return nil, err
		}
		a.Flags = flags
		if a.Bone, err = r.Int32At(int(off) + 8); err != nil {
			return nil, err
		}
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				v, err := r.Float32At(int(off) + 12 + (row*4+col)*4)
				if err != nil {
					return nil, err
				}
				a.Local.Rows[row][col] = v
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func readHitboxSets(r *binreader.Reader, h Header) ([]HitboxSet, error) {
	// mstudiohitboxset_t: { name_index:i32, hitbox_count:i32, hitbox_index:i32 }
	const hitboxSetRecordSize = 12
	offsets := binreader.Offsets(h.HitboxOffset, h.HitboxCount, hitboxSetRecordSize)
	out := make([]HitboxSet, 0, len(offsets))
	for _, off := range offsets {
		var set HitboxSet
		nameIdx, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		if set.Name, err = r.StringAt(int(off)+int(nameIdx), 0); err != nil {
			return nil, err
		}
		hbCount, err := r.Int32At(int(off) + 4)
		if err != nil {
			return nil, err
		}
		hbIndex, err := r.Int32At(int(off) + 8)
		if err != nil {
			return nil, err
		}
		hbOffsets := binreader.Offsets(off+hbIndex, hbCount, hitboxRecordSize)
		set.Hitboxes = make([]Hitbox, 0, len(hbOffsets))
		for _, hbOff := range hbOffsets {
			hb, err := readHitbox(r, int(hbOff))
			if err != nil {
				return nil, err
			}
			set.Hitboxes = append(set.Hitboxes, hb)
		}
		out = append(out, set)
	}
	return out, nil
}

func readHitbox(r *binreader.Reader, off int) (Hitbox, error) {
	var hb Hitbox
	var err error
	if hb.Bone, err = r.Int32At(off); err != nil {
		return hb, err
	}
	if hb.Group, err = r.Int32At(off + 4); err != nil {
		return hb, err
	}
	if hb.Min, err = readVector(r, off+8); err != nil {
		return hb, err
	}
	if hb.Max, err = readVector(r, off+20); err != nil {
		return hb, err
	}
	nameIdx, err := r.Int32At(off + 32)
	if err != nil {
		return hb, err
	}
	if nameIdx != 0 {
		if hb.Name, err = r.StringAt(off+int(nameIdx), 0); err != nil {
			return hb, err
		}
	}
	return hb, nil
}

func readPoseParams(r *binreader.Reader, h Header) ([]PoseParameter, error) {
	offsets := binreader.Offsets(h.LocalPoseParamIndex, h.LocalPoseParamCount, poseParamRecordSize)
	out := make([]PoseParameter, 0, len(offsets))
	for _, off := range offsets {
		var p PoseParameter
		nameIdx, err := r.Int32At(int(off))
		if err != nil {
			return nil, err
		}
		if p.Name, err = r.StringAt(int(off)+int(nameIdx), 0); err != nil {
			return nil, err
		}
		if p.Start, err = r.Float32At(int(off) + 8); err != nil {
			return nil, err
		}
		if p.End, err = r.Float32At(int(off) + 12); err != nil {
			return nil, err
		}
		if p.Loop, err = r.Float32At(int(off) + 16); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func readAnimations(r *binreader.Reader, h Header, bones []Bone) ([]AnimationDescription, error) {
	offsets := binreader.Offsets(h.LocalAnimationOffset, h.LocalAnimationCount, animDescRecordSize)
	out := make([]AnimationDescription, 0, len(offsets))
	for _, off := range offsets {
		desc, err := readAnimationDescription(r, int(off), bones)
		if err != nil {
			return nil, err
		}
		out = append(out, desc)
	}
	return out, nil
}

func readAnimationDescription(r *binreader.Reader, off int, bones []Bone) (AnimationDescription, error) {
	var desc AnimationDescription

	nameOff, err := r.Int32At(off + 4)
	if err != nil {
		return desc, err
	}
	if desc.Name, err = r.StringAt(off+int(nameOff), 0); err != nil {
		return desc, err
	}
	if desc.FPS, err = r.Float32At(off + 8); err != nil {
		return desc, err
	}
	if desc.FrameCount, err = r.Int32At(off + 16); err != nil {
		return desc, err
	}
	animBlock, err := r.Int32At(off + 52)
	if err != nil {
		return desc, err
	}
	// The animation_block mechanism routes frame data through an external
	// .ani file this core never receives; spec.md §9 calls for surfacing
	// that rather than silently producing a zero-frame animation.
	if animBlock != 0 {
		return desc, srcerr.OutOfBounds("animation_block", animBlock)
	}
	animIndex, err := r.Int32At(off + 56)
	if err != nil {
		return desc, err
	}

	tracks, err := readAnimationChain(r, off+int(animIndex), int(desc.FrameCount), bones)
	if err != nil {
		return desc, err
	}
	desc.Animations = tracks
	return desc, nil
}

const (
	animRawPos  = 0x01
	animRawRot  = 0x02
	animAnimPos = 0x04
	animAnimRot = 0x08
	animDelta   = 0x10
	animRawRot2 = 0x20
)

// readAnimationChain walks the linked list of per-bone animation records
// starting at chainOff, per spec.md §4.D.anim: a 4-byte header
// {bone, flags, next_offset} followed directly by the rotation then
// position payload, with next_offset==0 terminating the chain.
func readAnimationChain(r *binreader.Reader, chainOff int, frameCount int, bones []Bone) ([]Animation, error) {
	var tracks []Animation
	off := chainOff
	visited := make(map[int]struct{}, 8)

	for {
		if _, seen := visited[off]; seen {
			return nil, srcerr.OutOfBounds("animation_chain_cycle", int32(off))
		}
		visited[off] = struct{}{}

		bone, err := r.Uint8At(off)
		if err != nil {
			return nil, err
		}
		flags, err := r.Uint8At(off + 1)
		if err != nil {
			return nil, err
		}
		nextOffset, err := r.Uint16At(off + 2)
		if err != nil {
			return nil, err
		}

		var boneRot mathutil.RadianEuler
		var boneRotScale, bonePosScale mathutil.Vector
		if int(bone) < len(bones) {
			b := bones[bone]
			boneRot = b.Rot
			boneRotScale = b.RotScale
			bonePosScale = b.PosScale
		} else {
			boneRotScale = mathutil.Vector{X: 1, Y: 1, Z: 1}
			bonePosScale = mathutil.Vector{X: 1, Y: 1, Z: 1}
		}

		payloadOff := off + animTrackHeaderSize
		rotations, rotSize, err := readRotationTrack(r, payloadOff, flags, frameCount, boneRot, boneRotScale)
		if err != nil {
			return nil, err
		}
		positions, err := readPositionTrack(r, payloadOff+rotSize, flags, frameCount, bonePosScale)
		if err != nil {
			return nil, err
		}

		tracks = append(tracks, Animation{Bone: bone, Flags: flags, rotation: rotations, position: positions})

		if nextOffset == 0 {
			break
		}
		off = off + int(nextOffset)
	}

	return tracks, nil
}

func readRotationTrack(r *binreader.Reader, off int, flags uint8, frameCount int, restRot mathutil.RadianEuler, rotScale mathutil.Vector) ([]mathutil.Quaternion, int, error) {
	switch {
	case flags&animRawRot != 0:
		b, err := r.ReadAt(off, 6)
		if err != nil {
			return nil, 0, err
		}
		return []mathutil.Quaternion{codec.DecodeQuaternion48(b)}, 6, nil

	case flags&animRawRot2 != 0:
		raw, err := r.Uint64At(off)
		if err != nil {
			return nil, 0, err
		}
		return []mathutil.Quaternion{codec.DecodeQuaternion64(raw)}, 8, nil

	case flags&animAnimRot != 0:
		// Three 16-bit pointers (one per axis), each relative to its own
		// position within this 6-byte mstudioanim_valueptr_t; a pointer
		// value of 0 means that axis is constant zero.
		ptrBase := off
		var ptrs [3]int32
		for i := 0; i < 3; i++ {
			p, err := r.Int16At(ptrBase + i*2)
			if err != nil {
				return nil, 0, err
			}
			if p != 0 {
				ptrs[i] = int32(ptrBase+i*2) + int32(p)
			}
		}

		n := frameCount
		if n < 1 {
			n = 1
		}
		axisVals := [3][]int16{make([]int16, n), make([]int16, n), make([]int16, n)}
		for axis := 0; axis < 3; axis++ {
			if ptrs[axis] == 0 {
				continue
			}
			for f := 0; f < n; f++ {
				v, err := codec.ValueAt(r, ptrs[axis], f)
				if err != nil {
					return nil, 0, err
				}
				axisVals[axis][f] = v
			}
		}

		scale := [3]float32{rotScale.X, rotScale.Y, rotScale.Z}
		out := make([]mathutil.Quaternion, n)
		for f := 0; f < n; f++ {
			a0 := float32(axisVals[0][f]) * scale[0]
			a1 := float32(axisVals[1][f]) * scale[1]
			a2 := float32(axisVals[2][f]) * scale[2]
			// Source-order pointers are (y,z,x); permute to Euler
			// (x,y,z) fields per spec.md §4.D.anim.
			e := mathutil.RadianEuler{X: a1, Y: a2, Z: a0}
			if flags&animDelta != 0 {
				e.X += restRot.X
				e.Y += restRot.Y
				e.Z += restRot.Z
			}
			out[f] = e.ToQuaternion()
		}
		return out, 6, nil

	default:
		return nil, 0, nil
	}
}

func readPositionTrack(r *binreader.Reader, off int, flags uint8, frameCount int, posScale mathutil.Vector) ([]mathutil.Vector, error) {
	switch {
	case flags&animRawPos != 0:
		b, err := r.ReadAt(off, 6)
		if err != nil {
			return nil, err
		}
		return []mathutil.Vector{codec.DecodeVector48(b)}, nil

	case flags&animAnimPos != 0:
		ptrBase := off
		var ptrs [3]int32
		for i := 0; i < 3; i++ {
			p, err := r.Int16At(ptrBase + i*2)
			if err != nil {
				return nil, err
			}
			if p != 0 {
				ptrs[i] = int32(ptrBase+i*2) + int32(p)
			}
		}

		n := frameCount
		if n < 1 {
			n = 1
		}
		out := make([]mathutil.Vector, n)
		for f := 0; f < n; f++ {
			var v mathutil.Vector
			if ptrs[0] != 0 {
				x, err := codec.ValueAt(r, ptrs[0], f)
				if err != nil {
					return nil, err
				}
				v.X = float32(x) * posScale.X
			}
			if ptrs[1] != 0 {
				y, err := codec.ValueAt(r, ptrs[1], f)
				if err != nil {
					return nil, err
				}
				v.Y = float32(y) * posScale.Y
			}
			if ptrs[2] != 0 {
				z, err := codec.ValueAt(r, ptrs[2], f)
				if err != nil {
					return nil, err
				}
				v.Z = float32(z) * posScale.Z
			}
			out[f] = v
		}
		return out, nil

	default:
		return nil, nil
	}
}
