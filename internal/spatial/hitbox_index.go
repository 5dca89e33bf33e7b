// Package spatial provides a spatial index over a model's hitboxes
// (spec.md §3 supplement, SPEC_FULL.md §2.I), so downstream hit-testing
// (melee/projectile collision) doesn't need a linear scan over every
// hitbox on every bone. Grounded on beetlebugorg-s57's pkg/s57.ChartIndex:
// a Bounds() rtreego.Rect method on the indexed element, a struct wrapping
// *rtreego.Rtree, and a Query method doing SearchIntersect plus a tie-break
// sort — the same shape here, in three dimensions instead of two.
package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"srcmdl/internal/mathutil"
	"srcmdl/internal/mdl"
)

const dimensions = 3

// Entry is one indexed hitbox: its owning set/bone plus the axis-aligned
// box it occupies in bone-local space.
type Entry struct {
	SetIndex   int
	BoxIndex   int
	Bone       int32
	Group      int32
	Name       string
	Min, Max   mathutil.Vector
}

// Bounds implements rtreego.Spatial.
func (e Entry) Bounds() rtreego.Rect {
	point := rtreego.Point{float64(e.Min.X), float64(e.Min.Y), float64(e.Min.Z)}
	lengths := make([]float64, dimensions)
	lengths[0] = nonZero(float64(e.Max.X - e.Min.X))
	lengths[1] = nonZero(float64(e.Max.Y - e.Min.Y))
	lengths[2] = nonZero(float64(e.Max.Z - e.Min.Z))
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// nonZero guards against rtreego.NewRect rejecting a degenerate
// (zero-volume) box, which a hitbox flattened onto a single plane would
// otherwise produce.
func nonZero(v float64) float64 {
	if v <= 0 {
		return 1e-6
	}
	return v
}

// HitboxIndex answers "which hitboxes occupy this region" queries over
// every hitbox set in a parsed Mdl.
type HitboxIndex struct {
	entries []Entry
	rtree   *rtreego.Rtree
}

// NewHitboxIndex builds an index over every hitbox in every set of m.
func NewHitboxIndex(m *mdl.Mdl) *HitboxIndex {
	rtree := rtreego.NewTree(dimensions, 4, 16)
	idx := &HitboxIndex{rtree: rtree}

	for si, set := range m.HitboxSets {
		for bi, hb := range set.Hitboxes {
			e := Entry{
				SetIndex: si,
				BoxIndex: bi,
				Bone:     hb.Bone,
				Group:    hb.Group,
				Name:     hb.Name,
				Min:      hb.Min,
				Max:      hb.Max,
			}
			idx.entries = append(idx.entries, e)
			rtree.Insert(e)
		}
	}
	return idx
}

// Query returns every hitbox whose box intersects the axis-aligned region
// [min, max], sorted by (SetIndex, BoxIndex) for deterministic output.
func (idx *HitboxIndex) Query(min, max mathutil.Vector) []Entry {
	point := rtreego.Point{float64(min.X), float64(min.Y), float64(min.Z)}
	lengths := []float64{
		nonZero(float64(max.X - min.X)),
		nonZero(float64(max.Y - min.Y)),
		nonZero(float64(max.Z - min.Z)),
	}
	rect, _ := rtreego.NewRect(point, lengths)

	spatials := idx.rtree.SearchIntersect(rect)
	out := make([]Entry, 0, len(spatials))
	for _, sp := range spatials {
		out = append(out, sp.(Entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SetIndex != out[j].SetIndex {
			return out[i].SetIndex < out[j].SetIndex
		}
		return out[i].BoxIndex < out[j].BoxIndex
	})
	return out
}

// Count returns the total number of indexed hitboxes.
func (idx *HitboxIndex) Count() int {
	return len(idx.entries)
}
