package vtx

import "testing"

// spec.md §8 property 8: TRI_STRIP {0,1,2,3} yields [0,1,2], [2,1,3].
func TestTriStripSeedExpansion(t *testing.T) {
	s := Strip{IndexOffset: 0, IndexCount: 4, Flags: FlagTriStrip}
	got := s.Triangles()
	want := []int32{0, 1, 2, 2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Triangles() = %v, want %v", got, want)
		}
	}
}

// spec.md §8 property 3: TRI_STRIP triangle index count == 3*max(0, count-2).
func TestTriStripIndexCount(t *testing.T) {
	cases := []int32{0, 1, 2, 3, 4, 10}
	for _, count := range cases {
		s := Strip{IndexOffset: 0, IndexCount: count, Flags: FlagTriStrip}
		got := len(s.Triangles())
		want := 3 * maxInt(0, int(count-2))
		if got != want {
			t.Fatalf("count=%d: len(Triangles()) = %d, want %d", count, got, want)
		}
	}
}

// spec.md §8 property 4: TRI_LIST triangle index count == 3*(count/3).
func TestTriListIndexCount(t *testing.T) {
	cases := []int32{0, 1, 2, 3, 4, 9, 10}
	for _, count := range cases {
		s := Strip{IndexOffset: 0, IndexCount: count, Flags: FlagTriList}
		got := len(s.Triangles())
		want := 3 * (int(count) / 3)
		if got != want {
			t.Fatalf("count=%d: len(Triangles()) = %d, want %d", count, got, want)
		}
	}
}

func TestTriListOffsetIsApplied(t *testing.T) {
	s := Strip{IndexOffset: 100, IndexCount: 3, Flags: FlagTriList}
	got := s.Triangles()
	want := []int32{100, 101, 102}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Triangles() = %v, want %v", got, want)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
