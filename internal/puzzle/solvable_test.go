package puzzle

import "testing"

// arrange places tiles so that position i holds the tile whose home is homes[i].
func arrange(p *Instance, homes []int) {
	for pos, home := range homes {
		p.tiles[home].Current = pos
		p.occupant[pos] = home
		if home == p.emptyIdx {
			p.emptyPos = pos
		}
	}
}

func TestShuffledIsAlwaysSolvable(t *testing.T) {
	grids := []Grid{{2, 2}, {3, 3}, {3, 4}, {4, 4}, {4, 3}}
	for _, g := range grids {
		for seed := int64(0); seed < 25; seed++ {
			inst, err := Initialize(g, g.Size()-1, 150, newRand(seed))
			if err != nil {
				t.Fatalf("Initialize(%v) failed: %v", g, err)
			}
			if !inst.IsSolvable() {
				t.Errorf("%v seed %d: random walk produced an unsolvable board", g, seed)
			}
		}
	}
}

func TestIsSolvableDetectsSwappedPair(t *testing.T) {
	tests := []struct {
		name  string
		grid  Grid
		empty int
		homes []int
		want  bool
	}{
		{
			name:  "solved 4x4",
			grid:  Grid{Rows: 4, Cols: 4},
			empty: 15,
			homes: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			want:  true,
		},
		{
			name:  "classic 14-15 swap",
			grid:  Grid{Rows: 4, Cols: 4},
			empty: 15,
			homes: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 13, 15},
			want:  false,
		},
		{
			name:  "one slide left on 3x3",
			grid:  Grid{Rows: 3, Cols: 3},
			empty: 8,
			homes: []int{0, 1, 2, 3, 4, 5, 6, 8, 7},
			want:  true,
		},
		{
			name:  "swapped pair on 3x4",
			grid:  Grid{Rows: 3, Cols: 4},
			empty: 11,
			homes: []int{1, 0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			want:  false,
		},
		{
			name:  "empty home in the middle",
			grid:  Grid{Rows: 3, Cols: 3},
			empty: 4,
			homes: []int{0, 1, 2, 4, 3, 5, 6, 7, 8},
			want:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inst, err := New(tc.grid, tc.empty)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			arrange(inst, tc.homes)
			if got := inst.IsSolvable(); got != tc.want {
				t.Errorf("IsSolvable() = %v, want %v", got, tc.want)
			}
		})
	}
}
