package core

import "testing"

func TestPointerToCell(t *testing.T) {
	offset := Box{X: 100, Y: 50, W: 400, H: 300}

	tests := []struct {
		name       string
		x, y       float64
		box        Box
		bw, bh     int
		rows, cols int
		expected   int
		ok         bool
	}{
		{"centre of half-size display", 200, 150, Box{W: 400, H: 300}, 800, 600, 3, 4, 6, true},
		{"offset box top-left cell", 101, 51, offset, 800, 600, 3, 4, 0, true},
		{"last cell", 499, 349, offset, 800, 600, 3, 4, 11, true},
		{"terminal half-blocks", 10, 7, Box{W: 30, H: 12}, 30, 24, 3, 3, 4, true},
		{"left of box", 99, 100, offset, 800, 600, 3, 4, -1, false},
		{"right edge is outside", 500, 100, offset, 800, 600, 3, 4, -1, false},
		{"below box", 200, 351, offset, 800, 600, 3, 4, -1, false},
		{"zero-size box", 0, 0, Box{}, 800, 600, 3, 4, -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, ok := PointerToCell(tc.x, tc.y, tc.box, tc.bw, tc.bh, tc.rows, tc.cols)
			if ok != tc.ok || pos != tc.expected {
				t.Errorf("PointerToCell(%v, %v) = (%d, %v), expected (%d, %v)",
					tc.x, tc.y, pos, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestCellOfMatchesIntegerBoundaries(t *testing.T) {
	for _, size := range []int{24, 60, 97, 100, 601} {
		for n := 2; n <= 5; n++ {
			for x := 0; x < size; x++ {
				c := cellOf(x, size, n)
				lo, hi := c*size/n, (c+1)*size/n
				if x < lo || x >= hi {
					t.Fatalf("size %d n %d: pixel %d mapped to cell %d spanning [%d, %d)", size, n, x, c, lo, hi)
				}
			}
		}
	}
}

func TestPointerToCellUnevenSurface(t *testing.T) {
	// 97 pixels split in three: [0,32) [32,64) [64,97)
	box := Box{W: 97, H: 97}
	tests := []struct {
		x        float64
		expected int
	}{
		{31, 0},
		{32, 1},
		{63, 1},
		{64, 2},
		{96.5, 2},
	}
	for _, tc := range tests {
		pos, ok := PointerToCell(tc.x, 0, box, 97, 97, 3, 3)
		if !ok || pos != tc.expected {
			t.Errorf("PointerToCell(%v, 0) = (%d, %v), expected (%d, true)", tc.x, pos, ok, tc.expected)
		}
	}
}
