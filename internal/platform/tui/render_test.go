package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHalfBlockRuns(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := range 4 {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	// Break the run in the last column.
	img.SetRGBA(3, 1, red)

	runs := halfBlockRuns(img, 0)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, expected 2: %+v", len(runs), runs)
	}
	if runs[0].n != 3 || runs[0].colors != (cellColors{red, blue}) {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].n != 1 || runs[1].colors != (cellColors{red, red}) {
		t.Errorf("second run = %+v", runs[1])
	}
}

func TestHalfBlockRunsOddHeight(t *testing.T) {
	green := color.RGBA{0, 255, 0, 255}
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.SetRGBA(0, 2, green)
	img.SetRGBA(1, 2, green)

	runs := halfBlockRuns(img, 1)
	if len(runs) != 1 || runs[0].colors != (cellColors{green, green}) || runs[0].n != 2 {
		t.Errorf("last row runs = %+v, expected one green run repeated into the bottom half", runs)
	}
}

func TestRenderImageShape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 7, 5))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}

	out := RenderImage(nil, img)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected 3 for 5 pixel rows", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 7 {
			t.Errorf("line %d is %d cells wide, expected 7", i, w)
		}
		if n := strings.Count(line, string(halfBlock)); n != 7 {
			t.Errorf("line %d has %d half blocks, expected 7", i, n)
		}
	}
}
