package sprite

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clippit/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSheet(t *testing.T) {
	_, err := NewSheet(ebiten.NewImage(250, 256), animation.Geometry{Columns: 4, Rows: 4})
	assert.ErrorIs(t, err, animation.ErrNonTilingSheet)

	s, err := NewSheet(ebiten.NewImage(256, 128), animation.Geometry{Columns: 4, Rows: 2})
	require.NoError(t, err)
	w, h := s.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)

	cell := s.Cell(animation.Frame{Row: 1, Column: 2})
	assert.Equal(t, image.Rect(128, 64, 192, 128), cell.Bounds())
	assert.Same(t, cell, s.Cell(animation.Frame{Row: 1, Column: 2, Duration: 99}))
}

func TestFit(t *testing.T) {
	cases := []struct {
		name        string
		w, h        int
		rect        image.Rectangle
		scale, x, y float64
	}{
		{"square_into_square", 64, 64, image.Rect(0, 0, 128, 128), 2, 0, 0},
		{"square_into_wide", 64, 64, image.Rect(10, 20, 210, 120), 100.0 / 64, 60, 20},
		{"tall_into_square", 32, 64, image.Rect(0, 0, 64, 64), 1, 16, 0},
		{"degenerate", 0, 64, image.Rect(5, 6, 10, 10), 0, 5, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scale, x, y := Fit(c.w, c.h, c.rect)
			assert.InDelta(t, c.scale, scale, 1e-9)
			assert.InDelta(t, c.x, x, 1e-9)
			assert.InDelta(t, c.y, y, 1e-9)
		})
	}
}
