package animation

import (
	"fmt"
	"image"
)

// Geometry is the grid a sprite sheet is cut into.
type Geometry struct {
	Columns int
	Rows    int
}

func (g Geometry) validate() error {
	if g.Columns <= 0 || g.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, g.Columns, g.Rows)
	}
	return nil
}

// Validate checks that a sheet of the given pixel size splits evenly into the
// grid.
func (g Geometry) Validate(sheetW, sheetH int) error {
	if err := g.validate(); err != nil {
		return err
	}
	if sheetW < g.Columns || sheetH < g.Rows || sheetW%g.Columns != 0 || sheetH%g.Rows != 0 {
		return fmt.Errorf("%w: %dx%d px into %d columns, %d rows", ErrNonTilingSheet, sheetW, sheetH, g.Columns, g.Rows)
	}
	return nil
}

// CellSize returns the pixel size of one cell of a sheetW x sheetH sheet.
func (g Geometry) CellSize(sheetW, sheetH int) (int, int) {
	if g.Columns <= 0 || g.Rows <= 0 {
		return 0, 0
	}
	return sheetW / g.Columns, sheetH / g.Rows
}

// FrameRect returns the sub-rectangle of the sheet that holds f.
func (g Geometry) FrameRect(f Frame, sheetW, sheetH int) image.Rectangle {
	w, h := g.CellSize(sheetW, sheetH)
	x := f.Column * w
	y := f.Row * h
	return image.Rect(x, y, x+w, y+h)
}
