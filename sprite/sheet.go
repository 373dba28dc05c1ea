// Package sprite draws catalog frames out of a sprite sheet.
package sprite

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clippit/animation"
)

// Sheet is a sprite sheet cut into a uniform grid of cells.
type Sheet struct {
	img    *ebiten.Image
	geom   animation.Geometry
	frameW int
	frameH int
	cells  map[image.Point]*ebiten.Image
}

// NewSheet checks that geom tiles img exactly.
func NewSheet(img *ebiten.Image, geom animation.Geometry) (*Sheet, error) {
	b := img.Bounds()
	if err := geom.Validate(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	fw, fh := geom.CellSize(b.Dx(), b.Dy())
	return &Sheet{
		img:    img,
		geom:   geom,
		frameW: fw,
		frameH: fh,
		cells:  make(map[image.Point]*ebiten.Image),
	}, nil
}

// Size returns the frame width/height.
func (s *Sheet) Size() (int, int) { return s.frameW, s.frameH }

// Cell returns the sub-image for frame. Sub-images are cached per cell.
func (s *Sheet) Cell(frame animation.Frame) *ebiten.Image {
	key := image.Pt(frame.Column, frame.Row)
	if sub, ok := s.cells[key]; ok {
		return sub
	}
	b := s.img.Bounds()
	r := s.geom.FrameRect(frame, b.Dx(), b.Dy()).Add(b.Min)
	sub := s.img.SubImage(r).(*ebiten.Image)
	s.cells[key] = sub
	return sub
}

// Draw draws frame onto dst. A nil frame draws nothing. If op is nil a new
// DrawImageOptions is used.
func (s *Sheet) Draw(dst *ebiten.Image, frame *animation.Frame, op *ebiten.DrawImageOptions) {
	if s == nil || frame == nil {
		return
	}
	var dop ebiten.DrawImageOptions
	if op != nil {
		dop = *op
	}
	dop.Filter = ebiten.FilterNearest
	dst.DrawImage(s.Cell(*frame), &dop)
}

// DrawFitted draws frame scaled to fit inside rect, keeping its aspect ratio
// and centering it.
func (s *Sheet) DrawFitted(dst *ebiten.Image, frame *animation.Frame, rect image.Rectangle) {
	if s == nil || frame == nil || rect.Empty() {
		return
	}
	scale, x, y := Fit(s.frameW, s.frameH, rect)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	s.Draw(dst, frame, op)
}

// Fit returns the uniform scale and top-left offset that place a w×h cell
// centered inside rect.
func Fit(w, h int, rect image.Rectangle) (scale, x, y float64) {
	if w <= 0 || h <= 0 {
		return 0, float64(rect.Min.X), float64(rect.Min.Y)
	}
	sx := float64(rect.Dx()) / float64(w)
	sy := float64(rect.Dy()) / float64(h)
	scale = min(sx, sy)
	x = float64(rect.Min.X) + (float64(rect.Dx())-float64(w)*scale)/2
	y = float64(rect.Min.Y) + (float64(rect.Dy())-float64(h)*scale)/2
	return scale, x, y
}
