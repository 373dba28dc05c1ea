package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/clippit/sprite"
	"golang.design/x/clipboard"
)

type Game struct {
	app    *App
	ui     *chatUI
	sheet  *sprite.Sheet
	primed bool

	dragging     bool
	dragX, dragY int
}

func NewGame(app *App, sheet *sprite.Sheet) *Game {
	g := &Game{app: app, sheet: sheet}
	g.ui = newChatUI(app.Publish, copyToClipboard())
	return g
}

// copyToClipboard returns nil when no system clipboard is available, which
// leaves the copy button inert.
func copyToClipboard() func(string) error {
	if err := clipboard.Init(); err != nil {
		return nil
	}
	return func(s string) error {
		clipboard.Write(clipboard.FmtText, []byte(s))
		return nil
	}
}

func (g *Game) Update() error {
	if err := g.app.Err(); err != nil {
		return err
	}

	if g.app.redraw.Consume() || !g.primed {
		g.ui.apply(g.app.Snapshot())
		g.primed = true
	}
	g.ui.ui.Update()
	g.dragWindow()

	return nil
}

// dragWindow moves the undecorated window while the sprite is held.
func (g *Game) dragWindow() {
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		rect := g.ui.spriteRect()
		g.dragging = rect.Min.X <= x && x < rect.Max.X && rect.Min.Y <= y && y < rect.Max.Y
		g.dragX, g.dragY = x, y
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
		return
	}
	if !g.dragging || (x == g.dragX && y == g.dragY) {
		return
	}
	wx, wy := ebiten.WindowPosition()
	ebiten.SetWindowPosition(wx+x-g.dragX, wy+y-g.dragY)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Transparent)
	g.ui.ui.Draw(screen)
	g.sheet.DrawFitted(screen, g.app.Playback().Frame, g.ui.spriteRect())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
