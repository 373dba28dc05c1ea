package main

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/common"
	"github.com/milk9111/clippit/dispatch"
	"github.com/milk9111/clippit/history"
	"github.com/milk9111/clippit/reducer"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelColor    = color.NRGBA{R: 0xff, G: 0xfb, B: 0xd0, A: 0xf0}
	buttonColor   = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	buttonHover   = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	buttonOff     = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	questionColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	historyColor  = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xe0}
)

// chatUI is the panel under the sprite: status line, question box and the
// conversation so far.
type chatUI struct {
	ui   *ebitenui.UI
	face ebtext.Face

	status    *widget.Text
	animation *widget.Text
	input     *widget.TextInput
	askBtn    *widget.Button
	copyBtn   *widget.Button
	history   *widget.Container
	slot      *widget.Container

	publish func(dispatch.Event)
	copy    func(string) error

	mode       animation.Mode
	shown      int
	built      bool
	lastAnswer string
	suppress   bool
}

func loadFace() ebtext.Face {
	s, err := ebtext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("ui: font: %v, falling back to basicfont", err)
		return ebtext.NewGoXFace(basicfont.Face7x13)
	}
	return &ebtext.GoTextFace{Source: s, Size: 14}
}

func newChatUI(publish func(dispatch.Event), copyText func(string) error) *chatUI {
	c := &chatUI{
		face:    loadFace(),
		publish: publish,
		copy:    copyText,
	}

	panelImg := imageui.NewNineSliceColor(panelColor)
	btnImg := &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(buttonColor),
		Hover:    imageui.NewNineSliceColor(buttonHover),
		Pressed:  imageui.NewNineSliceColor(buttonColor),
		Disabled: imageui.NewNineSliceColor(buttonOff),
	}
	btnTextColor := &widget.ButtonTextColor{Idle: color.White, Disabled: color.Gray{Y: 200}}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
	stretch := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})

	c.slot = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.SpriteSlot, common.SpriteSlot),
			center,
		),
	)

	c.status = widget.NewText(
		widget.TextOpts.Text(statusLabel(animation.ModeIdle), &c.face, color.Black),
		widget.TextOpts.WidgetOpts(center),
	)
	c.animation = widget.NewText(
		widget.TextOpts.Text("", &c.face, color.Gray{Y: 80}),
		widget.TextOpts.WidgetOpts(center),
	)

	c.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(260, 28), stretch),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     imageui.NewNineSliceColor(color.RGBA{245, 245, 245, 255}),
			Disabled: imageui.NewNineSliceColor(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(&c.face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if c.suppress {
				return
			}
			c.publish(dispatch.QuestionTextChanged{Text: args.InputText})
		}),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			c.ask(args.InputText)
		}),
	)

	c.askBtn = widget.NewButton(
		widget.ButtonOpts.Image(btnImg),
		widget.ButtonOpts.Text("Ask!", &c.face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(80, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			c.ask(c.input.GetText())
		}),
	)

	c.copyBtn = widget.NewButton(
		widget.ButtonOpts.Image(btnImg),
		widget.ButtonOpts.Text("Copy answer", &c.face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 28), center),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if c.lastAnswer == "" || c.copy == nil {
				return
			}
			if err := c.copy(c.lastAnswer); err != nil {
				log.Printf("ui: copy: %v", err)
			}
		}),
	)
	c.copyBtn.GetWidget().Disabled = true

	askRow := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(common.PanelSpacing),
		)),
		widget.ContainerOpts.WidgetOpts(stretch),
	)
	askRow.AddChild(c.input)
	askRow.AddChild(c.askBtn)

	c.history = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(historyColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, common.HistoryHeight),
			stretch,
		),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(common.PanelSpacing),
			widget.RowLayoutOpts.Padding(&widget.Insets{
				Top: common.PanelPadding, Bottom: common.PanelPadding,
				Left: common.PanelPadding, Right: common.PanelPadding,
			}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
		),
	)
	panel.AddChild(c.slot)
	panel.AddChild(c.status)
	panel.AddChild(c.animation)
	panel.AddChild(askRow)
	panel.AddChild(c.copyBtn)
	panel.AddChild(c.history)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	c.ui = &ebitenui.UI{Container: root}
	return c
}

func (c *chatUI) ask(text string) {
	if c.mode == animation.ModeActive || strings.TrimSpace(text) == "" {
		return
	}
	c.publish(dispatch.AskQuestion{Text: text})
}

// apply brings the widgets in line with a reducer snapshot.
func (c *chatUI) apply(snap reducer.Snapshot) {
	active := snap.Mode == animation.ModeActive
	if active && c.mode != animation.ModeActive {
		c.suppress = true
		c.input.SetText(snap.QuestionField)
		c.suppress = false
	}
	c.mode = snap.Mode

	c.status.Label = statusLabel(snap.Mode)
	c.animation.Label = snap.CurrentAnimation
	c.input.GetWidget().Disabled = active
	c.askBtn.GetWidget().Disabled = active

	if !c.built || snap.Answered != c.shown {
		c.rebuildHistory(snap.History)
		c.shown = snap.Answered
		c.built = true
	}
}

func (c *chatUI) rebuildHistory(entries []history.Entry) {
	c.history.RemoveChildren()
	for _, e := range newestFirst(entries) {
		c.history.AddChild(widget.NewText(
			widget.TextOpts.Text(e.Question, &c.face, questionColor),
		))
		c.history.AddChild(widget.NewText(
			widget.TextOpts.Text(e.Answer, &c.face, colornames.Red),
		))
	}
	c.lastAnswer = ""
	if n := len(entries); n > 0 {
		c.lastAnswer = entries[n-1].Answer
	}
	c.copyBtn.GetWidget().Disabled = c.lastAnswer == ""
	c.history.RequestRelayout()
}

// spriteRect is where the character is drawn, in screen pixels.
func (c *chatUI) spriteRect() image.Rectangle {
	return c.slot.GetWidget().Rect
}

func statusLabel(mode animation.Mode) string {
	if mode == animation.ModeActive {
		return "Clippy Active"
	}
	return "Clippy Idle"
}

// newestFirst returns entries in reverse order, leaving the input untouched.
// Entries that would not fit the history box are dropped.
func newestFirst(entries []history.Entry) []history.Entry {
	const maxShown = 8
	out := make([]history.Entry, 0, min(len(entries), maxShown))
	for i := len(entries) - 1; i >= 0 && len(out) < maxShown; i-- {
		out = append(out, entries[i])
	}
	return out
}
