package cli

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/assets"
	"github.com/milk9111/clippit/sprite"
	"github.com/spf13/cobra"
)

const previewSize = 512

var previewCatalog string

var previewCmd = &cobra.Command{
	Use:   "preview <clip>",
	Short: "Play one clip on loop in a window",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewCatalog, "catalog", "", "catalog YAML to read instead of the embedded one")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	spec, catalog, err := loadCatalog(previewCatalog)
	if err != nil {
		return err
	}
	clip, mode, ok := catalog.Lookup(args[0])
	if !ok {
		return fmt.Errorf("no clip named %q", args[0])
	}

	img, err := assets.LoadImage(assets.SheetName(spec.SpriteSheet.Image))
	if err != nil {
		return err
	}
	sheet, err := sprite.NewSheet(img, catalog.Geometry)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(previewSize, previewSize)
	ebiten.SetWindowTitle(fmt.Sprintf("%s (%s, %dms)", clip.Name, mode, clip.TotalDuration()))
	return ebiten.RunGame(&previewGame{sheet: sheet, player: clipPlayer{clip: clip}})
}

// clipPlayer loops a clip on wall-clock milliseconds.
type clipPlayer struct {
	clip    *animation.Clip
	index   int
	elapsed int
}

// advance moves the player forward by dt milliseconds, skipping as many
// frames as dt covers. Zero-duration frames are skipped.
func (p *clipPlayer) advance(dt int) {
	n := len(p.clip.Frames)
	if n == 0 {
		return
	}
	p.elapsed += dt
	for i := 0; i < n && p.elapsed >= p.clip.Frames[p.index].Duration; i++ {
		p.elapsed -= p.clip.Frames[p.index].Duration
		p.index = (p.index + 1) % n
	}
	if p.elapsed >= p.clip.TotalDuration() {
		p.elapsed = 0
	}
}

func (p *clipPlayer) frame() *animation.Frame {
	if len(p.clip.Frames) == 0 {
		return nil
	}
	return &p.clip.Frames[p.index]
}

type previewGame struct {
	sheet  *sprite.Sheet
	player clipPlayer
}

func (g *previewGame) Update() error {
	g.player.advance(1000 / ebiten.TPS())
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	g.sheet.DrawFitted(screen, g.player.frame(), image.Rect(0, 0, previewSize, previewSize))
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return previewSize, previewSize
}
