package cli

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/milk9111/clippit/assets"
	"github.com/spf13/cobra"
)

var checkSheet string

var checkCmd = &cobra.Command{
	Use:   "check [catalog.yaml]",
	Short: "Validate a catalog and the sheet it slices",
	Long: `Loads the catalog, validates both pools and every frame, and checks that
the catalog grid tiles the sprite sheet exactly.

The sheet defaults to the image the catalog names (clippit.png when it names
none); pass --sheet to check a PNG on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkSheet, "sheet", "", "sprite sheet PNG to check the grid against")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	spec, catalog, err := loadCatalog(fileArg(args))
	if err != nil {
		return err
	}

	w, h, err := sheetSize(checkSheet, spec.SpriteSheet.Image)
	if err != nil {
		return err
	}
	if err := catalog.Geometry.Validate(w, h); err != nil {
		return fmt.Errorf("sheet %dx%d: %w", w, h, err)
	}
	fw, fh := catalog.Geometry.CellSize(w, h)

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d idle clips, %d active clips, sheet %dx%d, cell %dx%d\n",
		len(catalog.Idle), len(catalog.Active), w, h, fw, fh)
	return nil
}

// sheetSize measures the sheet at path, or the asset the catalog names when
// path is empty.
func sheetSize(path, catalogImage string) (int, int, error) {
	if path == "" {
		return assets.Size(assets.SheetName(catalogImage))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read sheet: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode sheet: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
