// Package cli implements clipctl, the developer tool for animation catalogs.
package cli

import (
	"fmt"
	"os"

	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/prefabs"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "Inspect and preview clippit animation catalogs",
	Long: `clipctl loads the animation catalog the assistant plays from, checks it
against a sprite sheet, lists its clips and previews a single clip.

Without a file argument the embedded catalog is used.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("clipctl version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadCatalog reads a catalog from path, or the embedded default when path
// is empty.
func loadCatalog(path string) (*prefabs.CatalogSpec, *animation.Catalog, error) {
	if path == "" {
		return prefabs.LoadCatalog(prefabs.CatalogFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return prefabs.ParseCatalog(data)
}

func fileArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
