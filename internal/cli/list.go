package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/clippit/animation"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [catalog.yaml]",
	Short: "List the clips in each pool",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, catalog, err := loadCatalog(fileArg(args))
	if err != nil {
		return err
	}
	printClips(cmd.OutOrStdout(), catalog)
	return nil
}

func printClips(out io.Writer, catalog *animation.Catalog) {
	// Calculate column widths
	nameWidth := len("CLIP")
	for _, mode := range []animation.Mode{animation.ModeIdle, animation.ModeActive} {
		for _, clip := range catalog.Pool(mode) {
			nameWidth = max(nameWidth, len(clip.Name))
		}
	}

	fmt.Fprintf(out, "%-6s  %-*s  %6s  %8s\n", "POOL", nameWidth, "CLIP", "FRAMES", "DURATION")
	fmt.Fprintln(out, strings.Repeat("-", 6+2+nameWidth+2+6+2+8))
	for _, mode := range []animation.Mode{animation.ModeIdle, animation.ModeActive} {
		for _, clip := range catalog.Pool(mode) {
			fmt.Fprintf(out, "%-6s  %-*s  %6d  %6dms\n", mode, nameWidth, clip.Name, len(clip.Frames), clip.TotalDuration())
		}
	}
}
