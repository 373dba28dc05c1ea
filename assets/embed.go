package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// SheetFile is the default assistant sprite sheet.
const SheetFile = "clippit.png"

// Dir is the on-disk asset directory checked before the embedded copies.
var Dir = "assets"

// SheetName returns name, or SheetFile when a catalog does not name a sheet.
func SheetName(name string) string {
	if name == "" {
		return SheetFile
	}
	return name
}

//go:embed *.png
var assetsFS embed.FS

// LoadImage loads an embedded asset by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

// DecodeImage decodes an embedded image without handing it to the GPU.
func DecodeImage(path string) (image.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return img, nil
}

// Size reports the pixel dimensions of an image asset from its header.
func Size(path string) (int, int, error) {
	b, err := LoadFile(path)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return 0, 0, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// LoadFile loads an asset by assets-relative path, preferring a copy under
// Dir on disk.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if b, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return b, nil
	}
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return b, nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
