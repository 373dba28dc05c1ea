package prefabs

import (
	"fmt"

	"github.com/milk9111/clippit/animation"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the default animation catalog prefab.
const CatalogFile = "animations.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CatalogSpec is the on-disk shape of an animation catalog.
type CatalogSpec struct {
	SpriteSheet SpriteSheetSpec `yaml:"sprite_sheet_info"`
	Animations  AnimationSets   `yaml:"animations"`
}

type SpriteSheetSpec struct {
	Image   string `yaml:"image"`
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
}

type AnimationSets struct {
	Idle   []ClipSpec `yaml:"idle"`
	Action []ClipSpec `yaml:"action"`
}

type ClipSpec struct {
	Name   string      `yaml:"name"`
	Frames []FrameSpec `yaml:"frames"`
}

type FrameSpec struct {
	Duration int           `yaml:"duration"`
	Info     FrameInfoSpec `yaml:"info"`
}

type FrameInfoSpec struct {
	Column int `yaml:"column"`
	Row    int `yaml:"row"`
}

// Catalog converts the spec into a validated animation catalog.
func (s CatalogSpec) Catalog() (*animation.Catalog, error) {
	geometry := animation.Geometry{Columns: s.SpriteSheet.Columns, Rows: s.SpriteSheet.Rows}
	c, err := animation.NewCatalog(clips(s.Animations.Idle), clips(s.Animations.Action), geometry)
	if err != nil {
		return nil, fmt.Errorf("prefabs: catalog: %w", err)
	}
	return c, nil
}

func clips(specs []ClipSpec) []animation.Clip {
	out := make([]animation.Clip, 0, len(specs))
	for _, cs := range specs {
		frames := make([]animation.Frame, 0, len(cs.Frames))
		for _, fs := range cs.Frames {
			frames = append(frames, animation.Frame{
				Duration: fs.Duration,
				Row:      fs.Info.Row,
				Column:   fs.Info.Column,
			})
		}
		out = append(out, animation.Clip{Name: cs.Name, Frames: frames})
	}
	return out
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*CatalogSpec, *animation.Catalog, error) {
	var spec CatalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, nil, fmt.Errorf("prefabs: unmarshal catalog: %w", err)
	}
	c, err := spec.Catalog()
	if err != nil {
		return nil, nil, err
	}
	return &spec, c, nil
}

// LoadCatalog loads and validates a catalog prefab by name.
func LoadCatalog(name string) (*CatalogSpec, *animation.Catalog, error) {
	spec, err := LoadSpec[CatalogSpec](name)
	if err != nil {
		return nil, nil, err
	}
	c, err := spec.Catalog()
	if err != nil {
		return nil, nil, err
	}
	return &spec, c, nil
}
