// Package animation holds the clip catalog and the scheduler that plays it.
package animation

import (
	"errors"
	"fmt"
)

// Catalog validation errors. Catalog.Validate and Geometry.Validate wrap these
// with the offending clip or dimensions.
var (
	// ErrEmptyPool means the idle or active pool has no clips, or there is no
	// catalog at all.
	ErrEmptyPool = errors.New("animation: empty clip pool")
	// ErrEmptyClip means a clip lists no frames.
	ErrEmptyClip = errors.New("animation: clip has no frames")
	// ErrDuplicateClip means two clips share a name.
	ErrDuplicateClip = errors.New("animation: duplicate clip name")
	// ErrInvalidFrame means a frame has a negative duration or a cell
	// outside the grid.
	ErrInvalidFrame = errors.New("animation: invalid frame")
	// ErrInvalidGeometry means the grid has no columns or no rows.
	ErrInvalidGeometry = errors.New("animation: invalid sprite sheet geometry")
	// ErrNonTilingSheet means the image size is not a whole multiple of the grid.
	ErrNonTilingSheet = errors.New("animation: sprite sheet does not tile")
)

// Frame is one sprite sheet cell shown for Duration milliseconds.
type Frame struct {
	Duration int
	Row      int
	Column   int
}

// Clip is a named, ordered run of frames.
type Clip struct {
	Name   string
	Frames []Frame
}

// TotalDuration returns the sum of the frame durations in milliseconds.
func (c *Clip) TotalDuration() int {
	total := 0
	for _, f := range c.Frames {
		total += f.Duration
	}
	return total
}

// Catalog is the immutable set of clips a character can play, split into the
// idle and active pools. Once built it is shared read-only by every scheduler.
type Catalog struct {
	Idle     []Clip
	Active   []Clip
	Geometry Geometry
}

// NewCatalog validates the pools and geometry and returns the catalog.
func NewCatalog(idle, active []Clip, geometry Geometry) (*Catalog, error) {
	c := &Catalog{Idle: idle, Active: active, Geometry: geometry}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first configuration error in the catalog.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", ErrEmptyPool)
	}
	if err := c.Geometry.validate(); err != nil {
		return err
	}
	for _, mode := range []Mode{ModeIdle, ModeActive} {
		pool := c.Pool(mode)
		if len(pool) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyPool, mode)
		}
		seen := make(map[string]struct{}, len(pool))
		for _, clip := range pool {
			if _, ok := seen[clip.Name]; ok {
				return fmt.Errorf("%w: %s pool has %q twice", ErrDuplicateClip, mode, clip.Name)
			}
			seen[clip.Name] = struct{}{}
			if len(clip.Frames) == 0 {
				return fmt.Errorf("%w: %s/%q", ErrEmptyClip, mode, clip.Name)
			}
			for i, f := range clip.Frames {
				if f.Duration < 0 || f.Row < 0 || f.Column < 0 {
					return fmt.Errorf("%w: %s/%q frame %d", ErrInvalidFrame, mode, clip.Name, i)
				}
				if f.Row >= c.Geometry.Rows || f.Column >= c.Geometry.Columns {
					return fmt.Errorf("%w: %s/%q frame %d cell (%d,%d) outside %dx%d grid",
						ErrInvalidFrame, mode, clip.Name, i, f.Row, f.Column, c.Geometry.Rows, c.Geometry.Columns)
				}
			}
		}
	}
	return nil
}

// Pool returns the clips used in the given mode.
func (c *Catalog) Pool(mode Mode) []Clip {
	if mode == ModeActive {
		return c.Active
	}
	return c.Idle
}

// Lookup finds a clip by name in either pool, idle first.
func (c *Catalog) Lookup(name string) (*Clip, Mode, bool) {
	if c == nil || name == "" {
		return nil, ModeIdle, false
	}
	for _, mode := range []Mode{ModeIdle, ModeActive} {
		pool := c.Pool(mode)
		for i := range pool {
			if pool[i].Name == name {
				return &pool[i], mode, true
			}
		}
	}
	return nil, ModeIdle, false
}
