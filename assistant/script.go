package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/clippit/prefabs"
)

var ErrNoAnswer = errors.New("assistant: script did not set answer")

// ScriptResponder answers by running a tengo script. The script sees the
// question in the global `question` and must leave its reply in `answer`.
type ScriptResponder struct {
	name   string
	load   func(string) ([]byte, error)
	logger *log.Logger

	mu       sync.RWMutex
	compiled *tengo.Compiled
}

// NewScriptResponder compiles the named script. load defaults to
// prefabs.LoadScript.
func NewScriptResponder(name string, load func(string) ([]byte, error), logger *log.Logger) (*ScriptResponder, error) {
	if load == nil {
		load = prefabs.LoadScript
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &ScriptResponder{name: name, load: load, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Name is the script the responder was built from.
func (r *ScriptResponder) Name() string {
	return r.name
}

// Reload recompiles the script. On failure the previous build stays in use.
func (r *ScriptResponder) Reload() error {
	src, err := r.load(r.name)
	if err != nil {
		return fmt.Errorf("assistant: load %s: %w", r.name, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add("question", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("assistant: compile %s: %w", r.name, err)
	}

	r.mu.Lock()
	r.compiled = compiled
	r.mu.Unlock()
	return nil
}

func (r *ScriptResponder) Respond(ctx context.Context, question string) (string, error) {
	r.mu.RLock()
	compiled := r.compiled.Clone()
	r.mu.RUnlock()

	if err := compiled.Set("question", question); err != nil {
		return "", err
	}
	if err := compiled.RunContext(ctx); err != nil {
		return "", fmt.Errorf("assistant: run %s: %w", r.name, err)
	}
	if !compiled.IsDefined("answer") {
		return "", ErrNoAnswer
	}
	return compiled.Get("answer").String(), nil
}

// Watch reloads the script whenever a path with the same base name arrives on
// changes. It returns when changes is closed or ctx is done.
func (r *ScriptResponder) Watch(ctx context.Context, changes <-chan string) error {
	base := filepath.Base(r.name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			if filepath.Base(path) != base {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Printf("assistant: reload: %v", err)
				continue
			}
			r.logger.Printf("assistant: reloaded %s", base)
		}
	}
}
