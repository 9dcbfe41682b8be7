// Package assets resolves model names to decoded sprites. Loading happens in
// the background; until a model is ready callers draw a placeholder.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//go:embed models/*.png
var ModelsFS embed.FS

// Dir is checked before the embedded copy so artists can drop in new files.
var Dir = "assets"

// Library implements the asset provider port. Convert turns a decoded image
// into whatever the renderer draws; the viewer sets it to build GPU images.
type Library struct {
	Convert func(image.Image) any

	mu      sync.RWMutex
	ready   map[string]any
	pending map[string]bool
	failed  map[string]error
	wg      sync.WaitGroup
}

func NewLibrary(convert func(image.Image) any) *Library {
	if convert == nil {
		convert = func(img image.Image) any { return img }
	}
	return &Library{
		Convert: convert,
		ready:   make(map[string]any),
		pending: make(map[string]bool),
		failed:  make(map[string]error),
	}
}

// Resolve returns the loaded template for model. A model that is not ready
// yet starts loading and reports false.
func (l *Library) Resolve(model string) (any, bool) {
	if l == nil || model == "" {
		return nil, false
	}
	key := cleanModelName(model)
	l.mu.RLock()
	tmpl, ok := l.ready[key]
	_, failed := l.failed[key]
	l.mu.RUnlock()
	if ok {
		return tmpl, true
	}
	if !failed {
		l.Preload(key)
	}
	return nil, false
}

// Preload starts loading models in the background.
func (l *Library) Preload(models ...string) {
	for _, m := range models {
		key := cleanModelName(m)
		l.mu.Lock()
		_, done := l.ready[key]
		_, failed := l.failed[key]
		busy := l.pending[key]
		if done || failed || busy {
			l.mu.Unlock()
			continue
		}
		l.pending[key] = true
		l.mu.Unlock()

		l.wg.Add(1)
		go l.load(key)
	}
}

// Wait blocks until every started load finished.
func (l *Library) Wait() {
	l.wg.Wait()
}

func (l *Library) Err(model string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.failed[cleanModelName(model)]
}

func (l *Library) load(key string) {
	defer l.wg.Done()
	img, err := LoadImage(key + ".png")

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, key)
	if err != nil {
		l.failed[key] = err
		log.Warn("model unavailable, using placeholder", "model", key, "err", err)
		return
	}
	l.ready[key] = l.Convert(img)
	log.Debug("model loaded", "model", key)
}

// Models lists the bundled model names.
func Models() []string {
	entries, err := fs.ReadDir(ModelsFS, "models")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return out
}

// LoadImage decodes a model image, preferring a disk copy under Dir.
func LoadImage(name string) (image.Image, error) {
	b, err := LoadFile(name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return img, nil
}

func LoadFile(name string) ([]byte, error) {
	rel := path.Join("models", path.Base(name))
	if b, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return b, nil
	}
	b, err := ModelsFS.ReadFile(rel)
	if err != nil {
		return nil, fmt.Errorf("assets: %s: %w", name, err)
	}
	return b, nil
}

func cleanModelName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(path.Base(name), ".png")
}
