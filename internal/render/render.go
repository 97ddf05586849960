// Package render is the template service plugin generators use to produce
// file bodies. Templates are text/template with a small helper set; parsed
// templates are cached per renderer.
package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"sync"
	"text/template"
)

// Renderer handles template parsing and rendering with caching.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// New creates a renderer with the built-in helper functions.
func New() *Renderer {
	return &Renderer{
		funcMap: FuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// String renders a template given as text. The name is used for caching and
// error messages.
func (r *Renderer) String(name, text string, data any) (string, error) {
	tmpl, err := r.load("string:"+name, func() (*template.Template, error) {
		return template.New(name).Funcs(r.funcMap).Parse(text)
	})
	if err != nil {
		return "", err
	}
	return r.execute(tmpl, data)
}

// FS renders the template at path in fsys, typically an embed.FS.
func (r *Renderer) FS(fsys fs.FS, path string, data any) (string, error) {
	key := "fs:" + path
	tmpl, err := r.load(key, func() (*template.Template, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return template.New(path).Funcs(r.funcMap).Parse(string(b))
	})
	if err != nil {
		return "", err
	}
	return r.execute(tmpl, data)
}

// ClearCache clears the template cache.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) load(key string, parse func() (*template.Template, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", key, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
