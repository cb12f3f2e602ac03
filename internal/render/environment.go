// Package render executes theme templates against translated contexts.
package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"sync"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/theme"
	"git.home.luguber.info/inful/themebridge/internal/translate"
)

// PartialsGlob selects the templates shared by every top-level template.
const PartialsGlob = "partials/*.html"

// Environment compiles templates from a theme's layered filesystem. Each top-level
// template gets its own set together with the partials, so templates may define
// blocks with the same names without clashing.
type Environment struct {
	fsys     fs.FS
	partials []string

	mu   sync.Mutex
	sets map[string]*template.Template
}

// NewEnvironment prepares an environment for h.
func NewEnvironment(h *theme.Handle) (*Environment, error) {
	fsys := h.FS()
	partials, err := fs.Glob(fsys, PartialsGlob)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "list theme partials").Build()
	}
	return &Environment{fsys: fsys, partials: partials, sets: map[string]*template.Template{}}, nil
}

// Lookup returns the compiled set for name, compiling it on first use.
func (e *Environment) Lookup(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.sets[name]; ok {
		return t, nil
	}

	src, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "template not found in theme").
			WithContext("template", name).
			Build()
	}
	t, err := template.New(name).Funcs(Funcs()).Parse(string(src))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "parse template").
			WithContext("template", name).
			Build()
	}
	for _, p := range e.partials {
		if p == name {
			continue
		}
		psrc, err := fs.ReadFile(e.fsys, p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryTheme, "read partial").WithContext("template", p).Build()
		}
		if _, err := t.New(p).Parse(string(psrc)); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRender, "parse partial").
				WithContext("template", p).
				Build()
		}
	}
	e.sets[name] = t
	return t, nil
}

// Execute renders name with data into w.
func (e *Environment) Execute(w io.Writer, name string, data *translate.Context) error {
	t, err := e.Lookup(name)
	if err != nil {
		return err
	}
	if err := t.Execute(w, data); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "execute template").
			WithContext("template", name).
			Build()
	}
	return nil
}

// ExecuteString renders name with data and returns the output.
func (e *Environment) ExecuteString(name string, data *translate.Context) (string, error) {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Funcs returns the template functions available to themes.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"url":     URL,
		"tojson":  toJSON,
		"safe":    func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec // theme-marked trusted markup
		"unknown": unknown,
	}
}

// URL resolves target against the page being rendered so it works from the page's
// output directory. Absolute URLs and fragments are returned unchanged.
func URL(c *translate.Context, target string) string {
	if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "#") {
		return target
	}
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}

	base, pageURL := translate.BaseURL, ""
	if c != nil {
		base = c.BaseURL
		if c.Page != nil {
			pageURL = c.Page.URL
		}
	}
	up := strings.Repeat("../", strings.Count(pageURL, "/"))
	out := path.Join(base, up, target)
	if target == "" || strings.HasSuffix(target, "/") {
		out += "/"
	}
	return out
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil //nolint:gosec // json.Marshal output is a valid JS literal
}

func unknown(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case interface{ IsNone() bool }:
		return x.IsNone()
	default:
		return false
	}
}
