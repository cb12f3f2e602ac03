package theme

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/themecfg"
)

// ConfigFile is the per-theme declaration file.
const ConfigFile = "mkdocs_theme.yml"

// Layer is one template search directory.
type Layer struct {
	// Source names the layer in logs: a directory path or "embedded:<theme>".
	Source string
	FS     fs.FS
}

// Handle is a loaded theme.
type Handle struct {
	Name            string
	Version         string
	Defaults        themecfg.Options
	StaticTemplates []string
	Layers          []Layer
}

// Dirs returns the layer sources in lookup order.
func (h *Handle) Dirs() []string {
	out := make([]string, len(h.Layers))
	for i, l := range h.Layers {
		out[i] = l.Source
	}
	return out
}

// FS returns a filesystem over all layers; the first layer holding a path wins.
func (h *Handle) FS() fs.FS {
	fss := make(layeredFS, len(h.Layers))
	for i, l := range h.Layers {
		fss[i] = l.FS
	}
	return fss
}

// WithOverrideDir returns a copy of h with dir searched before the theme's own layers.
func (h *Handle) WithOverrideDir(dir string) *Handle {
	out := *h
	out.Layers = append([]Layer{{Source: dir, FS: os.DirFS(dir)}}, h.Layers...)
	return &out
}

// NewestTemplateMtime returns the newest modification time of any .html file
// across the layers. Embedded layers report the zero time.
func (h *Handle) NewestTemplateMtime() time.Time {
	var newest time.Time
	for _, l := range h.Layers {
		_ = fs.WalkDir(l.FS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
				return nil //nolint:nilerr // unreadable entries do not affect freshness
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // unreadable entries do not affect freshness
			}
			if info.ModTime().After(newest) {
				newest = info.ModTime()
			}
			return nil
		})
	}
	return newest
}

// LoadDir loads a theme from a directory on disk.
func LoadDir(dir string) (*Handle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "theme directory not readable").
			Fatal().
			WithContext("dir", dir).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ThemeError("theme path is not a directory").WithContext("dir", dir).Build()
	}
	return FromFS(dir, os.DirFS(dir))
}

// FromFS loads a theme whose files live at the root of fsys.
func FromFS(source string, fsys fs.FS) (*Handle, error) {
	h := &Handle{Layers: []Layer{{Source: source, FS: fsys}}}

	raw, err := fs.ReadFile(fsys, ConfigFile)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "theme has no "+ConfigFile).
			Fatal().
			WithContext("source", source).
			Build()
	}
	if err := h.decodeConfig(raw); err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "invalid "+ConfigFile).
			Fatal().
			WithContext("source", source).
			Build()
	}
	return h, nil
}

// decodeConfig reads the theme declaration, keeping option order as written.
func (h *Handle) decodeConfig(raw []byte) error {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return errors.ValidationError("theme declaration must be a mapping").Build()
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "name":
			h.Name = value.Value
		case "version":
			h.Version = value.Value
		case "static_templates":
			if err := value.Decode(&h.StaticTemplates); err != nil {
				return err
			}
		case "extends":
			return errors.ValidationError("theme inheritance (extends) is not supported").
				WithContext("parent", value.Value).
				Build()
		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return err
			}
			h.Defaults.Set(key, v)
		}
	}
	return nil
}
