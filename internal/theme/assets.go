package theme

import (
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// assetExcludes never ship as static files.
var assetExcludes = []string{
	".*",
	".*/**",
	"**/.*",
	"**/.*/**",
	"**/*.py",
	"**/*.pyc",
	"**/*.html",
	"**/*readme*",
	ConfigFile,
}

// Asset is a publishable theme file.
type Asset struct {
	Path string
	// Source is the layer the file is read from.
	Source string
	FS     fs.FS
}

// StaticAssets lists the files to copy into the output unchanged, resolved across
// layers (first layer wins). Files ending in any of sourceSuffixes are documents,
// not assets.
func (h *Handle) StaticAssets(sourceSuffixes ...string) ([]Asset, error) {
	patterns := make([]string, 0, len(assetExcludes)+len(sourceSuffixes))
	patterns = append(patterns, assetExcludes...)
	for _, s := range sourceSuffixes {
		patterns = append(patterns, "**/*"+strings.ToLower(s))
	}

	seen := map[string]bool{}
	var out []Asset
	for _, l := range h.Layers {
		err := fs.WalkDir(l.FS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || seen[path] {
				return nil
			}
			if excluded(patterns, path) {
				return nil
			}
			seen[path] = true
			out = append(out, Asset{Path: path, Source: l.Source, FS: l.FS})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func excluded(patterns []string, path string) bool {
	lower := strings.ToLower(path)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, lower); ok {
			return true
		}
	}
	return false
}
