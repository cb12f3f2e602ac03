package build

import (
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

func writeFile(root, rel string, data []byte) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", rel).
			Build()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil { //nolint:gosec // published site files are world-readable
		return errors.WrapError(err, errors.CategoryFileSystem, "write output file").
			WithContext("path", rel).
			Build()
	}
	return nil
}

func copyFromFS(fsys fs.FS, src, root, rel string) error {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read asset").
			WithContext("path", src).
			Build()
	}
	return writeFile(root, rel, data)
}

// cleanOutput empties dir, keeping the directory itself so a preview server
// serving it keeps a valid root.
func cleanOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read output directory").
			WithContext("path", dir).
			Build()
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").
				WithContext("path", e.Name()).
				Build()
		}
	}
	return nil
}
