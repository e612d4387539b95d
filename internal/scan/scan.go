// Package scan walks a source tree and collects the regular files a
// classification pass will consider.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/filesift/filesift/internal/config"
)

// Walk returns the absolute paths of every regular file under root,
// sorted for deterministic batch order. The state directory and hidden
// plan artifacts are skipped; symlinks and other irregular entries are
// ignored.
func Walk(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root: %w", err)
	}

	var paths []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == config.StateDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, walkErr)
	}

	sort.Strings(paths)
	return paths, nil
}
