package rebuild

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// moduleFiles lists the files below root as slash separated paths relative
// to root, in lexical order. Hidden files and directories are skipped, which
// also skips version-control metadata.
func moduleFiles(fsys afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// hasSegment reports whether any directory segment of the slash separated
// path rel equals one of names. The file name itself is not considered.
func hasSegment(rel string, names ...string) bool {
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		for _, name := range names {
			if seg == name {
				return true
			}
		}
	}
	return false
}
