// Package project reads and updates the install list of a project.
//
// The install list names the modules a project wants installed. It lives in
// the project file (conventionally MANIFEST at the project root), a literal
// dict whose "install" key holds the list. Every other key of the project
// file is preserved when the list is updated. For quick setups a plain text
// file with one module per line is accepted as well.
package project

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest/literal"
)

// DefaultFile is the conventional name of the project file.
const DefaultFile = "MANIFEST"

// ModulesTxt is the file name written by [WriteModulesTxt].
const ModulesTxt = "modules.txt"

const installKey = "install"

// File is a loaded project file.
type File struct {
	fs     afero.Fs
	path   string
	fields map[string]any
}

// Open loads the project file at path. The install key is optional; when
// present it must be a list of strings.
func Open(fsys afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read project file %s", path)
	}
	fields, err := literal.ParseDict(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse project file %s", path)
	}
	if v, ok := fields[installKey]; ok {
		if _, ok := toStrings(v); !ok {
			return nil, errors.New(errors.ErrCodeManifestParse,
				"parse project file %s: %s must be a list of str, got %s", path, installKey, literal.TypeName(v))
		}
	}
	return &File{fs: fsys, path: path, fields: fields}, nil
}

// Path returns the location of the project file.
func (f *File) Path() string { return f.path }

// Install returns the install list in file order.
func (f *File) Install() []string {
	names, _ := toStrings(f.fields[installKey])
	if names == nil {
		return []string{}
	}
	return names
}

// AddModule appends name to the install list unless it is already listed.
// It reports whether the list changed. The file is not saved.
func (f *File) AddModule(name string) (bool, error) {
	if err := errors.ValidateModuleName(name); err != nil {
		return false, err
	}
	install := f.Install()
	if slices.Contains(install, name) {
		return false, nil
	}
	items := make([]any, 0, len(install)+1)
	for _, n := range install {
		items = append(items, n)
	}
	f.fields[installKey] = append(items, name)
	return true, nil
}

// Save writes the project file back as indented JSON, which the literal
// reader accepts as well.
func (f *File) Save() error {
	data, err := json.MarshalIndent(f.fields, "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode project file %s", f.path)
	}
	perm := os.FileMode(0o644)
	if info, err := f.fs.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(f.fs, f.path, append(data, '\n'), perm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write project file %s", f.path)
	}
	return nil
}

// ReadInstallList reads the install list from path. A file starting with
// "{" is read as a project file; anything else as text with one module per
// line, where blank lines and "#" comments are ignored.
func ReadInstallList(fsys afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read install list %s", path)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		f, err := Open(fsys, path)
		if err != nil {
			return nil, err
		}
		return f.Install(), nil
	}

	names := []string{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := errors.ValidateModuleName(line); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read install list %s", path)
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read install list %s", path)
	}
	return names, nil
}

// WriteModulesTxt writes modules comma-separated to path, without a
// trailing newline.
func WriteModulesTxt(fsys afero.Fs, path string, modules []string) error {
	if err := afero.WriteFile(fsys, path, []byte(strings.Join(modules, ",")), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

func toStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, v == nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
