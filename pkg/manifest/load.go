package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest/literal"
)

// DefaultFileNames are the manifest file names tried, in order.
var DefaultFileNames = []string{"__manifest__.py", "__openerp__.py"}

// Module is a module directory together with its parsed manifest.
type Module struct {
	Name         string    // directory name of the module
	Path         string    // module directory
	ManifestPath string    // manifest file inside Path
	Manifest     *Manifest // parsed manifest
}

// Options configures manifest discovery.
type Options struct {
	// FileNames are tried in order in each directory. Defaults to
	// DefaultFileNames.
	FileNames []string
	// StopDir bounds the upward search. The directory itself is still
	// searched. Empty means the filesystem root.
	StopDir string
}

// WithDefaults returns a copy of o with zero fields set to defaults.
func (o Options) WithDefaults() Options {
	if len(o.FileNames) == 0 {
		o.FileNames = DefaultFileNames
	}
	return o
}

// Find locates the manifest governing path by checking path (or its
// directory, for a file) and then each ancestor. The first manifest found
// wins.
func Find(fs afero.Fs, path string, opts Options) (string, error) {
	opts = opts.WithDefaults()

	path, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	info, err := fs.Stat(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotAModule, err, "no module found for %s", path)
	}
	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}

	stop := ""
	if opts.StopDir != "" {
		if stop, err = filepath.Abs(opts.StopDir); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", opts.StopDir)
		}
	}

	for {
		for _, name := range opts.FileNames {
			candidate := filepath.Join(dir, name)
			if fi, err := fs.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if dir == stop || parent == dir {
			return "", errors.New(errors.ErrCodeNotAModule, "no module found for %s", path)
		}
		dir = parent
	}
}

// Load finds and parses the manifest governing path.
func Load(fs afero.Fs, path string, opts Options) (*Module, error) {
	manifestPath, err := Find(fs, path, opts)
	if err != nil {
		return nil, err
	}
	return LoadFile(fs, manifestPath)
}

// LoadFile parses the manifest file at manifestPath.
func LoadFile(fs afero.Fs, manifestPath string) (*Module, error) {
	content, err := afero.ReadFile(fs, manifestPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "read %s", manifestPath)
	}
	m, err := Parse(manifestPath, content)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(manifestPath)
	return &Module{
		Name:         filepath.Base(dir),
		Path:         dir,
		ManifestPath: manifestPath,
		Manifest:     m,
	}, nil
}

// Parse parses manifest content. Lines whose first non-blank character is
// '#' are dropped before parsing. path is only used in error messages.
func Parse(path string, content []byte) (*Manifest, error) {
	lines := strings.Split(string(content), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			// Keep the line so error positions match the file.
			kept = append(kept, "")
			continue
		}
		kept = append(kept, line)
	}

	raw, err := literal.ParseDict(strings.Join(kept, "\n"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", path)
	}
	m, err := Decode(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "parse %s", path)
	}
	return m, nil
}

// Write serializes m to the module's manifest file and makes it the
// module's current manifest. Keys are sorted and the layout is fixed, so
// writing the same manifest twice yields identical bytes.
func Write(fs afero.Fs, mod *Module, m *Manifest) error {
	data := literal.Format(m.Map())
	perm := os.FileMode(0o644)
	if info, err := fs.Stat(mod.ManifestPath); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(fs, mod.ManifestPath, []byte(data), perm); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", mod.ManifestPath)
	}
	mod.Manifest = m
	return nil
}
