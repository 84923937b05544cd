// Package addons builds the module registry of one resolution session.
//
// A [Session] is created once per invocation from the ordered addon search
// paths. It scans every path for manifests and maps module names to modules;
// when a name occurs in several places the first one scanned wins. The scan
// only serves enumeration ([Session.Names], [Session.Modules]). Resolving a
// name always goes through [Session.ByName], which only considers direct
// children of the search paths. Sessions are never shared or cached across
// invocations, and every resolver call takes the session explicitly.
package addons

import (
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
)

// BaseModule is the implicit dependency of every module. It is never
// expanded during resolution.
const BaseModule = "base"

// Options configures a session.
type Options struct {
	// Version is the target platform version, e.g. "14.0".
	Version string
	// FileNames are the manifest file names tried in each directory.
	FileNames []string
	// Logger receives scan diagnostics. Nil disables logging.
	Logger *log.Logger
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if len(o.FileNames) == 0 {
		o.FileNames = manifest.DefaultFileNames
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Session is the module registry of one invocation.
type Session struct {
	fs      afero.Fs
	paths   []string
	opts    Options
	modules map[string]*manifest.Module
	byPath  map[string]*manifest.Module
}

// NewSession scans searchPaths in order and registers every module found.
// Missing search paths are skipped. A manifest that cannot be parsed aborts
// the scan.
func NewSession(fsys afero.Fs, searchPaths []string, opts Options) (*Session, error) {
	s := &Session{
		fs:      fsys,
		paths:   slices.Clone(searchPaths),
		opts:    opts.WithDefaults(),
		modules: make(map[string]*manifest.Module),
		byPath:  make(map[string]*manifest.Module),
	}
	for _, root := range s.paths {
		if err := s.scan(root); err != nil {
			return nil, err
		}
	}
	s.opts.Logger.Debug("scanned addon paths", "paths", len(s.paths), "modules", len(s.modules))
	return s, nil
}

func (s *Session) scan(root string) error {
	if ok, _ := afero.DirExists(s.fs, root); !ok {
		s.opts.Logger.Warn("addons path does not exist", "path", root)
		return nil
	}
	return afero.Walk(s.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		manifestPath := s.manifestIn(path)
		if manifestPath == "" {
			return nil
		}
		name := filepath.Base(path)
		if prev, ok := s.modules[name]; ok {
			s.opts.Logger.Debug("duplicate module ignored", "name", name, "path", path, "kept", prev.Path)
			return nil
		}
		mod, err := s.load(manifestPath)
		if err != nil {
			return err
		}
		s.modules[name] = mod
		return nil
	})
}

// manifestIn returns the first manifest file in dir, or "".
func (s *Session) manifestIn(dir string) string {
	for _, name := range s.opts.FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := s.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func (s *Session) load(manifestPath string) (*manifest.Module, error) {
	dir := filepath.Dir(manifestPath)
	if mod, ok := s.byPath[dir]; ok {
		return mod, nil
	}
	mod, err := manifest.LoadFile(s.fs, manifestPath)
	if err != nil {
		return nil, err
	}
	s.byPath[dir] = mod
	return mod, nil
}

// FS returns the filesystem the session reads from.
func (s *Session) FS() afero.Fs { return s.fs }

// Version returns the target platform version.
func (s *Session) Version() string { return s.opts.Version }

// Logger returns the session logger. It is never nil.
func (s *Session) Logger() *log.Logger { return s.opts.Logger }

// SearchPaths returns the addon search paths in scan order.
func (s *Session) SearchPaths() []string { return slices.Clone(s.paths) }

// ByName resolves name by checking each search path for a direct
// subdirectory of that name holding a manifest. The first match wins.
func (s *Session) ByName(name string) (*manifest.Module, error) {
	if err := errors.ValidateModuleName(name); err != nil {
		return nil, err
	}
	for _, root := range s.paths {
		if manifestPath := s.manifestIn(filepath.Join(root, name)); manifestPath != "" {
			return s.load(manifestPath)
		}
	}
	return nil, errors.New(errors.ErrCodeModuleNotFound, "module %s not found in addons paths", name)
}

// Has reports whether the scan registered a module called name, at any depth.
func (s *Session) Has(name string) bool {
	_, ok := s.modules[name]
	return ok
}

// Names returns all registered module names, sorted.
func (s *Session) Names() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Modules returns all registered modules sorted by name.
func (s *Session) Modules() []*manifest.Module {
	names := s.Names()
	mods := make([]*manifest.Module, len(names))
	for i, name := range names {
		mods[i] = s.modules[name]
	}
	return mods
}

// Reload re-reads the manifest of mod after it was rewritten on disk.
func (s *Session) Reload(mod *manifest.Module) (*manifest.Module, error) {
	fresh, err := manifest.LoadFile(s.fs, mod.ManifestPath)
	if err != nil {
		return nil, err
	}
	*mod = *fresh
	return mod, nil
}
