// Package scaffold creates new modules from a template directory.
//
// A template is a directory tree. Every occurrence of [Placeholder] in file
// contents and path names is replaced by the new module's name. A built-in
// template is embedded in the binary; a template directory on disk takes
// precedence when configured, and a version-specific subdirectory of it
// (for example "14.0") takes precedence over its root.
package scaffold

import (
	"embed"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

// Placeholder is replaced by the module name.
const Placeholder = "__module_name__"

//go:embed all:template
var builtin embed.FS

// Options configures module creation.
type Options struct {
	// TemplateDir is a template directory on the target filesystem. Empty
	// selects the built-in template.
	TemplateDir string
	// Version selects TemplateDir/<Version> when that directory exists.
	Version string
	// Logger receives one debug line per created file. Nil disables logging.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with a discarding logger if none is set.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// New creates module name below parent on fsys and returns the module
// directory. The target must not exist yet.
func New(fsys afero.Fs, parent, name string, opts Options) (string, error) {
	opts = opts.WithDefaults()
	if err := errors.ValidateTechnicalName(name); err != nil {
		return "", err
	}
	target := filepath.Join(parent, name)
	if exists, err := afero.Exists(fsys, target); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "stat %s", target)
	} else if exists {
		return "", errors.New(errors.ErrCodeAlreadyExists, "path already exists: %s", target)
	}

	src, root, err := templateSource(fsys, opts)
	if err != nil {
		return "", err
	}

	err = afero.Walk(src, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(target, strings.ReplaceAll(rel, Placeholder, name))
		if info.IsDir() {
			return fsys.MkdirAll(dst, 0o755)
		}
		data, err := afero.ReadFile(src, p)
		if err != nil {
			return err
		}
		content := strings.ReplaceAll(string(data), Placeholder, name)
		opts.Logger.Debug("create", "file", dst)
		return afero.WriteFile(fsys, dst, []byte(content), 0o644)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create module %s", name)
	}
	return target, nil
}

// templateSource returns the filesystem and root directory to copy from.
func templateSource(fsys afero.Fs, opts Options) (afero.Fs, string, error) {
	if opts.TemplateDir == "" {
		return afero.FromIOFS{FS: builtin}, "template", nil
	}
	if opts.Version != "" {
		versioned := path.Join(opts.TemplateDir, opts.Version)
		if ok, _ := afero.DirExists(fsys, versioned); ok {
			return fsys, versioned, nil
		}
	}
	if ok, _ := afero.DirExists(fsys, opts.TemplateDir); !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidPath, "template directory %s does not exist", opts.TemplateDir)
	}
	return fsys, opts.TemplateDir, nil
}
