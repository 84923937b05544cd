// Package config loads the wodoo configuration.
//
// Settings come from, in increasing precedence: built-in defaults, a
// wodoo.toml file and WODOO_* environment variables. The CLI applies its
// flags on top.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/mt-software-de/wodoo/pkg/errors"
)

const (
	// AppName is used for the config directory and the env prefix.
	AppName = "wodoo"
	// FileName is the config file name looked up in the search directories.
	FileName = configName + ".toml"
	// EnvPrefix prefixes environment overrides, e.g. WODOO_VERSION.
	EnvPrefix = "WODOO"

	configName = "wodoo"
)

// Config is the effective configuration.
type Config struct {
	// Version is the platform version, e.g. "14.0".
	Version string `mapstructure:"version" toml:"version" yaml:"version" json:"version"`
	// AddonsPaths are the ordered module search paths.
	AddonsPaths []string `mapstructure:"addons_paths" toml:"addons_paths" yaml:"addons_paths" json:"addons_paths"`
	// ProjectFile holds the install list.
	ProjectFile string `mapstructure:"project_file" toml:"project_file" yaml:"project_file" json:"project_file"`
	// Database is the DSN of the module-state database: a postgres:// URL
	// or libpq keyword string, or a SQLite path.
	Database string `mapstructure:"database" toml:"database" yaml:"database" json:"database"`
	// TemplateDir overrides the built-in module template.
	TemplateDir string `mapstructure:"template_dir" toml:"template_dir" yaml:"template_dir" json:"template_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:     "14.0",
		AddonsPaths: []string{"odoo/addons", "odoo/odoo/addons", "addons"},
		ProjectFile: "MANIFEST",
	}
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// FS is the filesystem to read from. Nil uses the OS filesystem.
	FS afero.Fs
	// File is an explicit config file. It must exist.
	File string
	// Dirs are searched in order for FileName when File is empty.
	// Nil searches the working directory and the user config directory.
	Dirs []string
}

// DefaultDirs returns the working directory and $XDG_CONFIG_HOME/wodoo
// (or ~/.config/wodoo).
func DefaultDirs() []string {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, AppName))
	}
	return dirs
}

// Load reads the configuration and returns it together with the path of the
// file it was read from ("" when only defaults and environment apply).
func Load(opts LoadOptions) (*Config, string, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Dirs == nil {
		opts.Dirs = DefaultDirs()
	}

	v := viper.New()
	v.SetFs(opts.FS)

	defaults := Default()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("addons_paths", defaults.AddonsPaths)
	v.SetDefault("project_file", defaults.ProjectFile)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("template_dir", defaults.TemplateDir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if opts.File != "" {
		if ok, _ := afero.Exists(opts.FS, opts.File); !ok {
			return nil, "", errors.New(errors.ErrCodeInvalidPath, "config file not found: %s", opts.File)
		}
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		for _, dir := range opts.Dirs {
			v.AddConfigPath(dir)
		}
	}

	resolved := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	} else {
		resolved = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New(errors.ErrCodeInvalidInput, "config: version must not be empty")
	}
	for _, p := range c.AddonsPaths {
		if p == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config: addons_paths must not contain empty entries")
		}
	}
	return nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// WriteFile writes c to path as TOML. An existing file is only replaced
// when force is set.
func WriteFile(fsys afero.Fs, path string, c *Config, force bool) error {
	if ok, _ := afero.Exists(fsys, path); ok && !force {
		return errors.New(errors.ErrCodeAlreadyExists, "config file already exists: %s", path)
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
