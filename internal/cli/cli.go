package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mt-software-de/wodoo/internal/config"
	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/buildinfo"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
	"github.com/mt-software-de/wodoo/pkg/project"
	"github.com/mt-software-de/wodoo/pkg/state"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// FS is the filesystem every command works on.
	FS afero.Fs

	// OpenStore opens the module-state database named by a DSN.
	OpenStore func(ctx context.Context, dsn string, logger *log.Logger) (state.Store, error)

	// ConfigDirs overrides the config search directories.
	ConfigDirs []string

	flags globalFlags
	cfg   *config.Config
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	verbose     bool
	configFile  string
	version     string
	addonsPaths []string
}

// New creates a new CLI instance with a default logger working on the OS
// filesystem.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		FS:     afero.NewOsFs(),
		OpenStore: func(ctx context.Context, dsn string, logger *log.Logger) (state.Store, error) {
			return state.Open(ctx, dsn, logger)
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "wodoo",
		Short:        "wodoo administers the addons of a platform installation",
		Long:         `wodoo resolves module dependencies, regenerates manifest file lists and asset bundles, and inspects the installation state of an addons setup.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configFile, "config", "", "config file (default ./wodoo.toml, then the user config dir)")
	pf.StringVar(&c.flags.version, "odoo-version", "", "platform version, e.g. 14.0 (overrides config)")
	pf.StringArrayVar(&c.flags.addonsPaths, "addons-path", nil, "module search path, repeatable (overrides config)")

	root.AddCommand(c.moduleCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.addonsCommand())
	root.AddCommand(c.dbCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and applies the global flags.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, path, err := config.Load(config.LoadOptions{
		FS:   c.FS,
		File: c.flags.configFile,
		Dirs: c.ConfigDirs,
	})
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "file", path)
	}
	if c.flags.version != "" {
		cfg.Version = c.flags.version
	}
	if len(c.flags.addonsPaths) > 0 {
		cfg.AddonsPaths = c.flags.addonsPaths
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// session scans the configured addons paths.
func (c *CLI) session(ctx context.Context) (*addons.Session, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	s, err := addons.NewSession(c.FS, c.cfg.AddonsPaths, addons.Options{
		Version: c.cfg.Version,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	prog.debug("Scanned %d modules", len(s.Names()))
	return s, nil
}

// module resolves a command argument that is either a module name known to
// the session or a path inside a module.
func (c *CLI) module(s *addons.Session, arg string) (*manifest.Module, error) {
	if !looksLikePath(arg) {
		return s.ByName(arg)
	}
	mod, err := manifest.Load(c.FS, arg, manifest.Options{})
	if err != nil {
		return nil, err
	}
	if known, err := s.ByName(mod.Name); err == nil && samePath(known.Path, mod.Path) {
		return known, nil
	}
	return mod, nil
}

func looksLikePath(arg string) bool {
	return arg == "." || arg == ".." || filepath.IsAbs(arg) || filepath.Base(arg) != arg
}

func samePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && aa == bb
}

// installList reads the project's install list.
func (c *CLI) installList(path string) ([]string, error) {
	if path == "" {
		path = c.cfg.ProjectFile
	}
	return project.ReadInstallList(c.FS, path)
}

// store opens the configured module-state database.
func (c *CLI) store(ctx context.Context) (state.Store, error) {
	if c.cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no database configured (set database in %s or WODOO_DATABASE)", config.FileName)
	}
	return c.OpenStore(ctx, c.cfg.Database, loggerFromContext(ctx))
}
