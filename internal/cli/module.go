package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/deps"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/manifest"
	"github.com/mt-software-de/wodoo/pkg/project"
	"github.com/mt-software-de/wodoo/pkg/rebuild"
	"github.com/mt-software-de/wodoo/pkg/scaffold"
)

// moduleCommand groups the single-module commands.
func (c *CLI) moduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Inspect and maintain single modules",
	}

	cmd.AddCommand(c.moduleInfoCommand())
	cmd.AddCommand(c.moduleTreeCommand())
	cmd.AddCommand(c.moduleDepsCommand())
	cmd.AddCommand(c.moduleCompatCommand())
	cmd.AddCommand(c.moduleUpdateCommand())
	cmd.AddCommand(c.moduleAssetsCommand())
	cmd.AddCommand(c.moduleBumpCommand())
	cmd.AddCommand(c.moduleNewCommand())
	cmd.AddCommand(c.moduleListCommand())

	return cmd
}

func (c *CLI) moduleInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path|name>",
		Short: "Show the manifest summary of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			mod, err := c.module(s, args[0])
			if err != nil {
				return err
			}
			compatible, err := manifest.Compatible(c.FS, mod, s.Version())
			if err != nil {
				return err
			}

			m := mod.Manifest
			fmt.Println(StyleTitle.Render(mod.Name))
			printKeyValue("Name", m.Name())
			printKeyValue("Version", orDash(m.Version()))
			printKeyValue("Path", mod.Path)
			printKeyValue("Manifest", mod.ManifestPath)
			printKeyValue("Depends", orDash(strings.Join(m.Depends(), ", ")))
			printKeyValue("Installable", strconv.FormatBool(m.IsInstallable()))
			printKeyValue("Auto install", strconv.FormatBool(m.AutoInstall()))
			printKeyValue("Compatible", fmt.Sprintf("%t (platform %s)", compatible, s.Version()))
			return nil
		},
	}
}

func (c *CLI) moduleTreeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree <name>",
		Short: "Print the dependency tree of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			t, err := deps.DependencyTree(s, args[0])
			if err != nil {
				return err
			}
			if format != formatText {
				return writeData(cmd.OutOrStdout(), format, t)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTree(args[0], t[args[0]]))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// renderTree draws t below a root node labelled name.
func renderTree(name string, t deps.Tree) *tree.Tree {
	root := tree.Root(name)
	for _, child := range slices.Sorted(maps.Keys(t)) {
		if len(t[child]) == 0 {
			root.Child(child)
			continue
		}
		root.Child(renderTree(child, t[child]))
	}
	return root
}

func (c *CLI) moduleDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <name>",
		Short: "List all modules a module depends on, directly or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			names, err := deps.FlatDependencies(s, args[0])
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), names)
		},
	}
}

func (c *CLI) moduleCompatCommand() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "compat <path|name>",
		Short: "Check whether a module fits the platform version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			mod, err := c.module(s, args[0])
			if err != nil {
				return err
			}
			if target == "" {
				target = s.Version()
			}
			ok, err := manifest.Compatible(c.FS, mod, target)
			if err != nil {
				return err
			}
			if ok {
				printSuccess("%s is compatible with %s", mod.Name, target)
			} else {
				printWarning("%s is not compatible with %s", mod.Name, target)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "platform version to check against (default: configured version)")
	return cmd
}

func (c *CLI) moduleUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <path|name>...",
		Short: "Regenerate the file lists and assets of modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.eachModule(cmd, args, "Updated", rebuild.FileLists)
		},
	}
}

func (c *CLI) moduleAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets <path|name>...",
		Short: "Regenerate views/assets.xml of modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.eachModule(cmd, args, "Regenerated assets of", rebuild.Assets)
		},
	}
}

// eachModule applies fn to every module named in args.
func (c *CLI) eachModule(cmd *cobra.Command, args []string, verb string, fn func(*addons.Session, *manifest.Module) error) error {
	prog := newProgress(loggerFromContext(cmd.Context()))
	s, err := c.session(cmd.Context())
	if err != nil {
		return err
	}
	for _, arg := range args {
		mod, err := c.module(s, arg)
		if err != nil {
			return err
		}
		if err := fn(s, mod); err != nil {
			return err
		}
		printSuccess("%s %s", verb, mod.Name)
		printFile(mod.ManifestPath)
	}
	prog.debug("Processed %d modules", len(args))
	return nil
}

func (c *CLI) moduleBumpCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "bump <path|name>",
		Short: "Increment the version of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			mod, err := c.module(s, args[0])
			if err != nil {
				return err
			}
			old := mod.Manifest.Version()
			next, err := manifest.BumpVersion(old, manifest.BumpKind(kind))
			if err != nil {
				return err
			}
			m := mod.Manifest.Clone()
			m.SetVersion(next)
			if err := manifest.Write(c.FS, mod, m); err != nil {
				return err
			}
			printSuccess("%s: %s %s %s", mod.Name, old, iconArrow, next)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(manifest.Bugfix), "component to increment: bugfix, feature")
	return cmd
}

func (c *CLI) moduleNewCommand() *cobra.Command {
	var (
		parent    string
		noInstall bool
	)
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a module from the template and add it to the install list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			dir, err := scaffold.New(c.FS, parent, name, scaffold.Options{
				TemplateDir: c.cfg.TemplateDir,
				Version:     c.cfg.Version,
				Logger:      loggerFromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}
			printSuccess("Created module %s", name)
			printFile(dir)

			if noInstall {
				return nil
			}
			if ok, _ := afero.Exists(c.FS, c.cfg.ProjectFile); !ok {
				printWarning("Project file %s not found, install list unchanged", c.cfg.ProjectFile)
				return nil
			}
			f, err := project.Open(c.FS, c.cfg.ProjectFile)
			if err != nil {
				return err
			}
			changed, err := f.AddModule(name)
			if err != nil || !changed {
				return err
			}
			if err := f.Save(); err != nil {
				return err
			}
			printDetail("Added %s to the install list in %s", name, f.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", ".", "directory to create the module in")
	cmd.Flags().BoolVar(&noInstall, "no-install", false, "do not add the module to the install list")
	return cmd
}

func (c *CLI) moduleListCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all modules of the addons paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if format != formatText {
				return writeData(cmd.OutOrStdout(), format, moduleSummaries(s))
			}
			return writeModuleTable(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// moduleSummary is the exported view of one module.
type moduleSummary struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Path        string   `json:"path" yaml:"path"`
	Depends     []string `json:"depends" yaml:"depends"`
	Installable bool     `json:"installable" yaml:"installable"`
	AutoInstall bool     `json:"auto_install" yaml:"auto_install"`
}

func moduleSummaries(s *addons.Session) []moduleSummary {
	mods := s.Modules()
	out := make([]moduleSummary, 0, len(mods))
	for _, mod := range mods {
		depends := mod.Manifest.Depends()
		if depends == nil {
			depends = []string{}
		}
		out = append(out, moduleSummary{
			Name:        mod.Name,
			Version:     mod.Manifest.Version(),
			Path:        mod.Path,
			Depends:     depends,
			Installable: mod.Manifest.IsInstallable(),
			AutoInstall: mod.Manifest.AutoInstall(),
		})
	}
	return out
}

func writeModuleTable(w io.Writer, s *addons.Session) error {
	var rows [][]string
	for _, m := range moduleSummaries(s) {
		rows = append(rows, []string{
			m.Name,
			orDash(m.Version),
			yesNo(m.Installable),
			yesNo(m.AutoInstall),
			m.Path,
		})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Module", "Version", "Installable", "Auto", "Path"}, rows))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// requireModules fails when names is empty.
func requireModules(names []string, source string) error {
	if len(names) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no modules given and the install list %s is empty", source)
	}
	return nil
}
