package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mt-software-de/wodoo/pkg/addons"
	"github.com/mt-software-de/wodoo/pkg/dag/transform"
	"github.com/mt-software-de/wodoo/pkg/deps"
	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/render"
)

const (
	graphFormatDOT = "dot"
	graphFormatSVG = "svg"

	orderName    = "name"
	orderInstall = "install"
)

// depsCommand groups the commands working on dependency closures.
func (c *CLI) depsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Resolve dependencies of the install list or given modules",
	}

	cmd.AddCommand(c.depsUsedCommand())
	cmd.AddCommand(c.depsExternalCommand())
	cmd.AddCommand(c.depsGraphCommand())

	return cmd
}

// usedModules returns the modules used by names, or by the install list read
// from installFile when names is empty.
func (c *CLI) usedModules(ctx context.Context, s *addons.Session, names []string, installFile string) ([]string, error) {
	if len(names) == 0 {
		list, err := c.installList(installFile)
		if err != nil {
			return nil, err
		}
		if installFile == "" {
			installFile = c.cfg.ProjectFile
		}
		if err := requireModules(list, installFile); err != nil {
			return nil, err
		}
		names = list
	}
	prog := newProgress(loggerFromContext(ctx))
	used, err := deps.AllUsedModules(s, names)
	if err != nil {
		return nil, err
	}
	prog.debug("Resolved %d used modules from %d requested", len(used), len(names))
	return used, nil
}

func (c *CLI) depsUsedCommand() *cobra.Command {
	var installFile, order string
	cmd := &cobra.Command{
		Use:   "used [module...]",
		Short: "List every module the install list needs, auto-installed ones included",
		RunE: func(cmd *cobra.Command, args []string) error {
			if order != orderName && order != orderInstall {
				return errors.New(errors.ErrCodeInvalidInput, "invalid order: %s (must be one of %v)", order, []string{orderName, orderInstall})
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			used, err := c.usedModules(cmd.Context(), s, args, installFile)
			if err != nil {
				return err
			}
			if order == orderInstall {
				if used, err = deps.InstallOrder(s, used); err != nil {
					return err
				}
			}
			return writeLines(cmd.OutOrStdout(), used)
		},
	}
	cmd.Flags().StringVar(&installFile, "install", "", "install list file (default: configured project file)")
	cmd.Flags().StringVar(&order, "order", orderName, "output order: name, or install for dependencies first")
	return cmd
}

func (c *CLI) depsExternalCommand() *cobra.Command {
	var (
		installFile string
		format      string
	)
	cmd := &cobra.Command{
		Use:   "external [module...]",
		Short: "Collect the pip and deb requirements of the used modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatJSON, formatYAML); err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			used, err := c.usedModules(cmd.Context(), s, args, installFile)
			if err != nil {
				return err
			}
			bundle, err := deps.ExternalDependencies(s, used)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("collected external dependencies", "pip", len(bundle.Pip), "deb", len(bundle.Deb))
			return writeData(cmd.OutOrStdout(), format, bundle)
		},
	}
	cmd.Flags().StringVar(&installFile, "install", "", "install list file (default: configured project file)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml")
	return cmd
}

func (c *CLI) depsGraphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		reduce   bool
	)
	cmd := &cobra.Command{
		Use:   "graph <module>...",
		Short: "Export the dependency graph as DOT or SVG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, graphFormatDOT, graphFormatSVG); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			s, err := c.session(ctx)
			if err != nil {
				return err
			}
			g, err := deps.Graph(s, args)
			if err != nil {
				return err
			}
			transform.Normalize(g, reduce)
			logger.Infof("Loaded graph: %d modules, %d edges", g.NodeCount(), g.EdgeCount())

			data := []byte(render.ToDOT(g, render.Options{Detailed: detailed, Ranks: true}))
			if format == graphFormatSVG {
				prog := newProgress(logger)
				if data, err = render.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			}

			if err := c.writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "" {
				logger.Infof("Generated %s", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", graphFormatDOT, "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show module version and path in the nodes")
	cmd.Flags().BoolVar(&reduce, "reduce", false, "drop edges implied by longer dependency chains")
	return cmd
}
