package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mt-software-de/wodoo/pkg/project"
)

// addonsCommand groups the commands about the addons setup as a whole.
func (c *CLI) addonsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addons",
		Short: "Inspect the addons paths and export module lists",
	}

	cmd.AddCommand(c.addonsPathsCommand())
	cmd.AddCommand(c.addonsModulesTxtCommand())

	return cmd
}

func (c *CLI) addonsPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the configured addons paths in search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, p := range c.cfg.AddonsPaths {
				if ok, _ := afero.DirExists(c.FS, p); !ok {
					loggerFromContext(cmd.Context()).Warn("addons path does not exist", "path", p)
				}
				if _, err := fmt.Fprintln(w, p); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) addonsModulesTxtCommand() *cobra.Command {
	var (
		output      string
		installFile string
		all         bool
	)
	cmd := &cobra.Command{
		Use:   "modules-txt",
		Short: "Write the install list comma-separated to modules.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := c.installList(installFile)
			if err != nil {
				return err
			}
			if all {
				s, err := c.session(cmd.Context())
				if err != nil {
					return err
				}
				if modules, err = c.usedModules(cmd.Context(), s, modules, installFile); err != nil {
					return err
				}
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(c.cfg.ProjectFile), project.ModulesTxt)
			}
			if err := project.WriteModulesTxt(c.FS, output, modules); err != nil {
				return err
			}
			printSuccess("Wrote %d modules", len(modules))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "target file (default: modules.txt next to the project file)")
	cmd.Flags().StringVar(&installFile, "install", "", "install list file (default: configured project file)")
	cmd.Flags().BoolVar(&all, "all", false, "write all used modules instead of the install list")
	return cmd
}
