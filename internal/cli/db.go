package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mt-software-de/wodoo/pkg/errors"
	"github.com/mt-software-de/wodoo/pkg/state"
)

// dbCommand groups the read-only queries against the module-state database.
func (c *CLI) dbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Query the installation state of modules",
	}

	cmd.AddCommand(c.dbStateCommand())
	cmd.AddCommand(c.dbDanglingCommand())
	cmd.AddCommand(c.dbCheckInstalledCommand())
	cmd.AddCommand(c.dbMissingDepsCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store again.
func (c *CLI) withStore(cmd *cobra.Command, fn func(state.Store) error) error {
	store, err := c.store(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) dbStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state <module>",
		Short: "Print the state of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store state.Store) error {
				st, err := store.State(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), st)
				return err
			})
		},
	}
}

func (c *CLI) dbDanglingCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "dangling",
		Short: "List modules left in a transitional state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store state.Store) error {
				records, err := store.Dangling(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range records {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Name, r.State); err != nil {
						return err
					}
				}
				if strict && len(records) > 0 {
					return errors.New(errors.ErrCodeInvalidInput, "%d dangling modules, fix the installation and retry", len(records))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when dangling modules exist")
	return cmd
}

func (c *CLI) dbCheckInstalledCommand() *cobra.Command {
	var installFile string
	cmd := &cobra.Command{
		Use:   "check-installed",
		Short: "Verify that every module of the install list is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := c.installList(installFile)
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(store state.Store) error {
				missing, err := state.NotInstalled(cmd.Context(), store, want)
				if err != nil {
					return err
				}
				for _, name := range missing {
					printError("Module %s not installed", name)
				}
				if len(missing) > 0 {
					return errors.New(errors.ErrCodeModuleNotFound, "%d of %d modules not installed", len(missing), len(want))
				}
				printSuccess("All %d modules installed", len(want))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&installFile, "install", "", "install list file (default: configured project file)")
	return cmd
}

func (c *CLI) dbMissingDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missing-deps",
		Short: "List uninstalled modules that installed modules depend on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store state.Store) error {
				names, err := store.MissingDependencies(cmd.Context())
				if err != nil {
					return err
				}
				return writeLines(cmd.OutOrStdout(), names)
			})
		},
	}
}
