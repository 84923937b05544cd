package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wodoo.

To load completions:

Bash:
  $ source <(wodoo completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wodoo completion bash > /etc/bash_completion.d/wodoo
  # macOS:
  $ wodoo completion bash > $(brew --prefix)/etc/bash_completion.d/wodoo

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wodoo completion zsh > "${fpath[1]}/_wodoo"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wodoo completion fish | source

  # To load completions for each session, execute once:
  $ wodoo completion fish > ~/.config/fish/completions/wodoo.fish

PowerShell:
  PS> wodoo completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wodoo completion powershell > wodoo.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion must work without a readable config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
