package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/cli"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate a shell completion script for yaproxy.

Bash:
  $ source <(yaproxy completion bash)

Zsh:
  $ yaproxy completion zsh > "${fpath[1]}/_yaproxy"

Fish:
  $ yaproxy completion fish > ~/.config/fish/completions/yaproxy.fish

PowerShell:
  PS> yaproxy completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeOutputFormat completes --output flags.
var completeOutputFormat = cobra.FixedCompletions(
	[]string{string(cli.FormatText), string(cli.FormatJSON), string(cli.FormatCSV)},
	cobra.ShellCompDirectiveNoFileComp,
)

// completeLogLevel completes --log-level flags.
var completeLogLevel = cobra.FixedCompletions(
	[]string{"debug", "info", "warn", "error"},
	cobra.ShellCompDirectiveNoFileComp,
)
