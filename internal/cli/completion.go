package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/coarsen"
	"github.com/matzehuels/stackmixer/pkg/layout"
	"github.com/matzehuels/stackmixer/pkg/layout/scaling"
	"github.com/matzehuels/stackmixer/pkg/mixer"
	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stackmixer.

Bash:
  $ source <(stackmixer completion bash)

Zsh:
  $ stackmixer completion zsh > "${fpath[1]}/_stackmixer"

Fish:
  $ stackmixer completion fish > ~/.config/fish/completions/stackmixer.fish

PowerShell:
  PS> stackmixer completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// flagValues lists the fixed values of the enumerated option flags.
var flagValues = map[string][]string{
	"coarsener":      {coarsen.NameEdgeCover, coarsen.NameIndependentSet},
	"on-level-bound": {mixer.BoundStop.String(), mixer.BoundContinue.String()},
	"layout":         {layout.NameForce, layout.NameCircle, layout.NameRandom, layout.NameNoop},
	"final-layout":   {layout.NameForce, layout.NameCircle, layout.NameRandom, layout.NameNoop},
	"post-layout":    {layout.NameForce, layout.NameCircle, layout.NameRandom, layout.NameNoop},
	"placer":         {mixer.PlacerBarycenter, mixer.PlacerParent, mixer.PlacerZero},
	"post-mode": {
		mixer.PostNone.String(), mixer.PostEveryLevel.String(), mixer.PostEverySplit.String(),
		mixer.PostEveryN.String(), mixer.PostTimeFactor.String(),
	},
	"scaling": {
		scaling.RelativeToDrawing.String(), scaling.RelativeToAvgLength.String(),
		scaling.RelativeToDesiredLength.String(), scaling.Absolute.String(),
	},
	"format":  {pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG},
}

// registerValueCompletions adds shell completion for every enumerated flag
// that cmd defines.
func registerValueCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}
