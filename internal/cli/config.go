package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// configCommand creates the config command, which prints the effective
// options as TOML. The output is a valid --config file.
func (c *CLI) configCommand() *cobra.Command {
	var (
		flags    pipeline.Options
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective pipeline options as TOML",
		Long: `Print the effective pipeline options as TOML.

The options are the --config file (if any) overridden by the given flags. With
--defaults every unset option is filled in with its default value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.effectiveOptions(cmd, flags)
			if defaults {
				if err := opts.ValidateAndSetDefaults(); err != nil {
					return err
				}
			}
			return pipeline.WriteConfig(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "fill in default values")
	bindLayoutFlags(cmd, &flags)
	bindRenderFlags(cmd, &flags)

	return cmd
}
