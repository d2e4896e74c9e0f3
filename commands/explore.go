package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/explorer"
)

// Example invocation - ./rl-replay explore -t trace.jsonl --variant dqn-cartpole
func ExploreCommand(v *viper.Viper) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Step through the episodes of a trace log interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()
			exp := explorer.NewExplorer(s.log, s.settings.Variant, cmd.InOrStdin(), cmd.OutOrStdout(), !noColor)
			exp.Interact()
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}
