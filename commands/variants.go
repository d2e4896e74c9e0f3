package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/rl-replay/replay"
)

func VariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the built-in variants and their constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-14s %-10s %-12s %-6s %-6s %s\n", "NAME", "ENV", "RULE", "GAMMA", "ALPHA", "ACTIONS")
			for _, v := range replay.Variants() {
				fmt.Fprintf(out, "%-14s %-10s %-12s %-6.2f %-6.2f %d\n", v.Name, v.Environment, v.Rule, v.Gamma, v.Alpha, v.Actions)
			}
			return nil
		},
	}
}
