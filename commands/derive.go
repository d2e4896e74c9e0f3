package commands

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/replay"
)

// Example invocation - ./rl-replay derive -t trace.json --episode 3 --step 10
func DeriveCommand(v *viper.Viper) *cobra.Command {
	var episode, step, index int
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the derived view of a single step as json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()
			if cmd.Flags().Changed("index") {
				position, ok := s.log.Position(index)
				if !ok {
					return fmt.Errorf("no episode with index %d in the trace log", index)
				}
				episode = position
			}
			view := replay.Derive(s.log, replay.Cursor{Episode: episode, Step: step}, s.settings.Variant)
			s.logger.WithFields(logrus.Fields{
				"episode": view.Cursor.Episode,
				"step":    view.Cursor.Step,
				"empty":   view.Empty,
			}).Debug("derived view")

			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return fmt.Errorf("error encoding view: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Position of the episode in the trace log")
	cmd.Flags().IntVarP(&step, "step", "s", 0, "Position of the step in the episode")
	cmd.Flags().IntVar(&index, "index", 0, "Select the episode by its logged index instead of its position")
	return cmd
}
