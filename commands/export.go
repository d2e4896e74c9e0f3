package commands

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/util"
)

// Example invocation - ./rl-replay export -t trace.json --out views.jsonl
func ExportCommand(v *viper.Viper) *cobra.Command {
	var savePath string
	var episode int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the derived view of every step as json lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := util.WriteToFile(savePath); err != nil {
				return fmt.Errorf("error creating %s: %w", savePath, err)
			}

			first, last := 0, s.log.Len()-1
			if cmd.Flags().Changed("episode") && s.log.Len() > 0 {
				first = replay.ClampEpisodeIndex(s.log, episode)
				last = first
			}
			views := 0
			for e := first; e <= last; e++ {
				lines := make([]string, 0, s.log.Episodes[e].Len())
				for step := 0; step < s.log.Episodes[e].Len(); step++ {
					view := replay.Derive(s.log, replay.Cursor{Episode: e, Step: step}, s.settings.Variant)
					bs, err := json.Marshal(view)
					if err != nil {
						return fmt.Errorf("error encoding view: %w", err)
					}
					lines = append(lines, string(bs))
				}
				if err := util.AppendToFile(savePath, lines...); err != nil {
					return fmt.Errorf("error writing %s: %w", savePath, err)
				}
				views += len(lines)
			}
			s.logger.WithFields(logrus.Fields{
				"path":  savePath,
				"views": views,
			}).Info("exported views")
			return nil
		},
	}
	cmd.Flags().StringVarP(&savePath, "out", "o", "views.jsonl", "File receiving the views")
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Only export the episode at this position")
	return cmd
}
