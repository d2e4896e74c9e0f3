package commands

import (
	"fmt"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/plots"
	"github.com/zeu5/rl-replay/types"
)

// Example invocation - ./rl-replay plot -t trace.json --out results --upto 200
func PlotCommand(v *viper.Viper) *cobra.Command {
	var saveDir string
	var upto int
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Save the reward curve (png and html) and the final Q-table heat map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.Close()
			if !cmd.Flags().Changed("upto") {
				upto = lastIndex(s.log)
			}
			if err := os.MkdirAll(saveDir, 0755); err != nil {
				return fmt.Errorf("error creating %s: %w", saveDir, err)
			}
			variant := s.settings.Variant

			pngPath := path.Join(saveDir, "reward_curve.png")
			if err := plots.SaveRewardCurvePNG(pngPath, s.log, upto, variant); err != nil {
				return fmt.Errorf("error saving reward curve: %w", err)
			}
			htmlPath := path.Join(saveDir, "reward_curve.html")
			if err := plots.SaveRewardCurveHTML(htmlPath, s.log, upto, variant); err != nil {
				return fmt.Errorf("error saving reward chart: %w", err)
			}
			saved := []string{pngPath, htmlPath}

			if snapshot, ok := lastSnapshot(s.log); ok && variant.Tabular() {
				heatPath := path.Join(saveDir, "qtable_heatmap.png")
				if err := plots.SaveQTableHeatMap(heatPath, snapshot, variant); err != nil {
					return fmt.Errorf("error saving q-table heat map: %w", err)
				}
				saved = append(saved, heatPath)
			}
			s.logger.WithFields(logrus.Fields{
				"upto":  upto,
				"files": saved,
			}).Info("saved plots")
			return nil
		},
	}
	cmd.Flags().StringVarP(&saveDir, "out", "o", "results", "Save the plots in the specified folder")
	cmd.Flags().IntVar(&upto, "upto", 0, "Plot the episodes with index up to this one (default: all)")
	return cmd
}

func lastIndex(log *types.TraceLog) int {
	last, ok := log.Get(log.Len() - 1)
	if !ok {
		return 0
	}
	return last.Index
}

// lastSnapshot is the Q-table after the last step of the last episode
// that logged one
func lastSnapshot(log *types.TraceLog) (types.QTable, bool) {
	for i := log.Len() - 1; i >= 0; i-- {
		if step, ok := log.Episodes[i].Last(); ok && step.HasSnapshot() {
			return step.Snapshot, true
		}
	}
	return nil, false
}
