// Package commands holds the command line interface of rl-replay.
package commands

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/config"
	"github.com/zeu5/rl-replay/trace"
	"github.com/zeu5/rl-replay/types"
)

var ErrNoTrace = errors.New("a trace log is required (--trace)")

// Every call builds a fresh command tree bound to its own viper instance
func GetRootCommand() *cobra.Command {
	v := viper.New()
	rootCommand := &cobra.Command{
		Use:           "rl-replay",
		Short:         "Replay the logged training runs of reinforcement learning agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().String("config", "", "Read the settings from a yaml, json or toml file")
	rootCommand.PersistentFlags().String("variant", "", "Algorithm and environment variant of the trace log")
	rootCommand.PersistentFlags().StringP("trace", "t", "", "Trace log file or redis:// url")
	rootCommand.PersistentFlags().String("redis-key", "", "Key of the trace log when reading from redis")
	rootCommand.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCommand.PersistentFlags().Bool("quiet", false, "Do not output logs to stderr")
	rootCommand.PersistentFlags().String("logfile", "", "Copy the logs to this file")
	_ = v.BindPFlags(rootCommand.PersistentFlags())

	// adding the subcommands here
	rootCommand.AddCommand(DeriveCommand(v))
	rootCommand.AddCommand(ExploreCommand(v))
	rootCommand.AddCommand(PlotCommand(v))
	rootCommand.AddCommand(ExportCommand(v))
	rootCommand.AddCommand(VariantsCommand())
	return rootCommand
}

// session is what every trace command starts from
type session struct {
	settings *config.Settings
	logger   *logrus.Logger
	log      *types.TraceLog
}

// loadSession reads the settings and loads the trace log. The caller
// closes the returned session once the command is done.
func loadSession(cmd *cobra.Command, v *viper.Viper) (s *session, err error) {
	settings, err := config.Read(v)
	if err != nil {
		return nil, err
	}
	logger, err := settings.NewLogger()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			settings.Close()
		}
	}()
	location := v.GetString("trace")
	if location == "" {
		return nil, ErrNoTrace
	}
	logger.WithFields(logrus.Fields{
		"trace":   location,
		"variant": settings.Variant.Name,
	}).Debug("opening trace log")

	source, err := trace.Open(location, v.GetString("redis-key"), logger)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	log, err := source.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	warnFindings(logger, trace.Validate(log, settings.Variant))
	return &session{
		settings: settings,
		logger:   logger,
		log:      log,
	}, nil
}

func (s *session) Close() error {
	return s.settings.Close()
}

// Findings never stop a replay, they are only reported
func warnFindings(logger *logrus.Logger, err error) {
	if err == nil {
		return
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		logger.WithError(err).Warn("trace log does not match the variant")
		return
	}
	for _, finding := range merr.Errors {
		logger.WithError(finding).Warn("trace log does not match the variant")
	}
	logger.Warn(fmt.Sprintf("%d findings in the trace log", len(merr.Errors)))
}
