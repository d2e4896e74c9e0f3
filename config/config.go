// Package config reads the settings of a replay session: which variant
// constants apply to the trace log and how to log.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/zeu5/rl-replay/replay"
)

var ErrUnknownVariant = errors.New("unknown variant")

const (
	EnvPrefix      = "RLREPLAY"
	DefaultVariant = "ql-cliffwalk"
)

// Settings of a replay session
type Settings struct {
	Variant replay.Variant
	Debug   bool
	Quiet   bool
	Logfile string

	logfile *os.File
}

// Read the settings from v. The built-in variant named by the "variant"
// key is the base, any key under "overrides" (as in a yaml config file)
// replaces the matching field of the variant.
func Read(v *viper.Viper) (*Settings, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	name := v.GetString("variant")
	if name == "" {
		name = DefaultVariant
	}
	variant, ok := replay.LookupVariant(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	if v.IsSet("overrides") {
		if err := v.UnmarshalKey("overrides", &variant); err != nil {
			return nil, fmt.Errorf("error decoding variant overrides: %w", err)
		}
	}
	variant.Name = name

	return &Settings{
		Variant: variant,
		Debug:   v.GetBool("debug"),
		Quiet:   v.GetBool("quiet"),
		Logfile: v.GetString("logfile"),
	}, nil
}

// NewLogger builds the logger of the session. Debug raises the level,
// quiet drops the output to stdout, a logfile receives a copy of every entry.
func (s *Settings) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	if s.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	var out io.Writer = os.Stderr
	if s.Quiet {
		out = io.Discard
	}
	if s.Logfile != "" {
		f, err := os.OpenFile(s.Logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("could not open %s for logging: %w", s.Logfile, err)
		}
		s.logfile = f
		if s.Quiet {
			out = f
		} else {
			out = io.MultiWriter(os.Stderr, f)
		}
	}
	logger.SetOutput(out)
	return logger, nil
}

// Close releases the logfile opened by NewLogger
func (s *Settings) Close() error {
	if s.logfile == nil {
		return nil
	}
	err := s.logfile.Close()
	s.logfile = nil
	return err
}
