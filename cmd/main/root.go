package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scenic-score/internal/config"
	"scenic-score/internal/fileio"
	"scenic-score/internal/metrics"
	"scenic-score/internal/scores/service"
)

// app is everything a subcommand needs, built once per process.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	rec    *metrics.Recorder
	loader *fileio.Loader
	prober *fileio.Prober
	agg    *service.Aggregator
}

type rootFlags struct {
	configFile string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     = &app{}
	)
	root := &cobra.Command{
		Use:          "scenic-score",
		Short:        "Rank cities by attractions holding the nationwide top rating",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp(flags)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (overrides "+config.EnvConfig+")")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory with one table file per city")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "zerolog level")

	root.AddCommand(
		newAnalyzeCmd(a),
		newProbeCmd(a),
		newInspectCmd(a),
		newServeCmd(a),
	)
	return root
}

// newApp: .env -> config -> флаги -> логгер -> зависимости.
func newApp(flags rootFlags) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if flags.configFile != "" {
		if err := os.Setenv(config.EnvConfig, flags.configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := fileio.CheckEncodings(cfg.Encodings); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: config.SetupLogger(cfg), rec: metrics.New()}
	a.loader = fileio.NewLoader(
		fileio.WithEncodings(cfg.Encodings...),
		fileio.WithHeaderRow(cfg.HeaderRow),
		fileio.WithLogger(a.log),
		fileio.WithRecorder(a.rec),
	)
	a.prober = fileio.NewProber(
		fileio.WithProbeBytes(cfg.ProbeBytes),
		fileio.WithProbeHeaderRow(cfg.HeaderRow),
		fileio.WithProbeLogger(a.log),
	)
	a.agg = service.NewAggregator(a.loader,
		service.WithExtensions(cfg.Extensions...),
		service.WithDefaultScoreColumn(cfg.DefaultScoreColumn),
		service.WithTopN(cfg.TopN),
		service.WithTolerance(cfg.ScoreTolerance),
		service.WithLogger(a.log),
		service.WithRunRecorder(a.rec),
	)
	return a, nil
}
