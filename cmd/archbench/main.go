// Command archbench stresses an archetype index with concurrent writers and
// queries and reports timing, index shape and metrics.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edwinsyarief/archindex"
)

func main() {
	if err := NewCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCommand returns the root command.
func NewCommand() *cobra.Command {
	cfg := NewConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:           "archbench",
		Short:         "Stress an archetype index with concurrent writers and queries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				file, err := Load(configPath)
				if err != nil {
					return err
				}
				cfg.MergeUnchanged(cmd.Flags(), file)
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid config")
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cfg.BindFlags(cmd.Flags())
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.Encoding = "console"
	return zc.Build()
}

func startProfile(cfg Config) interface{ Stop() } {
	opts := []func(*profile.Profile){profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet}
	switch cfg.Profile {
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfileAllocs)
	case "mutex":
		opts = append(opts, profile.MutexProfile)
	case "block":
		opts = append(opts, profile.BlockProfile)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		return nil
	}
	return profile.Start(opts...)
}

func run(ctx context.Context, cfg Config) error {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if p := startProfile(cfg); p != nil {
		defer p.Stop()
	}

	metrics := archindex.NewMetrics(prometheus.Labels{"index": "archbench"})
	b := newBench(cfg, log, metrics)
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("Benchmark complete",
		zap.Int("groups", res.Groups),
		zap.Int("capacity", res.Capacity),
		zap.Int("lookups", res.Lookups),
		zap.Int("matching_groups", res.MatchingGroups),
		zap.Int("tables_visited", res.TablesVisited),
		zap.Duration("elapsed", res.Elapsed))

	if cfg.Metrics {
		return writeMetrics(os.Stdout, metrics)
	}
	return nil
}

func writeMetrics(w io.Writer, m *archindex.Metrics) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.PrometheusCollectors()...)
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
