package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/boardmap"
	"github.com/spf13/cobra"
)

type buildFlags struct {
	config      string
	dataset     string
	archive     string
	out         string
	threshold   float64
	budget      string
	metricsFile string
}

func newBuildCmd() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract, project and write a package",
		Example: `  boardmap build --config boardmap.yaml
  boardmap build --dataset routes.db --archive results.zip --threshold 20 --budget 5MB --out board.bmpk
  boardmap build --config boardmap.yaml --out s3://my-bucket/boards/board.bmpk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(f.config)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBuild(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "", "YAML config file")
	flags.StringVar(&f.dataset, "dataset", "", "SQLite source dataset")
	flags.StringVar(&f.archive, "archive", "", "results archive with embeddings.jsonl")
	flags.StringVarP(&f.out, "out", "o", "", "package location: path, s3://bucket/key or minio://endpoint/bucket/key")
	flags.Float64Var(&f.threshold, "threshold", 0, "minimum route difficulty")
	flags.StringVar(&f.budget, "budget", "", "maximum package size, e.g. 5MB")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset = f.dataset
	}
	if flags.Changed("archive") {
		cfg.Archive = f.archive
	}
	if flags.Changed("out") {
		cfg.Output = f.out
	}
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("budget") {
		cfg.Budget = f.budget
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
}

func runBuild(cmd *cobra.Command, cfg *Config) (err error) {
	ctx := cmd.Context()

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}
	loc, err := resolveLocation(ctx, cfg.Output)
	if err != nil {
		return err
	}

	metrics := newPromCollector()
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil && err == nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}()
	}
	opts = append(opts, boardmap.WithMetricsCollector(metrics))

	p := boardmap.New(loc.store, opts...)
	res, err := p.Build(ctx, boardmap.BuildRequest{
		DatasetPath: cfg.Dataset,
		ArchivePath: cfg.Archive,
		Name:        loc.name,
		Threshold:   cfg.Threshold,
	})
	if err != nil {
		return err
	}

	printBuildResult(cmd.OutOrStdout(), cfg.Output, res)
	return nil
}

func printBuildResult(w io.Writer, out string, res *boardmap.BuildResult) {
	fmt.Fprintf(w, "Wrote %s (%s, key %s)\n", out, humanize.Bytes(uint64(res.Bytes)), res.Key.Short())
	fmt.Fprintf(w, "  routes:    %d\n", res.Routes)
	fmt.Fprintf(w, "  holds:     %d\n", res.Holds)
	fmt.Fprintf(w, "  layouts:   %d\n", res.Layouts)
	if res.EffectiveThreshold != res.RequestedThreshold {
		fmt.Fprintf(w, "  threshold: %g (raised from %g to fit the size budget)\n", res.EffectiveThreshold, res.RequestedThreshold)
	} else {
		fmt.Fprintf(w, "  threshold: %g\n", res.EffectiveThreshold)
	}
	if s := res.Source; s != nil {
		fmt.Fprintf(w, "  source:    %d routes, %d without embedding, %d unmatched embeddings\n",
			s.Routes, s.Skipped, s.Unmatched)
	}
}
