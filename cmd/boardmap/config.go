package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/boardmap"
	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/distance"
	"github.com/hupe1980/boardmap/internal/resource"
	"github.com/hupe1980/boardmap/pack"
	"github.com/hupe1980/boardmap/projection"
	"gopkg.in/yaml.v3"
)

// Config is the build configuration file.
type Config struct {
	// Dataset is the SQLite source dataset.
	Dataset string `yaml:"dataset" validate:"required"`
	// Archive is the results archive with embeddings.jsonl.
	Archive string `yaml:"archive" validate:"required"`
	// Output is where the package is written: a local path, s3://bucket/key
	// or minio://endpoint/bucket/key.
	Output string `yaml:"output" validate:"required"`
	// Threshold is the minimum route difficulty.
	Threshold float64 `yaml:"threshold" validate:"gte=0"`
	// Budget is the maximum package size, e.g. "5MB". Empty means none.
	Budget string `yaml:"budget" validate:"omitempty,bytesize"`
	// Codec encodes the package info section: go-json or json.
	Codec string `yaml:"codec" validate:"omitempty,oneof=go-json json"`
	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression" validate:"omitempty,oneof=none lz4 zstd"`
	// IOLimit throttles package writes, e.g. "10MB" per second.
	IOLimit string `yaml:"io_limit" validate:"omitempty,bytesize"`
	// Workers bounds the neighbor-search goroutines.
	Workers int `yaml:"workers" validate:"gte=0"`
	// MetricsFile receives the Prometheus text exposition after a build.
	MetricsFile string `yaml:"metrics_file"`

	Projection ProjectionConfig `yaml:"projection"`
	Log        LogConfig        `yaml:"log"`
}

// ProjectionConfig configures the projector. Unset fields keep their defaults.
type ProjectionConfig struct {
	Neighbors int      `yaml:"neighbors" validate:"gte=0"`
	MinDist   *float64 `yaml:"min_dist" validate:"omitempty,gte=0"`
	Spread    float64  `yaml:"spread" validate:"gte=0"`
	Epochs    int      `yaml:"epochs" validate:"gte=0"`
	Seed      *int64   `yaml:"seed"`
	Metric    string   `yaml:"metric" validate:"omitempty,oneof=euclidean cosine l2"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

func defaultConfig() *Config {
	return &Config{
		Compression: "zstd",
		Log:         LogConfig{Format: "text", Level: "info"},
	}
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := humanize.ParseBytes(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SizeBudget returns the parsed budget in bytes, 0 if unset.
func (c *Config) SizeBudget() (int64, error) {
	return parseSize(c.Budget)
}

func parseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	return int64(n), nil
}

// Logger builds the configured logger.
func (c *Config) Logger() *boardmap.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	if c.Log.Format == "json" {
		return boardmap.NewJSONLogger(level)
	}
	return boardmap.NewTextLogger(level)
}

// PipelineOptions translates the configuration into pipeline options.
func (c *Config) PipelineOptions() ([]boardmap.Option, error) {
	compression, err := pack.ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}
	cdc, ok := codec.ByName(c.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
	budget, err := c.SizeBudget()
	if err != nil {
		return nil, err
	}
	ioLimit, err := parseSize(c.IOLimit)
	if err != nil {
		return nil, err
	}
	metric, err := distance.ParseMetric(c.Projection.Metric)
	if err != nil {
		return nil, err
	}

	popts := []projection.Option{
		projection.WithNeighbors(c.Projection.Neighbors),
		projection.WithSpread(c.Projection.Spread),
		projection.WithEpochs(c.Projection.Epochs),
		projection.WithMetric(metric),
		projection.WithWorkers(c.Workers),
	}
	if c.Projection.MinDist != nil {
		popts = append(popts, projection.WithMinDist(*c.Projection.MinDist))
	}
	if c.Projection.Seed != nil {
		popts = append(popts, projection.WithSeed(*c.Projection.Seed))
	}

	opts := []boardmap.Option{
		boardmap.WithCodec(cdc),
		boardmap.WithCompression(compression),
		boardmap.WithSizeBudget(budget),
		boardmap.WithProjectionOptions(popts...),
		boardmap.WithLogger(c.Logger()),
	}
	if ioLimit > 0 || c.Workers > 0 {
		workers := c.Workers
		if workers == 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		opts = append(opts, boardmap.WithResourceController(resource.NewController(resource.Config{
			MaxWorkers:         int64(workers),
			IOLimitBytesPerSec: ioLimit,
		})))
	}
	return opts, nil
}
