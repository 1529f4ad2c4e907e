package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"jsonbench/internal/benchmark"
)

// EnvPrefix is the prefix of environment overrides, e.g. JSONBENCH_RUNNER_SAMPLES.
const EnvPrefix = "JSONBENCH"

// Load initializes the configuration from file, .env and environment variables.
// A missing default config file is not an error; a missing explicit one is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("jsonbench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers every default in one place.
func SetDefaults() {
	def := benchmark.DefaultConfig()
	viper.SetDefault("runner.warmup", def.Warmup)
	viper.SetDefault("runner.samples", def.Samples)
	viper.SetDefault("runner.batch_size", def.BatchSize)
	viper.SetDefault("runner.min_sample_time", def.MinSampleTime)
	viper.SetDefault("runner.max_batch", def.MaxBatch)
	viper.SetDefault("runner.max_duration", def.MaxDuration)

	viper.SetDefault("fixtures_dir", "")
	viper.SetDefault("history", "jsonbench-history.json")
	viper.SetDefault("threshold", 5.0)
	viper.SetDefault("fail_threshold", 0.0)
	viper.SetDefault("format", "table")
	viper.SetDefault("metrics_file", "")

	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("no_color", false)
}

// Runner returns the measurement methodology from the loaded configuration.
func Runner() benchmark.Config {
	return benchmark.Config{
		Warmup:        viper.GetInt("runner.warmup"),
		Samples:       viper.GetInt("runner.samples"),
		BatchSize:     viper.GetInt("runner.batch_size"),
		MinSampleTime: duration("runner.min_sample_time"),
		MaxBatch:      viper.GetInt("runner.max_batch"),
		MaxDuration:   duration("runner.max_duration"),
	}
}

// duration reads a key as a duration string ("5ms", "10s") or, for a bare
// number such as `max_duration: 10` or JSONBENCH_RUNNER_MAX_DURATION=10, as
// seconds. Unparseable values read as zero.
func duration(key string) time.Duration {
	switch v := viper.Get(key).(type) {
	case nil:
		return 0
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case uint64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		s := strings.TrimSpace(v)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0
		}
		return d
	default:
		return viper.GetDuration(key)
	}
}
