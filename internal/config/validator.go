package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"jsonbench/internal/adapter"
)

// ValidateConfig validates configuration values and returns an error listing
// every problem. Call it after Load.
func ValidateConfig() error {
	var errs []string

	if viper.GetInt("runner.samples") <= 0 {
		errs = append(errs, fmt.Sprintf("runner.samples must be positive, got: %d", viper.GetInt("runner.samples")))
	}
	if viper.GetInt("runner.warmup") < 0 {
		errs = append(errs, fmt.Sprintf("runner.warmup must not be negative, got: %d", viper.GetInt("runner.warmup")))
	}
	if viper.GetInt("runner.batch_size") < 0 {
		errs = append(errs, fmt.Sprintf("runner.batch_size must not be negative, got: %d", viper.GetInt("runner.batch_size")))
	}
	if viper.GetInt("runner.max_batch") <= 0 {
		errs = append(errs, fmt.Sprintf("runner.max_batch must be positive, got: %d", viper.GetInt("runner.max_batch")))
	}
	for _, key := range []string{"runner.min_sample_time", "runner.max_duration"} {
		if viper.IsSet(key) && duration(key) <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %v", key, duration(key)))
		}
	}

	if th := viper.GetFloat64("threshold"); th < 0 {
		errs = append(errs, fmt.Sprintf("threshold must not be negative, got: %v", th))
	}
	if th := viper.GetFloat64("fail_threshold"); th < 0 {
		errs = append(errs, fmt.Sprintf("fail_threshold must not be negative, got: %v", th))
	}

	if f := viper.GetString("format"); f != "table" && f != "json" {
		errs = append(errs, fmt.Sprintf("format must be table or json, got: %q", f))
	}
	if f := viper.GetString("log_format"); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("log_format must be text or json, got: %q", f))
	}

	targets, err := Targets()
	if err != nil {
		errs = append(errs, err.Error())
	}
	errs = append(errs, validateTargets(targets)...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateTargets(targets []TargetConfig) []string {
	var errs []string
	seen := make(map[string]bool)
	for i, t := range targets {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("targets[%d]", i)
			errs = append(errs, label+": name is required")
		} else if seen[t.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate target name", label))
		}
		seen[t.Name] = true

		target, err := t.Target()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		if _, err := t.Value(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", label, err))
		}
		for name := range t.Drift {
			if target.Kind != adapter.KindFloat {
				errs = append(errs, fmt.Sprintf("%s: drift declared for %s on a non-float target", label, name))
				continue
			}
			if _, err := t.DriftValue(name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", label, err))
			}
		}
	}
	return errs
}
