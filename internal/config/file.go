package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LoadFile merges the YAML file at path into cfg. Keys absent from the file
// keep their current values. A missing file is an error: the path was asked for.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// ConfigPath returns the value of --config in args, or "" when absent.
// Every other flag is ignored here; the real parse happens later.
func ConfigPath(args []string) string {
	fs := pflag.NewFlagSet("prescan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

// ApplyEnv overrides cfg from DEDUPE_* variables read through getenv.
// Empty variables are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DEDUPE_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := getenv("DEDUPE_IGNORE"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.IgnorePatterns = append(cfg.IgnorePatterns, p)
			}
		}
	}
	if v := getenv("DEDUPE_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := getenv("DEDUPE_LINE_ENDING"); v != "" {
		cfg.LineEnding = LineEnding(strings.ToLower(v))
	}
	if v := getenv("DEDUPE_COLOR"); v != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(v))
	}
	if v := getenv("DEDUPE_LOG"); v != "" {
		cfg.LogFile = v
	}
	if err := parseEnvBool(getenv, "DEDUPE_STAT", &cfg.ShowStats); err != nil {
		return err
	}
	if err := parseEnvBool(getenv, "DEDUPE_FLATTEN", &cfg.Flatten); err != nil {
		return err
	}
	if err := parseEnvBool(getenv, "DEDUPE_PROGRESS", &cfg.ShowProgress); err != nil {
		return err
	}
	return parseEnvBool(getenv, "DEDUPE_VERBOSE", &cfg.Verbose)
}

func parseEnvBool(getenv func(string) string, key string, dest *bool) error {
	value := getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
