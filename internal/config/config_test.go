package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/logs", "/data/logs"},
		{"single trailing slash", "/data/logs/", "/data/logs"},
		{"multiple trailing slashes", "/data/logs///", "/data/logs"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"file input is valid", func(c *Config) { c.InputFile = "a.txt" }, false},
		{"directory input is valid", func(c *Config) { c.InputDir = "logs" }, false},
		{"no input", func(c *Config) {}, true},
		{"both inputs", func(c *Config) { c.InputFile = "a.txt"; c.InputDir = "logs" }, true},
		{"crlf is valid", func(c *Config) { c.InputFile = "a"; c.LineEnding = LineEndingCRLF }, false},
		{"unknown line ending", func(c *Config) { c.InputFile = "a"; c.LineEnding = "cr" }, true},
		{"unknown color mode", func(c *Config) { c.InputFile = "a"; c.ColorMode = "rainbow" }, true},
		{"blank ignore pattern", func(c *Config) { c.InputFile = "a"; c.IgnorePatterns = []string{" "} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	dir := DefaultConfig()
	dir.InputDir = "/in"
	tests := []struct {
		name      string
		cfg       Config
		in, out   string
		wantError bool
	}{
		{"sibling output", dir, "/data/in", "/data/out", false},
		{"output inside input", dir, "/data/in", "/data/in/out", true},
		{"output equals input", dir, "/data/in", "/data/in", true},
		{"prefix but not inside", dir, "/data/in", "/data/input2", false},
		{"stdout", dir, "/data/in", "", false},
		{"file mode in place", Config{InputFile: "a"}, "/data/a.txt", "/data/a.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidatePaths(tt.in, tt.out)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantError %v", tt.in, tt.out, err, tt.wantError)
			}
		})
	}
}

func TestMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputFile = "x"
	assert.Equal(t, ModeFile, cfg.Mode())
	cfg = DefaultConfig()
	cfg.InputDir = "x"
	assert.Equal(t, ModeDirectory, cfg.Mode())
	assert.True(t, cfg.ToStdout())
}

func parse(t *testing.T, cfg *Config, args ...string) error {
	t.Helper()
	fs := pflag.NewFlagSet("dedupe", pflag.ContinueOnError)
	n := BindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return n.Apply(cfg, fs.Args())
}

func TestFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := parse(t, &cfg,
		"-d", "logs/", "-o", "out", "--ignore", "*.log", "--ignore", "vendor/**",
		"--stat", "--line-ending", "CRLF", "--no-progress", "--no-color", "-n", "--flatten",
		"--encoding", "latin1", "--no-skip-binary",
	)
	require.NoError(t, err)
	assert.Equal(t, "logs", cfg.InputDir)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"*.log", "vendor/**"}, cfg.IgnorePatterns)
	assert.True(t, cfg.ShowStats)
	assert.Equal(t, LineEndingCRLF, cfg.LineEnding)
	assert.False(t, cfg.ShowProgress)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Flatten)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.False(t, cfg.SkipBinary)
}

func TestFlags_Positional(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, parse(t, &cfg, "input.txt", "--color"))
	assert.Equal(t, "input.txt", cfg.InputFile)
	assert.Equal(t, ColorAlways, cfg.ColorMode)

	cfg = DefaultConfig()
	assert.Error(t, parse(t, &cfg, "a.txt", "b.txt"))

	cfg = DefaultConfig()
	assert.Error(t, parse(t, &cfg, "a.txt", "-d", "logs"))

	cfg = DefaultConfig()
	assert.Error(t, parse(t, &cfg, "--line-ending", "cr", "a.txt"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"output: out\nignore:\n  - \"*.bak\"\nline_ending: crlf\nstat: true\nprogress: false\n"), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"*.bak"}, cfg.IgnorePatterns)
	assert.Equal(t, LineEndingCRLF, cfg.LineEnding)
	assert.True(t, cfg.ShowStats)
	assert.False(t, cfg.ShowProgress)
	assert.Equal(t, ColorAuto, cfg.ColorMode, "absent keys keep defaults")
	assert.Equal(t, path, cfg.ConfigFile)

	// Flags still win over the file.
	require.NoError(t, parse(t, &cfg, "--line-ending", "lf", "x.txt"))
	assert.Equal(t, LineEndingLF, cfg.LineEnding)
	assert.Equal(t, "out", cfg.Output)
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("no_such_key: 1\n"), 0o644))
	assert.Error(t, LoadFile(path, &cfg))

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.NoError(t, LoadFile(empty, &cfg))
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "c.yaml", ConfigPath([]string{"--stat", "--config", "c.yaml", "in.txt"}))
	assert.Equal(t, "c.yaml", ConfigPath([]string{"--config=c.yaml"}))
	assert.Equal(t, "", ConfigPath([]string{"-d", "logs", "--ignore", "*.tmp"}))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DEDUPE_OUTPUT":      "out",
		"DEDUPE_IGNORE":      "*.log, tmp/** ,",
		"DEDUPE_LINE_ENDING": "CRLF",
		"DEDUPE_STAT":        "true",
		"DEDUPE_PROGRESS":    "0",
		"DEDUPE_COLOR":       "never",
	}
	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg, func(k string) string { return env[k] }))
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"*.log", "tmp/**"}, cfg.IgnorePatterns)
	assert.Equal(t, LineEndingCRLF, cfg.LineEnding)
	assert.True(t, cfg.ShowStats)
	assert.False(t, cfg.ShowProgress)
	assert.Equal(t, ColorNever, cfg.ColorMode)

	bad := map[string]string{"DEDUPE_STAT": "maybe"}
	cfg = DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg, func(k string) string { return bad[k] }))
}

func TestFlags_Modes(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, parse(t, &cfg, "-a", "-c", "-v", "-l", "run.log", "notes.txt"))
	assert.True(t, cfg.Analyze)
	assert.True(t, cfg.CheckOnly)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.Equal(t, "notes.txt", cfg.InputFile)
}
