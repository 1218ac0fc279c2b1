package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/backmassage/dedupe/internal/config"
)

func TestConfigure(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		mode config.ColorMode
		want bool
	}{
		{config.ColorAlways, true},
		{config.ColorNever, false},
		{config.ColorAuto, false}, // a regular file is not a TTY
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			Configure(tt.mode, f)
			if Enabled() != tt.want {
				t.Errorf("Enabled() = %v, want %v", Enabled(), tt.want)
			}
		})
	}
}

func TestColorsPlainWhenDisabled(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	Configure(config.ColorNever, nil)
	if got := Red.Sprint("x"); got != "x" {
		t.Errorf("Red.Sprint with colors off = %q, want %q", got, "x")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true")
	}
}
