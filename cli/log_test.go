package cli

import (
	"strings"
	"testing"

	"github.com/ardnew/flyux/log"
)

func TestBoolFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"--log-caller", true},
		{"--log-caller=true", true},
		{"--log-caller=false", false},
		{"--log-caller=0", false},
		{"--log-caller=maybe", true},
		{"--no-log-caller", false},
		{"--no-log-caller=false", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			name, value, assigned := strings.Cut(tt.arg, "=")
			if got := boolFlag(name, value, assigned); got != tt.want {
				t.Errorf("boolFlag = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	f := logConfig{Level: "warn", Format: "text", Pretty: true}
	f.scan([]string{
		"run", "--log-level", "debug",
		"--log-format=json",
		"--no-log-pretty",
		"--log-caller=false",
		"script.fx",
		"--", "--log-level=error",
	})

	if f.Level != "debug" || f.Format != "json" || f.Pretty || f.Caller {
		t.Errorf("scanned %+v", f)
	}

	if l := log.Default(); l.Level() != log.LevelDebug || l.Format() != log.FormatJSON {
		t.Errorf("logger level %v format %v", l.Level(), l.Format())
	}
}

func TestLogConfig_ScanInvalid(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	f := logConfig{Level: "warn"}
	f.scan([]string{"--log-level", "-v", "--log-level=loud"})

	if f.Level != "warn" {
		t.Errorf("invalid level accepted: %q", f.Level)
	}
}
