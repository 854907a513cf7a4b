package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolved struct {
	Log struct {
		Level  string
		Pretty bool `default:"true" negatable:""`
	} `embed:"" prefix:"log-"`

	Path   []string
	Indent int
}

func parseWith(t *testing.T, config string, args ...string) resolved {
	t.Helper()

	res, err := resolveYAML(strings.NewReader(config))
	if err != nil {
		t.Fatalf("resolveYAML error: %v", err)
	}

	var cli resolved

	parser, err := kong.New(&cli, kong.Resolvers(res), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New error: %v", err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	return cli
}

func TestResolveYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		args   []string
		level  string
		pretty bool
		path   []string
		indent int
	}{
		{
			name:   "nested",
			config: "log:\n  level: debug\n  pretty: false\npath: [a, b]\nindent: 4\n",
			level:  "debug",
			path:   []string{"a", "b"},
			indent: 4,
		},
		{
			name:   "underscores",
			config: "log_level: error\n",
			level:  "error",
			pretty: true,
		},
		{
			name:   "flags win",
			config: "log:\n  level: debug\nindent: 4\n",
			args:   []string{"--log-level=info", "--indent=8"},
			level:  "info",
			pretty: true,
			indent: 8,
		},
		{
			name:   "empty",
			config: "",
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := parseWith(t, tt.config, tt.args...)

			if cli.Log.Level != tt.level || cli.Log.Pretty != tt.pretty {
				t.Errorf("log = %+v", cli.Log)
			}

			if !slices.Equal(cli.Path, tt.path) || cli.Indent != tt.indent {
				t.Errorf("path %q indent %d", cli.Path, cli.Indent)
			}
		})
	}
}

func TestResolveYAML_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := resolveYAML(strings.NewReader("log: [unclosed\n")); err == nil {
		t.Error("invalid YAML accepted")
	}
}
