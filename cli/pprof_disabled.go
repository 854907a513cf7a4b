//go:build !pprof

package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/flyux/profile"
)

// pprofConfig has no flags when built without the pprof tag.
type pprofConfig struct{}

func (pprofConfig) vars() kong.Vars { return kong.Vars{} }

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (requires build tag " + profile.Tag + ")"}
}

func (pprofConfig) start(context.Context) (stop func()) {
	return profile.Profiler{}.Start()
}
