package tree

import (
	"context"
	"io"

	internal "github.com/ki-aura/gtree/internal/tree"
)

// Re-export the types from the internal package.
type (
	// Options configures a tree walk.
	Options = internal.Options

	// FilterOptions narrows which file entries are listed and counted.
	FilterOptions = internal.FilterOptions

	// ActivityReport accumulates walk-lifetime totals.
	ActivityReport = internal.ActivityReport

	// Identity names a physical directory regardless of path.
	Identity = internal.Identity

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// WatchOptions configures live re-rendering of a tree.
	WatchOptions = internal.WatchOptions
)

// Re-export the constants.
const (
	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// Depth bounds
	HardDepthCeiling = internal.HardDepthCeiling
	MinDepth         = internal.MinDepth
)

// Walk renders the tree rooted at root to out and returns the accumulated
// report. Only a fatal configuration problem produces an error.
func Walk(ctx context.Context, root string, out io.Writer, opts Options) (*ActivityReport, error) {
	return internal.Walk(ctx, root, out, opts)
}

// Watch renders the tree once, then re-renders it whenever the watched
// hierarchy changes, until the context is canceled.
func Watch(ctx context.Context, root string, out io.Writer, opts Options, watchOpts WatchOptions) error {
	return internal.Watch(ctx, root, out, opts, watchOpts)
}
