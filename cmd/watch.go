package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	gtree "github.com/ki-aura/gtree/internal/tree"
	"github.com/spf13/cobra"
)

var (
	// Watch command options
	watchRecursive bool
	watchDebounce  time.Duration
	watchTimeout   time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [options] <path>",
	Short: "Re-render the tree whenever the hierarchy changes",
	Long: `Watch renders the directory tree once, then watches the hierarchy and
re-renders after each burst of filesystem changes.

Examples:
  gtree watch /path/to/render
  gtree watch --recursive -f -s /path/to/render
  gtree watch --debounce=1s --timeout=1h /path/to/render`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		opts := optionsFromConfig()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Watching %s for changes. Press Ctrl+C to exit.\n", root)

		err := gtree.Watch(ctx, root, os.Stdout, opts, gtree.WatchOptions{
			Recursive: watchRecursive,
			Debounce:  watchDebounce,
			Timeout:   watchTimeout,
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Define flags for the watch command
	watchCmd.Flags().BoolVar(&watchRecursive, "recursive", false, "Watch subdirectories recursively")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before re-rendering (default 250ms)")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Duration to watch before exiting (e.g. 1h, 30m)")
}
