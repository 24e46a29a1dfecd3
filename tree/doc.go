// Package tree provides cycle-safe directory tree rendering with summary
// statistics.
//
// This package is the public face of the `gtree` command: it renders a
// directory hierarchy as a box-drawing tree, breaking symlink cycles by
// filesystem identity rather than path text, with a hard depth bound.

// Watch Functionality
//
// The tree package can re-render a tree whenever the hierarchy changes:
//
//	// Basic usage
//	opts := tree.Options{ShowFiles: true}
//	report, err := tree.Walk(context.Background(), "/path/to/render", os.Stdout, opts)
//
//	// Live re-rendering on change
//	watchOpts := tree.WatchOptions{
//		Recursive: true,
//		Debounce:  500 * time.Millisecond,
//	}
//	err := tree.Watch(context.Background(), "/path/to/render", os.Stdout, opts, watchOpts)

package tree
