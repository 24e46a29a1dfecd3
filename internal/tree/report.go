package gtree

import (
	"fmt"
	"io"
)

// ActivityReport accumulates walk-lifetime totals. Counters are only ever
// incremented, by the traversal engine and the classifier fold, and read
// once at the end for the summary block.
type ActivityReport struct {
	TotalDirectories       int   // distinct directory identities entered, root inclusive
	TotalLinkedDirectories int   // symlinked directories encountered, entered or not
	TotalFiles             int   // regular files counted, dangling links included
	TotalLinkedFiles       int   // counted files that are themselves symlinks
	TotalFileBytes         int64 // bytes summed across counted files
	MaxDepth               int   // deepest level reached, root = 0
}

// trackDepth raises the maximum depth watermark.
func (r *ActivityReport) trackDepth(depth int) {
	if depth > r.MaxDepth {
		r.MaxDepth = depth
	}
}

// Summary writes the closing totals block. File totals only appear when
// the walk was asked to look at files (listing or per-directory stats).
func (r *ActivityReport) Summary(w io.Writer, withFiles bool) {
	fmt.Fprintf(w, "\nTotal Number of Directories traversed %d (containing %d links)\n"+
		"Maximum depth descended: %d\n",
		r.TotalDirectories, r.TotalLinkedDirectories, r.MaxDepth)

	if withFiles {
		fmt.Fprintf(w, "Total Number of Files: %d (of which %d are linked)\n"+
			"Total File Size: %s\n",
			r.TotalFiles, r.TotalLinkedFiles, humanSize(r.TotalFileBytes))
	}
}

// humanSize formats a byte count with binary prefixes, one decimal place
// except for plain bytes: 512B, 4.5K, 2.1M.
func humanSize(bytes int64) string {
	units := []string{"B", "K", "M", "G", "T"}
	size := float64(bytes)
	u := 0
	for size >= 1024.0 && u < len(units)-1 {
		size /= 1024.0
		u++
	}
	if u == 0 {
		return fmt.Sprintf("%.0f%s", size, units[u])
	}
	return fmt.Sprintf("%.1f%s", size, units[u])
}
