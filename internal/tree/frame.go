package gtree

import (
	"github.com/karrick/godirwalk"
)

// ancestryBits records, per ancestor depth level, whether that ancestor
// still had siblings pending when the current branch was entered. It is
// copied from parent to child on descent and consulted only for rendering.
type ancestryBits [HardDepthCeiling + 2]bool

// childEntry is one directory-typed entry discovered during a parent's
// scan phase, queued for a descent decision during drain.
type childEntry struct {
	path      string
	isSymlink bool   // the entry itself is a symbolic link
	symTarget string // raw link target text, empty unless isSymlink
}

// frame is one directory currently open along the active descent path.
// Frames go through three states: scanning (children not yet built),
// draining (children consumed one at a time), exhausted (popped).
type frame struct {
	path   string
	depth  int
	isLast bool

	ancestors ancestryBits

	scanner *godirwalk.Scanner

	scanned  bool
	children []childEntry
	next     int

	// aggregates for this directory only, not subtree-cumulative
	fileCount int
	fileBytes int64

	// pre-formatted file lines, in enumeration order
	fileLines []string
}

// newFrame opens path for enumeration and builds a frame at the given
// depth. An unopenable directory yields no frame at all, which is how a
// forbidden subtree drops out of the walk.
func newFrame(path string, depth int, parent *frame, isLast bool) (*frame, error) {
	scanner, err := godirwalk.NewScanner(path)
	if err != nil {
		return nil, err
	}
	f := &frame{
		path:    path,
		depth:   depth,
		isLast:  isLast,
		scanner: scanner,
	}
	if parent != nil {
		f.ancestors = parent.ancestors
	}
	return f, nil
}

// drained reports whether every queued child has been consumed.
func (f *frame) drained() bool {
	return f.next >= len(f.children)
}

// release discards the frame's queues. The directory handle owned by the
// scanner is closed when enumeration completes during the scan phase.
func (f *frame) release() {
	f.scanner = nil
	f.children = nil
	f.fileLines = nil
}
