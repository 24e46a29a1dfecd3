// Package gtree renders a directory hierarchy as a box-drawing tree while
// detecting symlink cycles by filesystem identity and accumulating summary
// statistics.
//
// The traversal is depth-first but non-recursive: an explicit stack holds
// one frame per directory open along the current path, and each frame
// moves through a scan phase (enumerate entries, classify, queue children)
// followed by a drain phase (decide descent per queued child). Depth is
// hard-bounded, so neither the stack nor the ancestry bookkeeping can grow
// without limit regardless of symlink trickery.
package gtree

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// walker holds the shared state of one traversal run: the frame stack, the
// identity set, and the report accumulator. All of it is owned by the
// single goroutine driving the walk.
type walker struct {
	opts    Options
	logger  *zap.Logger
	render  *renderer
	visited *identitySet
	report  *ActivityReport
	stack   []*frame
}

// Walk renders the tree rooted at root to out and returns the accumulated
// report. Only a fatal configuration problem (root missing, not a
// directory, or unopenable) produces an error; everything else is absorbed
// and logged, and the walk carries on.
func Walk(ctx context.Context, root string, out io.Writer, opts Options) (*ActivityReport, error) {
	opts = opts.normalize()

	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
		defer logger.Sync()
	}

	rootPath := filepath.Clean(root)
	rootInfo, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid starting directory %q: %w", root, err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("invalid starting directory %q: not a directory", root)
	}

	w := &walker{
		opts:    opts,
		logger:  logger,
		render:  newRenderer(out, opts),
		visited: newIdentitySet(),
		report:  &ActivityReport{},
	}

	rootFrame, err := newFrame(rootPath, 0, nil, false)
	if err != nil {
		return nil, fmt.Errorf("invalid starting directory %q: %w", root, err)
	}
	w.stack = append(w.stack, rootFrame)

	// Register the root's identity up front so a symlink looping back to
	// the root is caught like any other cycle.
	if id, ok := identityOf(rootPath, rootInfo); ok {
		if w.visited.register(id) {
			w.report.TotalDirectories++
		}
	}

	for len(w.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return w.report, err
		}

		f := w.stack[len(w.stack)-1]

		if !f.scanned {
			w.scan(f)
			continue
		}
		if !f.drained() {
			w.drainStep(f)
			continue
		}

		f.release()
		w.stack = w.stack[:len(w.stack)-1]
	}

	return w.report, nil
}

// scan enumerates the frame's directory in raw filesystem order, folding
// file-like entries into the aggregates and queueing directory-typed
// entries for the drain phase. It then emits the directory's own line
// followed by its file lines, so files always print before any child
// directory is descended into.
func (w *walker) scan(f *frame) {
	f.scanned = true

	for f.scanner.Scan() {
		name := f.scanner.Name()
		if name == "." || name == ".." {
			continue
		}
		if !w.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(f.path, name)

		lst, err := os.Lstat(full)
		if err != nil {
			w.logger.Warn("lstat failed, skipping entry",
				zap.String("path", full), zap.Error(err))
			continue
		}
		st, err := os.Stat(full)
		if err != nil {
			st = nil // unresolved target: degrade, don't abort
		}

		switch class := classify(lst, st); class {
		case classDir, classLinkedDir:
			child := childEntry{path: full, isSymlink: class == classLinkedDir}
			if child.isSymlink {
				child.symTarget, _ = os.Readlink(full)
			}
			f.children = append(f.children, child)
		default:
			w.foldFile(f, name, full, class, st)
		}
	}
	if err := f.scanner.Err(); err != nil {
		w.logger.Warn("directory enumeration failed",
			zap.String("path", f.path), zap.Error(err))
	}

	name := f.path
	if f.depth > 0 {
		name = filepath.Base(f.path)
	}
	w.render.dirLine(&f.ancestors, f.depth, f.isLast, name, false, f.fileCount, f.fileBytes)
	for _, line := range f.fileLines {
		w.render.fileLine(&f.ancestors, f.depth, f.isLast, line)
	}
}

// drainStep consumes the frame's next queued child and decides whether to
// descend. Identity is resolved through any symlink, so two paths to the
// same physical directory collapse to one visit.
func (w *walker) drainStep(f *frame) {
	child := f.children[f.next]
	f.next++
	isLastChild := f.drained()

	nextDepth := f.depth + 1
	f.ancestors[nextDepth] = !isLastChild

	st, statErr := os.Stat(child.path)
	var id Identity
	idOK := false
	if statErr == nil {
		id, idOK = identityOf(child.path, st)
	}

	if child.isSymlink {
		already := idOK && w.visited.contains(id)
		w.render.symDirLine(&f.ancestors, nextDepth, isLastChild,
			filepath.Base(child.path), child.symTarget, already)

		// counted whenever resolution succeeded, entered or not
		if statErr == nil {
			w.report.TotalLinkedDirectories++
		}

		depthLimited := nextDepth >= w.opts.MaxDepth
		if !already && w.opts.FollowLinks && statErr == nil && !depthLimited {
			w.push(child.path, nextDepth, f, isLastChild, id, idOK)
		} else if !already && depthLimited {
			// record the attempted level so the reported maximum is the
			// same whether or not the bound cut this branch short
			w.report.trackDepth(nextDepth)
		}
		return
	}

	if statErr != nil || !st.IsDir() {
		// vanished or changed type since the scan; drop the entry
		return
	}

	already := idOK && w.visited.contains(id)
	depthLimited := nextDepth >= w.opts.MaxDepth

	if !already && !depthLimited {
		w.push(child.path, nextDepth, f, isLastChild, id, idOK)
		return
	}

	// not descended: render here, marking recursive only for a true
	// revisit, never for a mere depth cut
	w.render.dirLine(&f.ancestors, nextDepth, isLastChild,
		filepath.Base(child.path), already, 0, 0)
	if idOK && w.visited.register(id) {
		w.report.TotalDirectories++
	}
	w.report.trackDepth(nextDepth)
}

// push opens a child directory and stacks its frame. An open failure skips
// the subtree: no frame, no registration, no count.
func (w *walker) push(path string, depth int, parent *frame, isLast bool, id Identity, idOK bool) {
	childFrame, err := newFrame(path, depth, parent, isLast)
	if err != nil {
		w.logger.Warn("cannot open directory, skipping subtree",
			zap.String("path", path), zap.Error(err))
		return
	}
	if idOK && w.visited.register(id) {
		w.report.TotalDirectories++
	}
	w.stack = append(w.stack, childFrame)
	w.report.trackDepth(depth)
}
