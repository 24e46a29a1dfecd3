package gtree

import (
	"fmt"
	"os"
)

// entryClass is the outcome of classifying one directory entry.
type entryClass int

const (
	classIgnore       entryClass = iota // sockets, devices, unresolvable non-links
	classFile                           // regular file
	classLinkedFile                     // symlink resolving to a regular file
	classDanglingLink                   // symlink whose target cannot be resolved
	classDir                            // plain directory
	classLinkedDir                      // symlink resolving to a directory
)

// classify decides what a directory entry is from its link-status metadata
// (lst, from Lstat) and its resolved-target metadata (st, from Stat; nil
// when resolution failed). It is pure: counters are folded elsewhere.
func classify(lst, st os.FileInfo) entryClass {
	isLink := lst.Mode()&os.ModeSymlink != 0

	if isLink {
		switch {
		case st == nil:
			return classDanglingLink
		case st.IsDir():
			return classLinkedDir
		case st.Mode().IsRegular():
			return classLinkedFile
		default:
			return classIgnore
		}
	}

	switch {
	case st == nil:
		return classIgnore
	case st.IsDir():
		return classDir
	case st.Mode().IsRegular():
		return classFile
	default:
		return classIgnore
	}
}

// foldFile applies a file-like entry to the owning frame's aggregates and
// the global report, queueing a display line when listing is requested.
// Size comes from the resolved target, so a symlinked file contributes its
// target's size; a dangling link counts as a file of size zero.
func (w *walker) foldFile(f *frame, name, full string, class entryClass, st os.FileInfo) {
	if !w.opts.Filter.matchFile(name) {
		return
	}

	switch class {
	case classFile:
		f.fileCount++
		f.fileBytes += st.Size()
		w.report.TotalFiles++
		w.report.TotalFileBytes += st.Size()
		if w.opts.ShowFiles {
			f.fileLines = append(f.fileLines, name)
		}

	case classLinkedFile:
		f.fileCount++
		f.fileBytes += st.Size()
		w.report.TotalFiles++
		w.report.TotalFileBytes += st.Size()
		w.report.TotalLinkedFiles++
		if w.opts.ShowFiles {
			target, _ := os.Readlink(full)
			f.fileLines = append(f.fileLines, fmt.Sprintf("@%s (-> %s)", name, target))
		}

	case classDanglingLink:
		f.fileCount++
		w.report.TotalFiles++
		w.report.TotalLinkedFiles++
		if w.opts.ShowFiles {
			target, _ := os.Readlink(full)
			f.fileLines = append(f.fileLines, fmt.Sprintf("@%s -> %s [dangling]", name, target))
		}
	}
}
