package gtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Box-drawing glyphs for the tree prefix and connectors.
const (
	glyphContinue   = "│   " // ancestor level with siblings still pending
	glyphBlank      = "    " // ancestor level already closed
	glyphBranch     = "├── " // entry with more siblings after it
	glyphLastBranch = "└── " // final entry of its parent
)

// renderer turns frame state plus an entry description into output lines.
// It is pure formatting: it never touches traversal state.
type renderer struct {
	out       io.Writer
	showStats bool
	color     bool
	fileStyle lipgloss.Style
}

func newRenderer(out io.Writer, opts Options) *renderer {
	return &renderer{
		out:       out,
		showStats: opts.ShowStats,
		color:     opts.Color,
		fileStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// prefix builds the ancestry columns for levels 1 up to, excluding, depth.
func (r *renderer) prefix(bits *ancestryBits, depth int) string {
	var b strings.Builder
	for i := 1; i < depth; i++ {
		if bits[i] {
			b.WriteString(glyphContinue)
		} else {
			b.WriteString(glyphBlank)
		}
	}
	return b.String()
}

func connector(isLast bool) string {
	if isLast {
		return glyphLastBranch
	}
	return glyphBranch
}

// dirLine prints a directory's own line: prefix, connector (omitted at the
// root), name, optional stats suffix, optional recursion marker.
func (r *renderer) dirLine(bits *ancestryBits, depth int, isLast bool, name string, recursive bool, fileCount int, fileBytes int64) {
	fmt.Fprint(r.out, r.prefix(bits, depth))
	if depth > 0 {
		fmt.Fprint(r.out, connector(isLast))
	}
	if r.showStats && fileCount > 0 {
		fmt.Fprintf(r.out, "%s [Files: %d] [Size: %s]%s\n", name, fileCount, humanSize(fileBytes), recursiveMarker(recursive))
	} else {
		fmt.Fprintf(r.out, "%s%s\n", name, recursiveMarker(recursive))
	}
}

// symDirLine prints a symlinked directory as @name -> target.
func (r *renderer) symDirLine(bits *ancestryBits, depth int, isLast bool, name, target string, recursive bool) {
	fmt.Fprint(r.out, r.prefix(bits, depth))
	if depth > 0 {
		fmt.Fprint(r.out, connector(isLast))
	}
	fmt.Fprintf(r.out, "@%s -> %s%s\n", name, target, recursiveMarker(recursive))
}

// fileLine prints one queued file line under its owning directory. Files
// get an indentation block rather than a branch connector; whether the
// block continues the vertical rule depends on the parent's last-sibling
// status.
func (r *renderer) fileLine(bits *ancestryBits, depth int, parentIsLast bool, text string) {
	fmt.Fprint(r.out, r.prefix(bits, depth))
	if depth > 0 {
		if parentIsLast {
			fmt.Fprint(r.out, glyphBlank)
		} else {
			fmt.Fprint(r.out, glyphContinue)
		}
	}
	if r.color {
		text = r.fileStyle.Render(text)
	}
	fmt.Fprintf(r.out, ": %s\n", text)
}

func recursiveMarker(recursive bool) string {
	if recursive {
		return " [recursive]"
	}
	return ""
}
