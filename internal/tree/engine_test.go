package gtree

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mustSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
}

func walkToString(t *testing.T, root string, opts Options) (string, *ActivityReport) {
	t.Helper()
	opts.Logger = zap.NewNop()
	var buf bytes.Buffer
	report, err := Walk(context.Background(), root, &buf, opts)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	return buf.String(), report
}

// TestWalkCountsDirectories tests that every reachable directory is
// entered exactly once and the totals line up
func TestWalkCountsDirectories(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "a", "a1"))
	mustMkdir(t, filepath.Join(root, "a", "a2"))
	mustMkdir(t, filepath.Join(root, "b"))

	out, report := walkToString(t, root, Options{})

	// root, a, a1, a2, b
	if report.TotalDirectories != 5 {
		t.Errorf("TotalDirectories = %d, want 5", report.TotalDirectories)
	}
	if report.TotalLinkedDirectories != 0 {
		t.Errorf("TotalLinkedDirectories = %d, want 0", report.TotalLinkedDirectories)
	}
	if report.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", report.MaxDepth)
	}

	for _, name := range []string{"a", "a1", "a2", "b"} {
		if got := strings.Count(out, name+"\n"); got != 1 {
			t.Errorf("directory %q rendered %d times, want 1", name, got)
		}
	}
}

// TestWalkCycleScenario tests the canonical loop: R contains file f.txt
// and subdirectory A, and A contains a symlink back to R
func TestWalkCycleScenario(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "f.txt"), 10)
	mustMkdir(t, filepath.Join(root, "A"))
	mustSymlink(t, root, filepath.Join(root, "A", "loop"))

	out, report := walkToString(t, root, Options{FollowLinks: true, ShowFiles: true})

	cleanRoot := filepath.Clean(root)
	want := cleanRoot + "\n" +
		": f.txt\n" +
		"└── A\n" +
		"    └── @loop -> " + root + " [recursive]\n"
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}

	if report.TotalDirectories != 2 {
		t.Errorf("TotalDirectories = %d, want 2", report.TotalDirectories)
	}
	if report.TotalLinkedDirectories != 1 {
		t.Errorf("TotalLinkedDirectories = %d, want 1", report.TotalLinkedDirectories)
	}
	if report.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", report.TotalFiles)
	}
	if report.TotalFileBytes != 10 {
		t.Errorf("TotalFileBytes = %d, want 10", report.TotalFileBytes)
	}
	if report.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", report.MaxDepth)
	}
}

// TestWalkCycleNotReentered tests that a cycle link never causes a
// re-descent even across repeated siblings
func TestWalkCycleNotReentered(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "sub"))
	mustSymlink(t, root, filepath.Join(root, "sub", "up1"))
	mustSymlink(t, root, filepath.Join(root, "sub", "up2"))

	out, report := walkToString(t, root, Options{FollowLinks: true})

	if got := strings.Count(out, "[recursive]"); got != 2 {
		t.Errorf("recursive markers = %d, want 2", got)
	}
	// root and sub only; the loops must not add directories
	if report.TotalDirectories != 2 {
		t.Errorf("TotalDirectories = %d, want 2", report.TotalDirectories)
	}
	if report.TotalLinkedDirectories != 2 {
		t.Errorf("TotalLinkedDirectories = %d, want 2", report.TotalLinkedDirectories)
	}
	// sub rendered exactly once: one entry, never revisited
	if got := strings.Count(out, "── sub\n"); got != 1 {
		t.Errorf("sub rendered %d times, want 1", got)
	}
}

// TestWalkSymlinkSharedTarget tests that two links to the same directory
// descend once and mark the second occurrence recursive
func TestWalkSymlinkSharedTarget(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	mustMkdir(t, target)
	mustSymlink(t, target, filepath.Join(root, "via1"))
	mustSymlink(t, target, filepath.Join(root, "via2"))

	out, report := walkToString(t, root, Options{FollowLinks: true})

	if got := strings.Count(out, "[recursive]"); got < 1 {
		t.Errorf("expected at least one recursive marker, got %d\n%s", got, out)
	}
	// root + real, counted once no matter how many aliases
	if report.TotalDirectories != 2 {
		t.Errorf("TotalDirectories = %d, want 2", report.TotalDirectories)
	}
	if report.TotalLinkedDirectories != 2 {
		t.Errorf("TotalLinkedDirectories = %d, want 2", report.TotalLinkedDirectories)
	}
}

// TestWalkDepthBound tests that the configured bound stops descent
func TestWalkDepthBound(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "l1", "l2", "l3", "l4"))

	out, report := walkToString(t, root, Options{MaxDepth: 2})

	if !strings.Contains(out, "l1") {
		t.Error("l1 should be rendered")
	}
	if !strings.Contains(out, "l2") {
		t.Error("l2 should be rendered at the bound without descent")
	}
	if strings.Contains(out, "l3") {
		t.Errorf("l3 lies beyond the bound and must not appear:\n%s", out)
	}
	if strings.Contains(out, "[recursive]") {
		t.Error("depth cut must not be marked recursive")
	}
	// attempted depth at the bound is recorded
	if report.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", report.MaxDepth)
	}
}

// TestWalkDepthClamp tests the minimum depth clamp
func TestWalkDepthClamp(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "l1", "l2"))

	// a requested depth of 1 still runs to 2
	out, _ := walkToString(t, root, Options{MaxDepth: 1})
	if !strings.Contains(out, "l1") {
		t.Errorf("l1 missing with clamped depth:\n%s", out)
	}
}

// TestWalkOrdering tests that children appear in raw enumeration order
// and only the final child carries the last-sibling connector
func TestWalkOrdering(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		mustMkdir(t, filepath.Join(root, name))
	}

	dirents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	var expected []string
	for _, de := range dirents {
		if de.IsDir() {
			expected = append(expected, de.Name())
		}
	}

	out, _ := walkToString(t, root, Options{})
	var rendered []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, glyphBranch) || strings.HasPrefix(line, glyphLastBranch) {
			rendered = append(rendered, line[len(glyphBranch):])
		}
	}

	if len(rendered) != len(expected) {
		t.Fatalf("rendered %d children, want %d\n%s", len(rendered), len(expected), out)
	}
	for i := range expected {
		if rendered[i] != expected[i] {
			t.Errorf("child %d = %q, want %q", i, rendered[i], expected[i])
		}
	}

	// only the final child is the last sibling
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for i, line := range lines[1:] {
		isLast := i == len(lines)-2
		wantPrefix := glyphBranch
		if isLast {
			wantPrefix = glyphLastBranch
		}
		if !strings.HasPrefix(line, wantPrefix) {
			t.Errorf("line %q: connector mismatch (last=%v)", line, isLast)
		}
	}
}

// TestWalkHiddenSuppression tests dot-entry handling with and without
// hidden mode
func TestWalkHiddenSuppression(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, ".secret"), 5)
	mustWriteFile(t, filepath.Join(root, "visible.txt"), 7)

	out, report := walkToString(t, root, Options{ShowFiles: true})
	if strings.Contains(out, ".secret") {
		t.Error(".secret should be suppressed by default")
	}
	if !strings.Contains(out, "visible.txt") {
		t.Error("visible.txt should be listed")
	}
	if report.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", report.TotalFiles)
	}

	out, report = walkToString(t, root, Options{ShowFiles: true, ShowHidden: true})
	if !strings.Contains(out, ".secret") {
		t.Error(".secret should be listed in hidden mode")
	}
	if report.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", report.TotalFiles)
	}
	if report.TotalFileBytes != 12 {
		t.Errorf("TotalFileBytes = %d, want 12", report.TotalFileBytes)
	}
}

// TestWalkFileClassification tests linked and dangling file handling
func TestWalkFileClassification(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "plain.txt"), 100)
	mustSymlink(t, filepath.Join(root, "plain.txt"), filepath.Join(root, "alias"))
	mustSymlink(t, filepath.Join(root, "gone"), filepath.Join(root, "broken"))

	out, report := walkToString(t, root, Options{ShowFiles: true})

	if report.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", report.TotalFiles)
	}
	if report.TotalLinkedFiles != 2 {
		t.Errorf("TotalLinkedFiles = %d, want 2", report.TotalLinkedFiles)
	}
	// plain.txt counted once directly and once through the alias
	if report.TotalFileBytes != 200 {
		t.Errorf("TotalFileBytes = %d, want 200", report.TotalFileBytes)
	}
	if !strings.Contains(out, "@alias (-> ") {
		t.Errorf("linked file annotation missing:\n%s", out)
	}
	if !strings.Contains(out, "@broken -> ") || !strings.Contains(out, "[dangling]") {
		t.Errorf("dangling annotation missing:\n%s", out)
	}
}

// TestWalkSymlinkDirNotFollowed tests that without follow mode a linked
// directory is reported but never entered
func TestWalkSymlinkDirNotFollowed(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	mustMkdir(t, target)
	mustWriteFile(t, filepath.Join(target, "inner.txt"), 1)
	mustSymlink(t, target, filepath.Join(root, "link"))

	out, report := walkToString(t, root, Options{ShowFiles: true})

	if !strings.Contains(out, "@link -> "+target) {
		t.Errorf("symlinked directory line missing:\n%s", out)
	}
	if report.TotalLinkedDirectories != 1 {
		t.Errorf("TotalLinkedDirectories = %d, want 1", report.TotalLinkedDirectories)
	}
	// inner.txt is reachable only through the link, so once via real
	if report.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", report.TotalFiles)
	}
}

// TestWalkFilterPattern tests that the name filter narrows listing and
// counting without touching directories
func TestWalkFilterPattern(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "keep.go"), 10)
	mustWriteFile(t, filepath.Join(root, "drop.txt"), 20)
	mustMkdir(t, filepath.Join(root, "subdir"))

	out, report := walkToString(t, root, Options{
		ShowFiles: true,
		Filter:    FilterOptions{Pattern: "*.go"},
	})

	if !strings.Contains(out, "keep.go") {
		t.Error("keep.go should be listed")
	}
	if strings.Contains(out, "drop.txt") {
		t.Error("drop.txt should be filtered out")
	}
	if !strings.Contains(out, "subdir") {
		t.Error("directories are never filtered")
	}
	if report.TotalFiles != 1 {
		t.Errorf("TotalFiles = %d, want 1", report.TotalFiles)
	}
	if report.TotalFileBytes != 10 {
		t.Errorf("TotalFileBytes = %d, want 10", report.TotalFileBytes)
	}
}

// TestWalkStatsSuffix tests the per-directory stats suffix
func TestWalkStatsSuffix(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "full")
	mustMkdir(t, sub)
	mustWriteFile(t, filepath.Join(sub, "a"), 1024)
	mustWriteFile(t, filepath.Join(sub, "b"), 512)
	mustMkdir(t, filepath.Join(root, "empty"))

	out, _ := walkToString(t, root, Options{ShowStats: true})

	if !strings.Contains(out, "full [Files: 2] [Size: 1.5K]") {
		t.Errorf("stats suffix missing:\n%s", out)
	}
	if strings.Contains(out, "empty [Files") {
		t.Errorf("empty directory must not get a stats suffix:\n%s", out)
	}
}

// TestWalkRootErrors tests fatal configuration errors
func TestWalkRootErrors(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Logger: zap.NewNop()}

	if _, err := Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), &buf, opts); err == nil {
		t.Error("missing root should be a fatal error")
	}
	if buf.Len() != 0 {
		t.Errorf("no output expected before a fatal error, got %q", buf.String())
	}

	file := filepath.Join(t.TempDir(), "f")
	mustWriteFile(t, file, 1)
	if _, err := Walk(context.Background(), file, &buf, opts); err == nil {
		t.Error("non-directory root should be a fatal error")
	}
}

// TestWalkUnopenableSubdir tests that a forbidden subtree is skipped, not
// fatal
func TestWalkUnopenableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	mustMkdir(t, filepath.Join(locked, "inside"))
	mustMkdir(t, filepath.Join(root, "open"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	out, report := walkToString(t, root, Options{})

	if strings.Contains(out, "inside") {
		t.Error("contents of an unopenable directory must not appear")
	}
	if !strings.Contains(out, "open") {
		t.Error("walk should continue past an unopenable sibling")
	}
	// root and open; locked yields no frame and is not counted
	if report.TotalDirectories != 2 {
		t.Errorf("TotalDirectories = %d, want 2", report.TotalDirectories)
	}
}

// TestWalkAggregationConsistency tests that directory-local totals sum to
// the global report
func TestWalkAggregationConsistency(t *testing.T) {
	root := t.TempDir()
	sizes := map[string]int{
		"one.txt":        3,
		"sub/two.txt":    5,
		"sub/three.txt":  7,
		"sub/deep/four":  11,
		"other/five.txt": 13,
	}
	var wantBytes int64
	for rel, size := range sizes {
		full := filepath.Join(root, rel)
		mustMkdir(t, filepath.Dir(full))
		mustWriteFile(t, full, size)
		wantBytes += int64(size)
	}

	out, report := walkToString(t, root, Options{ShowStats: true})

	if report.TotalFiles != len(sizes) {
		t.Errorf("TotalFiles = %d, want %d", report.TotalFiles, len(sizes))
	}
	if report.TotalFileBytes != wantBytes {
		t.Errorf("TotalFileBytes = %d, want %d", report.TotalFileBytes, wantBytes)
	}

	// every populated directory reports its own slice of the totals
	var sumFiles int
	for _, line := range strings.Split(out, "\n") {
		if i := strings.Index(line, "[Files: "); i >= 0 {
			var n int
			if _, err := fmt.Sscanf(line[i:], "[Files: %d]", &n); err != nil {
				t.Fatalf("unparseable stats line %q", line)
			}
			sumFiles += n
		}
	}
	if sumFiles != report.TotalFiles {
		t.Errorf("per-directory file counts sum to %d, report says %d", sumFiles, report.TotalFiles)
	}
}

// TestWalkCanceledContext tests that cancellation stops the walk
func TestWalkCanceledContext(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if _, err := Walk(ctx, root, &buf, Options{Logger: zap.NewNop()}); err == nil {
		t.Error("canceled context should surface an error")
	}
}
