package gtree

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// FilterOptions narrows which file entries are listed and counted.
// Directories are never filtered; pruning the tree itself would make the
// rendered structure misleading.
type FilterOptions struct {
	// Pattern is a glob matched against the base name of file-like
	// entries. Empty matches everything.
	Pattern string
}

// matchFile reports whether a file entry with the given base name passes
// the filter. Names and patterns are NFC-normalized first so that
// decomposed unicode from the filesystem still matches composed patterns.
func (f FilterOptions) matchFile(name string) bool {
	if f.Pattern == "" {
		return true
	}
	matched, err := filepath.Match(norm.NFC.String(f.Pattern), norm.NFC.String(name))
	if err != nil {
		return false
	}
	return matched
}
