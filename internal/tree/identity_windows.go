//go:build windows

package gtree

import (
	"hash/fnv"
	"os"
	"path/filepath"
)

// identityOf approximates filesystem identity on windows, where inode
// numbers are not exposed through os.FileInfo.Sys in a portable way. The
// fully resolved path stands in for the (device, inode) pair: symlink
// cycles still collapse because EvalSymlinks maps every alias of a
// directory to the same canonical path.
func identityOf(path string, info os.FileInfo) (Identity, bool) {
	if info == nil {
		return Identity{}, false
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Identity{}, false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return Identity{}, false
	}
	h := fnv.New64a()
	h.Write([]byte(abs))
	return Identity{Ino: h.Sum64()}, true
}
