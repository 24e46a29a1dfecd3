//go:build !windows

package gtree

import (
	"os"
	"syscall"
)

// identityOf extracts the (device, inode) pair from stat metadata. The
// path argument is unused on unix platforms; the bool result is false when
// the platform stat structure is unavailable.
func identityOf(path string, info os.FileInfo) (Identity, bool) {
	if info == nil {
		return Identity{}, false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Identity{}, false
	}
	return Identity{Dev: uint64(stat.Dev), Ino: uint64(stat.Ino)}, true
}
