package locator

import (
	"io/fs"
	"syscall"
)

const hasFileIdentity = true

// fileIdentity returns the inode and change time of info
func fileIdentity(info fs.FileInfo) (uint64, int64) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return st.Ino, st.Ctim.Nano()
}
