//go:build !linux && !darwin

package locator

import "io/fs"

// Only size and modification time identify a file version here, so a
// same-size rewrite within one timestamp tick can be served from cache.
const hasFileIdentity = false

func fileIdentity(info fs.FileInfo) (uint64, int64) {
	return 0, 0
}
