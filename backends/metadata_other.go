//go:build !(linux || darwin || freebsd || netbsd || openbsd || windows)

package backends

import "io/fs"

// Hosts without a known native stat structure only report what fs.FileInfo carries
func extractHostMetadata(st *FileStatus, info fs.FileInfo) {}
