// Package pathutil confines caller supplied paths beneath an adapter root.
package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrForbidden is returned for paths that would leave the root or carry unsafe characters
var ErrForbidden = errors.New("path escapes root")

// Clean normalizes a root-relative path and rejects traversal above the root.
// The result always starts with "/".
func Clean(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	if filepath.IsAbs(path) && path != "/" {
		return "", ErrForbidden
	}

	cleaned := filepath.Clean("/" + strings.TrimPrefix(path, "/"))
	if cleaned == "/" {
		return cleaned, nil
	}

	// filepath.Clean silently drops ".." at the root, so walk the components
	depth := 0
	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch part {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", ErrForbidden
			}
		default:
			depth++
		}
	}

	return cleaned, nil
}

// SafeJoin joins root and rel, ensuring the result (after resolving symlinks,
// including dangling ones whose target does not exist yet) stays within root.
func SafeJoin(root, rel string) (string, error) {
	cleanRoot := filepath.Clean(root)

	cleanRel, err := Clean(rel)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(cleanRoot, strings.TrimPrefix(cleanRel, "/"))

	resolvedRoot, err := resolve(cleanRoot, 0)
	if err != nil {
		return "", err
	}

	resolved, err := resolve(joined, 0)
	if err != nil {
		return "", err
	}

	if !within(resolvedRoot, resolved) {
		return "", ErrForbidden
	}

	return joined, nil
}

// maxSymlinkHops bounds how many links resolve follows, matching the Linux MAXSYMLINKS limit
const maxSymlinkHops = 40

// resolve returns the path the host would actually touch for p. Existing paths go
// through EvalSymlinks; a dangling symlink is followed to its target; a missing
// component is appended to its resolved parent.
func resolve(p string, hops int) (string, error) {
	for ; hops <= maxSymlinkHops; hops++ {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return resolved, nil
		}

		info, err := os.Lstat(p)
		if err == nil && info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(p)
			if err != nil {
				return "", fmt.Errorf("failed to read link %s: %w", p, err)
			}
			if !filepath.IsAbs(target) {
				dir, err := resolve(filepath.Dir(p), hops+1)
				if err != nil {
					return "", err
				}
				target = filepath.Join(dir, target)
			}
			p = filepath.Clean(target)
			continue
		}

		dir := filepath.Dir(p)
		if dir == p {
			return p, nil
		}
		parent, err := resolve(dir, hops)
		if err != nil {
			return "", err
		}
		return filepath.Join(parent, filepath.Base(p)), nil
	}

	return "", fmt.Errorf("%w: too many symlinks", ErrForbidden)
}

// ValidatePath rejects empty paths, null bytes, control characters and traversal
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return ErrForbidden
	}

	for _, char := range path {
		if char < 32 && char != '\t' {
			return ErrForbidden
		}
	}

	_, err := Clean(path)
	return err
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
