package impl

import (
	"path/filepath"
	"strings"

	domainerrors "docvault/internal/domain/errors"

	"github.com/pkg/errors"
)

const maxFilenameLength = 200

// SanitizeFilename validates a client supplied filename and rewrites it to [A-Za-z0-9._-].
// Names with a path separator or a ".." reference are rejected rather than repaired.
func SanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Wrap(domainerrors.ErrInvalidFilename, "filename is empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", errors.Wrapf(domainerrors.ErrInvalidFilename, "filename %q references a path", name)
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	safe := strings.TrimLeft(b.String(), ".")
	if strings.Trim(safe, "_.") == "" {
		return "", errors.Wrapf(domainerrors.ErrInvalidFilename, "filename %q has no usable characters", name)
	}

	if len(safe) > maxFilenameLength {
		ext := filepath.Ext(safe)
		if len(ext) > 16 {
			ext = ""
		}
		safe = safe[:maxFilenameLength-len(ext)] + ext
	}

	return safe, nil
}

// storedExtension returns the lowercase extension kept on blob keys.
func storedExtension(safeName string) string {
	return strings.ToLower(filepath.Ext(safeName))
}
