package codegen

import (
	"regexp"
	"strings"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	normalizer        = strings.NewReplacer(" ", "_", "-", "_")
)

// Normalize folds spaces and hyphens to underscores and lower-cases the
// result. It names generated functions and is the key for collision checks.
func Normalize(name string) string {
	return strings.ToLower(normalizer.Replace(name))
}

// IsValidIdentifier reports whether name starts with a letter or underscore
// and continues with letters, digits or underscores only.
func IsValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// slug turns a display name into a lower-case, hyphen separated file and
// module name.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "mcp-server"
	}
	return s
}
