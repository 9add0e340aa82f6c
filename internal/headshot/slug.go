package headshot

import (
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Slug turns a player name into the file-safe stem used for cached and
// hosted headshots: apostrophes and periods vanish, other symbols are
// dropped, and whitespace runs become underscores.
func Slug(name string) string {
	s := strings.NewReplacer("'", "", ".", "").Replace(name)
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return whitespace.ReplaceAllString(s, "_")
}

// FileName is the cache and hosting file name for a player.
func FileName(name string) string {
	return Slug(name) + ".png"
}
