package tag

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filename returns the shell-safe file name for a tagged track.
// This is a pure function.
//
// Format: Artist-Album-NN-Title.ext
// Multi-disc: Artist-Album-CDN-NN-Title.ext
// Compilation: Album-[CDN-]NN-TrackArtist-Title.ext
//
// Each component is folded to ASCII (ō→o, é→e). Spaces, path separators
// and shell metacharacters become single underscores; quotes are dropped.
func Filename(meta TrackMeta, ext string) string {
	var parts []string
	if meta.Compilation {
		parts = append(parts, sanitize(meta.Album))
	} else {
		parts = append(parts, sanitize(meta.Artist), sanitize(meta.Album))
	}

	if meta.DiscNum > 0 {
		parts = append(parts, fmt.Sprintf("CD%d", meta.DiscNum))
	}
	parts = append(parts, fmt.Sprintf("%02d", meta.TrackNum))

	if meta.Compilation {
		parts = append(parts, sanitize(meta.Artist))
	}
	parts = append(parts, sanitize(meta.Title))

	return strings.Join(parts, "-") + ext
}

// sanitize prepares a string for use in a filename.
func sanitize(s string) string {
	s = normalizeToASCII(s)

	var b strings.Builder
	b.Grow(len(s))

	lastWasUnderscore := false
	for _, r := range s {
		switch {
		case strings.ContainsRune("'\"`", r):
			// dropped
		case strings.ContainsRune(" /\\$!*?[](){}<>|&;", r):
			if !lastWasUnderscore {
				b.WriteByte('_')
				lastWasUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastWasUnderscore = r == '_'
		}
	}

	return strings.Trim(b.String(), "_")
}

// normalizeToASCII decomposes with NFKD, drops combining marks and then
// anything still outside ASCII.
func normalizeToASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, _ := transform.String(t, s)

	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII+1 {
			return r
		}
		return -1
	}, result)
}
