package disc

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/cdda"
)

// MusicBrainz uses URL-safe characters: + → . / → _ = → -
var discIDReplacer = strings.NewReplacer("+", ".", "/", "_", "=", "-")

// discID computes the MusicBrainz disc ID.
// This is a pure function: track addresses → 28-char disc ID string.
//
// Algorithm:
// 1. Format track data as hex ASCII string
// 2. SHA-1 hash the string
// 3. Base64 encode with MusicBrainz URL-safe substitutions
func discID(first, last int, addresses [slots]int) string {
	// Format: "%02X%02X" + "%08X" * 100
	// - First track number (1 byte as 2 hex chars)
	// - Last track number (1 byte as 2 hex chars)
	// - 100 offsets as 8 hex chars each:
	//   - Index 0: lead-out offset
	//   - Index 1-99: track offsets (0 past the last track)
	var sb strings.Builder

	fmt.Fprintf(&sb, "%02X%02X", first, last)
	for i := range cdda.MaxTOCEntries {
		offset := 0
		if i <= last {
			offset = addresses[i]
		}
		fmt.Fprintf(&sb, "%08X", offset)
	}

	hash := sha1.Sum([]byte(sb.String()))
	return discIDReplacer.Replace(base64.StdEncoding.EncodeToString(hash[:]))
}
