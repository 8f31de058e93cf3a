package cdtext

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// CharacterCode is the size-info character code of a block.
type CharacterCode byte

const (
	CharsetISO8859_1 CharacterCode = 0x00 // modified ISO 8859-1
	CharsetASCII     CharacterCode = 0x01 // ISO 646
	CharsetMSJIS     CharacterCode = 0x80 // music Shift-JIS
	CharsetKorean    CharacterCode = 0x81
	CharsetMandarin  CharacterCode = 0x82 // GB 2312
)

func (c CharacterCode) String() string {
	switch c {
	case CharsetISO8859_1:
		return "ISO-8859-1"
	case CharsetASCII:
		return "ASCII"
	case CharsetMSJIS:
		return "MS-JIS"
	case CharsetKorean:
		return "Korean"
	case CharsetMandarin:
		return "Mandarin"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(c))
	}
}

// Decoder returns a text decoder for the character code.
// Music Shift-JIS has no exact decoder; plain Shift-JIS stands in for it,
// so Japanese text is best-effort.
func (c CharacterCode) Decoder() (*encoding.Decoder, bool) {
	switch c {
	case CharsetISO8859_1:
		return charmap.ISO8859_1.NewDecoder(), true
	case CharsetASCII:
		return &encoding.Decoder{
			Transformer: transform.Chain(charmap.ISO8859_1.NewDecoder(), runes.Map(asciiOnly)),
		}, true
	case CharsetMSJIS:
		return japanese.ShiftJIS.NewDecoder(), true
	case CharsetKorean:
		return korean.EUCKR.NewDecoder(), true
	case CharsetMandarin:
		return simplifiedchinese.GBK.NewDecoder(), true
	default:
		return nil, false
	}
}

func asciiOnly(r rune) rune {
	if r > 0x7F {
		return utf8.RuneError
	}
	return r
}

// wideDecoder decodes DBCS blocks: 2-byte big-endian units.
func wideDecoder() *encoding.Decoder {
	return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
}

func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO 8859-1 maps every byte
		return string(b)
	}
	return string(s)
}
