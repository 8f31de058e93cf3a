// Package cdtext reassembles CD-TEXT from the raw packs returned by
// READ TOC format 5. Packs are validated by CRC, grouped into language
// blocks using the size-info record, and decoded into album and track
// metadata.
//
// Corrupt input never fails the whole decode: bad packs are skipped and
// inconsistent blocks are dropped, with the reason logged at V(1).
package cdtext

import (
	"encoding/binary"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/text/encoding"
)

// textTypes are the content types cross-checked against size info.
var textTypes = []PackType{
	TypeTitle, TypePerformer, TypeLyricist, TypeComposer, TypeArranger,
	TypeMessage, TypeIdentification, TypeGenre, TypeCode,
}

// sameAsPrevious marks a field repeating the previous piece.
const sameAsPrevious = "\t"

// Decode reassembles the CD-TEXT blocks in packs. It returns nil when the
// packs carry no usable CD-TEXT.
func Decode(packs []Pack, log logr.Logger) []Block {
	if len(packs) < 3 || packs[len(packs)-1].Type() != TypeSizeInfo {
		return nil
	}

	var raw []byte
	for _, p := range packs[len(packs)-3:] {
		raw = append(raw, p.Data()...)
	}
	si, err := ParseSizeInfo(raw)
	if err != nil {
		log.V(1).Info("no usable size info", "reason", err.Error())
		return nil
	}

	n := si.Blocks()
	if n == 0 {
		return nil
	}

	var blocks []Block
	cursor := 0
	for b := range n {
		end := si.LastSequence[b]
		if end >= len(packs) {
			log.V(1).Info("block extends past pack array", "block", b, "lastSequence", end, "packs", len(packs))
			end = len(packs) - 1
		}
		if cursor > end {
			log.V(1).Info("discarding block", "block", b, "reason", "no packs")
			continue
		}

		d := blockDecoder{number: b, language: si.Languages[b], log: log}
		if blk, ok := d.decode(packs[cursor : end+1]); ok {
			blocks = append(blocks, blk)
		}
		cursor = end + 1
	}
	return blocks
}

type blockDecoder struct {
	number   int
	language Language
	log      logr.Logger

	buffers [numTypes][]byte
	album   [numTypes]bool // some pack had track number 0
	dbcs    bool
	dec     *encoding.Decoder
}

func (d *blockDecoder) discard(reason string, kv ...any) (Block, bool) {
	d.log.V(1).Info("discarding block", append([]any{"block", d.number, "reason", reason}, kv...)...)
	return Block{}, false
}

func (d *blockDecoder) decode(packs []Pack) (Block, bool) {
	d.dbcs = packs[0].DBCS()

	for _, p := range packs {
		switch {
		case !p.Valid():
			d.log.V(1).Info("skipping pack", "block", d.number, "pack", p.Sequence(), "reason", "crc mismatch")
			continue
		case p.Extension():
			d.log.V(1).Info("skipping pack", "block", d.number, "pack", p.Sequence(), "reason", "extension")
			continue
		}
		if p.DBCS() != d.dbcs {
			d.log.V(1).Info("DBCS flag mismatch", "block", d.number, "pack", p.Sequence())
		}

		i, ok := p.Type().index()
		if !ok {
			d.log.V(1).Info("skipping pack", "block", d.number, "pack", p.Sequence(), "reason", "unknown type", "type", byte(p.Type()))
			continue
		}
		d.buffers[i] = append(d.buffers[i], p.Data()...)
		if p.Track() == 0 {
			d.album[i] = true
		}
	}

	si, err := ParseSizeInfo(d.buffer(TypeSizeInfo))
	if err != nil {
		return d.discard(err.Error())
	}
	for _, t := range textTypes {
		if want, got := si.PackCount(t)*PackDataSize, len(d.buffer(t)); want != got {
			return d.discard("pack count mismatch", "type", t.String(), "want", want, "got", got)
		}
	}

	tracks := si.TrackCount()
	if tracks == 0 {
		return d.discard("invalid track range", "first", si.FirstTrack, "last", si.LastTrack)
	}

	if d.dbcs {
		d.dec = wideDecoder()
	} else if d.dec, _ = si.CharacterCode.Decoder(); d.dec == nil {
		return d.discard("unsupported character code", "code", si.CharacterCode.String())
	}

	blk := Block{
		Number:        d.number,
		Language:      d.language,
		CharacterCode: si.CharacterCode,
		DBCS:          d.dbcs,
		FirstTrack:    si.FirstTrack,
		LastTrack:     si.LastTrack,
		Tracks:        make([]*TrackInfo, tracks),
	}

	album := AlbumInfo{
		Genre:          d.genre(),
		Identification: strings.TrimRight(latin1(d.buffer(TypeIdentification)), "\x00"),
	}
	info := make([]TrackInfo, tracks)

	fields := []struct {
		typ   PackType
		album *string
		track func(*TrackInfo) *string
	}{
		{TypeTitle, &album.Title, func(t *TrackInfo) *string { return &t.Title }},
		{TypePerformer, &album.Performer, func(t *TrackInfo) *string { return &t.Performer }},
		{TypeLyricist, &album.Lyricist, func(t *TrackInfo) *string { return &t.Lyricist }},
		{TypeComposer, &album.Composer, func(t *TrackInfo) *string { return &t.Composer }},
		{TypeArranger, &album.Arranger, func(t *TrackInfo) *string { return &t.Arranger }},
		{TypeMessage, &album.Message, func(t *TrackInfo) *string { return &t.Message }},
		{TypeCode, &album.ProductCode, func(t *TrackInfo) *string { return &t.Code }},
	}
	for _, f := range fields {
		values := d.field(f.typ, tracks)
		if values == nil {
			continue
		}
		i := 0
		if d.album[f.typ-firstType] {
			*f.album = values[0]
			i = 1
		}
		for n := range info {
			if i+n < len(values) {
				*f.track(&info[n]) = values[i+n]
			}
		}
	}

	if !album.empty() {
		blk.Album = &album
	}
	for n := range info {
		if !info[n].empty() {
			blk.Tracks[n] = &info[n]
		}
	}
	return blk, true
}

func (d *blockDecoder) buffer(t PackType) []byte {
	i, _ := t.index()
	return d.buffers[i]
}

// genre decodes the 2-byte big-endian genre code and Latin-1 description.
func (d *blockDecoder) genre() *Genre {
	b := d.buffer(TypeGenre)
	if len(b) < 2 {
		return nil
	}
	g := &Genre{Code: GenreCode(binary.BigEndian.Uint16(b[0:2]))}
	if s := strings.TrimRight(latin1(b[2:]), "\x00"); s != "" {
		g.Description = &s
	}
	return g
}

// field decodes a NUL-separated field into its pieces: one per track,
// preceded by the disc-level value when any pack had track number 0.
// A piece holding only a tab repeats the previous piece.
func (d *blockDecoder) field(t PackType, tracks int) []string {
	b := d.buffer(t)
	if len(b) == 0 {
		return nil
	}

	text, err := d.dec.Bytes(b)
	if err != nil {
		d.log.V(1).Info("undecodable field", "block", d.number, "type", t.String(), "reason", err.Error())
		return nil
	}

	want := tracks
	if d.album[t-firstType] {
		want++
	}

	pieces := strings.Split(string(text), "\x00")
	if len(pieces) < want {
		d.log.V(1).Info("insufficient pieces", "block", d.number, "type", t.String(), "want", want, "got", len(pieces))
	} else {
		pieces = pieces[:want]
	}

	for i, s := range pieces {
		if s != sameAsPrevious {
			continue
		}
		if i == 0 {
			d.log.V(1).Info("repeat marker without previous value", "block", d.number, "type", t.String())
			continue
		}
		pieces[i] = pieces[i-1]
	}
	return pieces
}
