package cdtext

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
)

type fieldSpec struct {
	typ   PackType
	album bool // first pack carries track number 0
	data  string
}

type blockSpec struct {
	dbcs    bool
	charset CharacterCode
	lang    Language
	first   int
	last    int
	fields  []fieldSpec
}

func chunk(data string) [][]byte {
	b := []byte(data)
	var out [][]byte
	for len(b) > 0 {
		n := min(len(b), PackDataSize)
		out = append(out, b[:n])
		b = b[n:]
	}
	return out
}

// buildPacks lays out blocks the way a drive reports them: text packs in
// field order, then three size-info packs per block, with sequence numbers
// running across blocks.
func buildPacks(blocks ...blockSpec) []Pack {
	var lastSeq [MaxBlocks]int
	seq := -1
	for i, b := range blocks {
		for _, f := range b.fields {
			seq += len(chunk(f.data))
		}
		seq += 3
		lastSeq[i] = seq
	}

	var packs []Pack
	seq = 0
	for i, b := range blocks {
		var counts [numTypes]int
		for _, f := range b.fields {
			for j, data := range chunk(f.data) {
				track := b.first
				if f.album && j == 0 {
					track = 0
				}
				packs = append(packs, NewPack(f.typ, track, seq, i, b.dbcs, data))
				counts[f.typ-firstType]++
				seq++
			}
		}
		counts[TypeSizeInfo-firstType] = 3

		si := make([]byte, SizeInfoSize)
		si[0] = byte(b.charset)
		si[1] = byte(b.first)
		si[2] = byte(b.last)
		for t, c := range counts {
			si[4+t] = byte(c)
		}
		for k := range MaxBlocks {
			si[20+k] = byte(lastSeq[k])
			if k < len(blocks) {
				si[28+k] = byte(blocks[k].lang)
			}
		}
		for j := range 3 {
			packs = append(packs, NewPack(TypeSizeInfo, j, seq, i, b.dbcs, si[j*PackDataSize:(j+1)*PackDataSize]))
			seq++
		}
	}
	return packs
}

// captureLog returns a V(1) logger and the messages written to it.
func captureLog() (logr.Logger, *[]string) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	return log, &lines
}

func englishAlbum() blockSpec {
	return blockSpec{
		charset: CharsetISO8859_1,
		lang:    LanguageEnglish,
		first:   1,
		last:    2,
		fields: []fieldSpec{
			{TypeTitle, true, "Album\x00First Song\x00Second Song\x00"},
			{TypePerformer, true, "The Band\x00\t\x00Guest\x00"},
			{TypeIdentification, true, "DISC-0001\x00"},
			{TypeGenre, true, "\x00\x05Jazz\x00"},
			{TypeCode, true, "0123456789012\x00USABC0000001\x00USABC0000002\x00"},
		},
	}
}

func TestDecode_Empty(t *testing.T) {
	assert.Nil(t, Decode(nil, logr.Discard()))
	assert.Nil(t, Decode([]Pack{}, logr.Discard()))

	packs := buildPacks(englishAlbum())
	assert.Nil(t, Decode(packs[len(packs)-2:], logr.Discard()))
}

func TestDecode_NotEndingInSizeInfo(t *testing.T) {
	packs := buildPacks(englishAlbum())
	packs = append(packs, NewPack(TypeTitle, 1, len(packs), 0, false, []byte("trailing")))

	assert.Nil(t, Decode(packs, logr.Discard()))
}

func TestDecode_SingleBlock(t *testing.T) {
	blocks := Decode(buildPacks(englishAlbum()), logr.Discard())
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, LanguageEnglish, b.Language)
	assert.Equal(t, CharsetISO8859_1, b.CharacterCode)
	assert.Equal(t, 1, b.FirstTrack)
	assert.Equal(t, 2, b.LastTrack)

	require.NotNil(t, b.Album)
	assert.Equal(t, "Album", b.Album.Title)
	assert.Equal(t, "The Band", b.Album.Performer)
	assert.Equal(t, "DISC-0001", b.Album.Identification)
	assert.Equal(t, "0123456789012", b.Album.ProductCode)
	require.NotNil(t, b.Album.Genre)
	assert.Equal(t, GenreCode(5), b.Album.Genre.Code)
	require.NotNil(t, b.Album.Genre.Description)
	assert.Equal(t, "Jazz", *b.Album.Genre.Description)

	require.Len(t, b.Tracks, 2)
	require.NotNil(t, b.Track(1))
	assert.Equal(t, "First Song", b.Track(1).Title)
	assert.Equal(t, "The Band", b.Track(1).Performer) // tab repeats the album performer
	assert.Equal(t, "USABC0000001", b.Track(1).Code)
	require.NotNil(t, b.Track(2))
	assert.Equal(t, "Second Song", b.Track(2).Title)
	assert.Equal(t, "Guest", b.Track(2).Performer)
	assert.Equal(t, "USABC0000002", b.Track(2).Code)
	assert.Nil(t, b.Track(3))
}

func TestDecode_RepeatPrevious(t *testing.T) {
	spec := blockSpec{
		first: 1, last: 2,
		fields: []fieldSpec{{TypeTitle, true, "Alpha\x00\t\x00"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	b := blocks[0]

	require.NotNil(t, b.Album)
	assert.Equal(t, "Alpha", b.Album.Title)
	require.NotNil(t, b.Track(1))
	assert.Equal(t, "Alpha", b.Track(1).Title)
	assert.Nil(t, b.Track(2), "empty piece yields no track entry")
}

func TestField_RepeatPreviousPieces(t *testing.T) {
	d := blockDecoder{log: logr.Discard(), dec: mustDecoder(t, CharsetISO8859_1)}
	d.buffers[0] = []byte("Alpha\x00\t\x00")
	d.album[0] = true

	assert.Equal(t, []string{"Alpha", "Alpha", ""}, d.field(TypeTitle, 2))
}

func TestField_TabInFirstPiece(t *testing.T) {
	log, lines := captureLog()
	d := blockDecoder{log: log, dec: mustDecoder(t, CharsetISO8859_1)}
	d.buffers[0] = []byte("\t\x00B\x00")

	assert.Equal(t, []string{"\t", "B"}, d.field(TypeTitle, 2))
	assert.True(t, logged(*lines, "repeat marker without previous value"))
}

func TestField_InsufficientPieces(t *testing.T) {
	log, lines := captureLog()
	d := blockDecoder{log: log, dec: mustDecoder(t, CharsetISO8859_1)}
	d.buffers[0] = []byte("Album\x00T1")
	d.album[0] = true

	assert.Equal(t, []string{"Album", "T1"}, d.field(TypeTitle, 2))
	assert.True(t, logged(*lines, "insufficient pieces"))
}

func TestField_ExtraPiecesDropped(t *testing.T) {
	d := blockDecoder{log: logr.Discard(), dec: mustDecoder(t, CharsetISO8859_1)}
	d.buffers[0] = []byte("A\x00B\x00C\x00\x00")

	assert.Equal(t, []string{"A"}, d.field(TypeTitle, 1))
}

func TestDecode_Genre(t *testing.T) {
	spec := blockSpec{
		first: 1, last: 1,
		fields: []fieldSpec{{TypeGenre, true, "\x00\x05Jazz"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Album)
	require.NotNil(t, blocks[0].Album.Genre)
	assert.Equal(t, GenreCode(5), blocks[0].Album.Genre.Code)
	require.NotNil(t, blocks[0].Album.Genre.Description)
	assert.Equal(t, "Jazz", *blocks[0].Album.Genre.Description)
	assert.Nil(t, blocks[0].Track(1))
}

func TestDecode_GenreWithoutDescription(t *testing.T) {
	spec := blockSpec{
		first: 1, last: 1,
		fields: []fieldSpec{{TypeGenre, true, "\x00\x0e\x00\x00"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Album)
	require.NotNil(t, blocks[0].Album.Genre)
	assert.Equal(t, GenreCode(14), blocks[0].Album.Genre.Code)
	assert.Nil(t, blocks[0].Album.Genre.Description)
}

func TestDecode_CRCMismatchDiscardsOnlyItsBlock(t *testing.T) {
	english := englishAlbum()
	german := englishAlbum()
	german.lang = LanguageGerman
	german.fields[0].data = "Album\x00Erstes Lied\x00Zweites Lied\x00"

	packs := buildPacks(english, german)
	packs[0][5] ^= 0xFF // corrupt the first title pack of block 0

	log, lines := captureLog()
	blocks := Decode(packs, log)

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, LanguageGerman, blocks[0].Language)
	assert.Equal(t, "Erstes Lied", blocks[0].Track(1).Title)
	assert.True(t, logged(*lines, "crc mismatch"))
	assert.True(t, logged(*lines, "pack count mismatch"))
}

func TestDecode_ExtensionPackSkipped(t *testing.T) {
	packs := buildPacks(englishAlbum())
	packs[0][1] |= 0x80
	packs[0].SetCRC()

	log, lines := captureLog()
	assert.Empty(t, Decode(packs, log))
	assert.True(t, logged(*lines, "extension"))
}

func TestDecode_DBCSMismatchIsNotFatal(t *testing.T) {
	packs := buildPacks(englishAlbum())
	packs[1][3] |= 0x80
	packs[1].SetCRC()

	log, lines := captureLog()
	blocks := Decode(packs, log)

	require.Len(t, blocks, 1)
	assert.Equal(t, "First Song", blocks[0].Track(1).Title)
	assert.True(t, logged(*lines, "DBCS flag mismatch"))
}

func TestDecode_UnknownCharacterCode(t *testing.T) {
	spec := englishAlbum()
	spec.charset = 0x42

	log, lines := captureLog()
	assert.Empty(t, Decode(buildPacks(spec), log))
	assert.True(t, logged(*lines, "unsupported character code"))
}

func TestDecode_Latin1(t *testing.T) {
	spec := blockSpec{
		charset: CharsetISO8859_1,
		first:   1, last: 1,
		fields: []fieldSpec{{TypeTitle, false, "Caf\xe9\x00"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].Album)
	assert.Equal(t, "Café", blocks[0].Track(1).Title)
}

func TestDecode_ASCIIReplacesHighBytes(t *testing.T) {
	spec := blockSpec{
		charset: CharsetASCII,
		first:   1, last: 1,
		fields: []fieldSpec{{TypeTitle, false, "Caf\xe9\x00"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	assert.Equal(t, "Caf\uFFFD", blocks[0].Track(1).Title)
}

func TestDecode_DBCS(t *testing.T) {
	spec := blockSpec{
		dbcs:  true,
		first: 1, last: 1,
		fields: []fieldSpec{
			// "日本" then U+0000 in UTF-16BE
			{TypeTitle, false, "\x65\xE5\x67\x2C\x00\x00"},
		},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].DBCS)
	assert.Equal(t, "日本", blocks[0].Track(1).Title)
}

// Music Shift-JIS is decoded as plain Shift-JIS. This checks the
// approximation on characters both encodings share, not a strict contract.
func TestDecode_ShiftJISApproximate(t *testing.T) {
	spec := blockSpec{
		charset: CharsetMSJIS,
		lang:    LanguageJapanese,
		first:   1, last: 1,
		fields: []fieldSpec{{TypeTitle, false, "\x93\xFA\x96\x7B\x00"}},
	}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	assert.Equal(t, "日本", blocks[0].Track(1).Title)
}

func TestDecode_NoFieldsYieldsNoEntries(t *testing.T) {
	spec := blockSpec{first: 1, last: 3}

	blocks := Decode(buildPacks(spec), logr.Discard())
	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].Album)
	assert.Equal(t, []*TrackInfo{nil, nil, nil}, blocks[0].Tracks)
}

func TestSizeInfo_Blocks(t *testing.T) {
	var si SizeInfo
	assert.Equal(t, 0, si.Blocks())

	si.LastSequence = [MaxBlocks]int{0x20, 0x41}
	assert.Equal(t, 2, si.Blocks())

	si.LastSequence = [MaxBlocks]int{0, 0, 0, 0, 0, 0, 0, 0x10}
	assert.Equal(t, 8, si.Blocks())
}

func TestParseSizeInfo_WrongLength(t *testing.T) {
	_, err := ParseSizeInfo(make([]byte, 24))
	assert.Error(t, err)
}

func mustDecoder(t *testing.T, c CharacterCode) *encoding.Decoder {
	t.Helper()
	dec, ok := c.Decoder()
	require.True(t, ok)
	return dec
}

func logged(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
