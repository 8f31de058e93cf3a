package cdtext

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
)

func TestCRC16(t *testing.T) {
	// CRC-16/XMODEM check value
	assert.Equal(t, uint16(0x31C3), crc([]byte("123456789")))
	assert.Equal(t, uint16(0), crc(nil))
}

func TestNewPack(t *testing.T) {
	p := NewPack(TypePerformer, 3, 0x2A, 5, true, []byte("Artist"))

	assert.Equal(t, TypePerformer, p.Type())
	assert.False(t, p.Extension())
	assert.Equal(t, 3, p.Track())
	assert.Equal(t, 0x2A, p.Sequence())
	assert.True(t, p.DBCS())
	assert.Equal(t, 5, p.Block())
	assert.Equal(t, 0, p.CharPosition())
	assert.Equal(t, []byte("Artist\x00\x00\x00\x00\x00\x00"), p.Data())
	assert.True(t, p.Valid())
}

func TestPack_Valid(t *testing.T) {
	p := NewPack(TypeTitle, 1, 0, 0, false, []byte("Title"))
	assert.Equal(t, p.ComputedCRC(), p.StoredCRC())

	p[4] = 'X'
	assert.False(t, p.Valid(), "payload change must break the CRC")

	p.SetCRC()
	assert.True(t, p.Valid())

	p[17] ^= 0x01
	assert.False(t, p.Valid(), "stored CRC change must break the CRC")
}

func TestPack_HeaderBits(t *testing.T) {
	var p Pack
	p[1] = 0x85 // extension, track 5
	p[3] = 0xB7 // DBCS, block 3, position 7

	assert.True(t, p.Extension())
	assert.Equal(t, 5, p.Track())
	assert.True(t, p.DBCS())
	assert.Equal(t, 3, p.Block())
	assert.Equal(t, 7, p.CharPosition())
}

func TestPackType_String(t *testing.T) {
	assert.Equal(t, "title", TypeTitle.String())
	assert.Equal(t, "size-info", TypeSizeInfo.String())
	assert.Equal(t, "unknown", PackType(0x8A).String())
	assert.Equal(t, "unknown", PackType(0x10).String())
}

func TestGenreCode_String(t *testing.T) {
	assert.Equal(t, "Jazz", GenreCode(14).String())
	assert.Equal(t, "Genre(200)", GenreCode(200).String())
}

func TestLanguage_String(t *testing.T) {
	assert.Equal(t, "English", LanguageEnglish.String())
	assert.Equal(t, "Japanese", LanguageJapanese.String())
	assert.Equal(t, "Language(0x30)", Language(0x30).String())
}

func FuzzDecode(f *testing.F) {
	var seed []byte
	for _, p := range buildPacks(englishAlbum()) {
		seed = append(seed, p[:]...)
	}
	f.Add(seed)
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		var packs []Pack
		for len(data) >= PackSize {
			var p Pack
			copy(p[:], data)
			packs = append(packs, p)
			data = data[PackSize:]
		}
		for _, b := range Decode(packs, logr.Discard()) {
			if len(b.Tracks) != b.LastTrack-b.FirstTrack+1 {
				t.Fatalf("block %d: %d tracks for range %d..%d", b.Number, len(b.Tracks), b.FirstTrack, b.LastTrack)
			}
		}
	})
}
