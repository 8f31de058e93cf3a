package cdda

import (
	"errors"
	"testing"

	"github.com/binaryphile/crostini-discid/internal/cdtext"
)

func subChannelResponse(format SubChannelFormat, track byte, valid bool, code string) []byte {
	raw := make([]byte, SubChannelResponseSize)
	raw[1] = 0x15 // audio status: no current status
	raw[3] = 0x14 // data length: 20
	raw[4] = byte(format)
	raw[6] = track
	if valid {
		raw[8] = 0x80
	}
	copy(raw[9:], code)
	return raw
}

func TestParseMCN(t *testing.T) {
	resp, err := ParseMCN(subChannelResponse(SubChannelMCN, 0, true, "0724384960650"))
	if err != nil {
		t.Fatalf("ParseMCN failed: %v", err)
	}

	if !resp.Valid {
		t.Error("Valid = false, want true")
	}
	if resp.MCN != "0724384960650" {
		t.Errorf("MCN = %q, want %q", resp.MCN, "0724384960650")
	}
	if resp.Length != 20 {
		t.Errorf("Length = %d, want 20", resp.Length)
	}
	if resp.AudioStatus != 0x15 {
		t.Errorf("AudioStatus = 0x%02x, want 0x15", resp.AudioStatus)
	}
}

func TestParseMCN_NotValid(t *testing.T) {
	resp, err := ParseMCN(subChannelResponse(SubChannelMCN, 0, false, "0724384960650"))
	if err != nil {
		t.Fatalf("ParseMCN failed: %v", err)
	}

	if resp.Valid {
		t.Error("Valid = true, want false")
	}
	if resp.MCN != "" {
		t.Errorf("MCN = %q, want empty", resp.MCN)
	}
}

func TestParseMCN_AllZeros(t *testing.T) {
	resp, err := ParseMCN(subChannelResponse(SubChannelMCN, 0, true, "0000000000000"))
	if err != nil {
		t.Fatalf("ParseMCN failed: %v", err)
	}

	if resp.MCN != "" {
		t.Errorf("MCN = %q, want empty", resp.MCN)
	}
}

func TestParseMCN_WrongFormat(t *testing.T) {
	_, err := ParseMCN(subChannelResponse(SubChannelISRC, 0, true, "0724384960650"))
	if err == nil {
		t.Error("ParseMCN should fail on an ISRC response")
	}
}

func TestParseISRC(t *testing.T) {
	resp, err := ParseISRC(subChannelResponse(SubChannelISRC, 7, true, "GBAYE0601498"))
	if err != nil {
		t.Fatalf("ParseISRC failed: %v", err)
	}

	if resp.Track != 7 {
		t.Errorf("Track = %d, want 7", resp.Track)
	}
	if resp.ISRC != "GBAYE0601498" {
		t.Errorf("ISRC = %q, want %q", resp.ISRC, "GBAYE0601498")
	}
}

func TestParseISRC_TooShort(t *testing.T) {
	_, err := ParseISRC(make([]byte, 12))
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("err = %v, want ErrShortBuffer", err)
	}
}

func TestParseCDText(t *testing.T) {
	p1 := cdtext.NewPack(cdtext.TypeTitle, 0, 0, 0, false, []byte("Album"))
	p2 := cdtext.NewPack(cdtext.TypeTitle, 1, 1, 0, false, []byte("Song"))

	// Length = 2 reserved bytes + 2 packs × 18 bytes = 38, plus a partial pack
	raw := []byte{0x00, 0x26, 0x00, 0x00}
	raw = append(raw, p1[:]...)
	raw = append(raw, p2[:]...)
	raw = append(raw, 0x80, 0x01, 0x02)

	packs, err := ParseCDText(raw)
	if err != nil {
		t.Fatalf("ParseCDText failed: %v", err)
	}

	if len(packs) != 2 {
		t.Fatalf("len(packs) = %d, want 2", len(packs))
	}
	if packs[0] != p1 || packs[1] != p2 {
		t.Error("packs differ from input")
	}
	if !packs[1].Valid() {
		t.Error("packs[1].Valid() = false, want true")
	}
}

func TestParseCDText_HeaderOnly(t *testing.T) {
	packs, err := ParseCDText([]byte{0x00, 0x02, 0x00, 0x00})
	if err != nil {
		t.Fatalf("ParseCDText failed: %v", err)
	}
	if len(packs) != 0 {
		t.Errorf("len(packs) = %d, want 0", len(packs))
	}
}

func TestParseCDText_TooShort(t *testing.T) {
	_, err := ParseCDText([]byte{0x00})
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("err = %v, want ErrShortBuffer", err)
	}
}
