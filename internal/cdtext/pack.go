package cdtext

import "encoding/binary"

// PackSize is the size of one CD-TEXT pack: 4 header bytes, 12 data
// bytes and a 2-byte CRC.
const (
	PackSize     = 18
	PackDataSize = 12
)

// PackType is the content type in header byte 0.
type PackType byte

const (
	TypeTitle          PackType = 0x80
	TypePerformer      PackType = 0x81
	TypeLyricist       PackType = 0x82 // songwriter
	TypeComposer       PackType = 0x83
	TypeArranger       PackType = 0x84
	TypeMessage        PackType = 0x85
	TypeIdentification PackType = 0x86 // disc identification
	TypeGenre          PackType = 0x87
	TypeTOC            PackType = 0x88
	TypeTOC2           PackType = 0x89
	TypeClosedInfo     PackType = 0x8D
	TypeCode           PackType = 0x8E // UPC/EAN for the disc, ISRC for tracks
	TypeSizeInfo       PackType = 0x8F
)

const (
	firstType = TypeTitle
	numTypes  = int(TypeSizeInfo-TypeTitle) + 1
)

var typeNames = map[PackType]string{
	TypeTitle:          "title",
	TypePerformer:      "performer",
	TypeLyricist:       "lyricist",
	TypeComposer:       "composer",
	TypeArranger:       "arranger",
	TypeMessage:        "message",
	TypeIdentification: "identification",
	TypeGenre:          "genre",
	TypeTOC:            "toc",
	TypeTOC2:           "toc2",
	TypeClosedInfo:     "closed-info",
	TypeCode:           "code",
	TypeSizeInfo:       "size-info",
}

func (t PackType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t PackType) index() (int, bool) {
	if t < firstType || t > TypeSizeInfo {
		return 0, false
	}
	return int(t - firstType), true
}

// Pack is one raw 18-byte CD-TEXT pack as delivered by the drive.
//
// Header layout:
//
//	byte 0: pack type
//	byte 1: bit 7 extension flag, bits 6-0 track (element) number
//	byte 2: sequence number
//	byte 3: bit 7 DBCS, bits 6-4 block number, bits 3-0 character position
type Pack [PackSize]byte

// NewPack builds a pack with a valid CRC.
func NewPack(typ PackType, track, seq, block int, dbcs bool, data []byte) Pack {
	var p Pack
	p[0] = byte(typ)
	p[1] = byte(track) & 0x7F
	p[2] = byte(seq)
	p[3] = byte(block&0x07) << 4
	if dbcs {
		p[3] |= 0x80
	}
	copy(p[4:16], data)
	p.SetCRC()
	return p
}

func (p Pack) Type() PackType { return PackType(p[0]) }
func (p Pack) Extension() bool { return p[1]&0x80 != 0 }
func (p Pack) Track() int { return int(p[1] & 0x7F) }
func (p Pack) Sequence() int { return int(p[2]) }
func (p Pack) DBCS() bool { return p[3]&0x80 != 0 }
func (p Pack) Block() int { return int(p[3]>>4) & 0x07 }
func (p Pack) CharPosition() int { return int(p[3] & 0x0F) }

// Data returns the 12 payload bytes.
func (p Pack) Data() []byte { return p[4:16] }

// StoredCRC returns the big-endian CRC carried in bytes 16-17.
func (p Pack) StoredCRC() uint16 { return binary.BigEndian.Uint16(p[16:18]) }

// ComputedCRC returns the bit-inverted CRC-16 of the header and data.
func (p Pack) ComputedCRC() uint16 { return ^crc(p[:16]) }

// Valid reports whether the stored CRC matches the computed one.
func (p Pack) Valid() bool { return p.StoredCRC() == p.ComputedCRC() }

// SetCRC stores the computed CRC.
func (p *Pack) SetCRC() {
	binary.BigEndian.PutUint16(p[16:18], p.ComputedCRC())
}
