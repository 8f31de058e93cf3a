package cdtext

import "github.com/sigurn/crc16"

// CD-TEXT packs carry CRC-16/XMODEM (polynomial 0x1021, initial value 0,
// no reflection) over their first 16 bytes, stored bit-inverted.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

func crc(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}
