package cdda

// CD audio addressing constants
const (
	FramesPerSecond = 75  // sectors (frames) per second of audio
	PregapSectors   = 150 // LBA 0 is stored as sector 150 on audio discs

	// MaxSectors is the largest sector count a disc may report (99:59:74).
	MaxSectors = 100*60*FramesPerSecond - 1
)

// AddressFromMSF converts a 4-byte MSF field to an absolute sector count.
// Byte 0 is reserved; bytes 1-3 are minute, second and frame.
// This is a pure function.
func AddressFromMSF(field []byte) int {
	m := int(field[1])
	s := int(field[2])
	f := int(field[3])
	return (m*60+s)*FramesPerSecond + f
}

// AddressFromLBA converts a signed LBA to an absolute sector count by
// adding the 150-sector pregap. Negative values, reported by some
// copy-protected discs, clamp to 0 first.
func AddressFromLBA(lba int32) int {
	if lba < 0 {
		lba = 0
	}
	return int(lba) + PregapSectors
}

// MSF splits an absolute sector count into minute, second and frame.
func MSF(address int) (m, s, f int) {
	f = address % FramesPerSecond
	s = (address / FramesPerSecond) % 60
	m = address / FramesPerSecond / 60
	return m, s, f
}
