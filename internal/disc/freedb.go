package disc

import (
	"fmt"

	"github.com/binaryphile/crostini-discid/internal/cdda"
)

// freedbID computes the legacy FreeDB/CDDB disc ID:
//
//	bits 31-24: sum of the digit sums of each track's start second, mod 255
//	bits 23-8:  disc length in seconds, lead-out minus first track
//	bits 7-0:   last track number
//
// The fields are packed as uint32 so a lead-out reported before the first
// track still yields eight hex digits.
func freedbID(first, last int, addresses [slots]int) string {
	n := 0
	for i := 1; i <= last; i++ {
		n += digitSum(addresses[i] / cdda.FramesPerSecond)
	}
	t := addresses[0]/cdda.FramesPerSecond - addresses[first]/cdda.FramesPerSecond

	return fmt.Sprintf("%08x", uint32(n%255)<<24|uint32(t)<<8|uint32(last))
}

func digitSum(n int) int {
	sum := 0
	for ; n > 0; n /= 10 {
		sum += n % 10
	}
	return sum
}
