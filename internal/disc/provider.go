package disc

import (
	"fmt"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/cdda"
)

// Provider issues the raw drive commands a TOC is built from. Each method
// returns the response buffer as delivered by the drive.
type Provider interface {
	// Name identifies the drive, e.g. "/dev/sr0".
	Name() string

	// ReadTOC returns a READ TOC format 0 response.
	ReadTOC(msf bool) ([]byte, error)

	// ReadSubChannel returns a READ SUB-CHANNEL response.
	ReadSubChannel(format cdda.SubChannelFormat, track int) ([]byte, error)

	// ReadCDText returns a READ TOC format 5 response.
	ReadCDText() ([]byte, error)
}

// Feature selects the optional data Read requests from the drive.
type Feature uint

const (
	FeatureRead Feature = 1 << iota // the TOC itself, always read
	FeatureMCN
	FeatureISRC
	FeatureCDText

	FeatureAll = FeatureRead | FeatureMCN | FeatureISRC | FeatureCDText
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureRead, "read"},
	{FeatureMCN, "mcn"},
	{FeatureISRC, "isrc"},
	{FeatureCDText, "cdtext"},
}

// Has reports whether all features in x are set.
func (f Feature) Has(x Feature) bool { return f&x == x }

func (f Feature) String() string {
	var names []string
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseFeatures parses feature names such as "mcn", "isrc", "cdtext" or
// "all". FeatureRead is always included.
func ParseFeatures(names []string) (Feature, error) {
	f := FeatureRead
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			f |= FeatureAll
			continue
		}
		found := false
		for _, fn := range featureNames {
			if fn.name == name {
				f |= fn.f
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown feature %q", name)
		}
	}
	return f, nil
}
