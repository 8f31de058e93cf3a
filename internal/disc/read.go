package disc

import (
	"fmt"

	"github.com/binaryphile/crostini-discid/internal/cdda"
	"github.com/binaryphile/crostini-discid/internal/cdtext"
	"github.com/go-logr/logr"
)

// Read builds the TOC of the disc in p, adding the optional data selected
// by features. Only the TOC is required: a failed MCN, ISRC or CD-TEXT
// read is logged and leaves that value empty rather than failing.
func Read(p Provider, features Feature, log logr.Logger) (*TOC, error) {
	// On some multi-session discs the first READ TOC returns a wrong
	// table; only the second response is used.
	if _, err := p.ReadTOC(false); err != nil {
		return nil, err
	}
	raw, err := p.ReadTOC(false)
	if err != nil {
		return nil, err
	}

	resp, err := cdda.ParseTOC(raw, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	var mcn *string
	if features.Has(FeatureMCN) {
		s := readMCN(p, log)
		mcn = &s
	}

	toc, err := New(resp.FirstTrack, resp.LastTrack, resp.Slots(), mcn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	toc.device = p.Name()
	if toc.last != resp.LastTrack {
		log.V(1).Info("dropped non-audio tracks", "device", toc.device, "last", resp.LastTrack, "lastAudio", toc.last)
	}

	if features.Has(FeatureISRC) {
		for i := toc.first; i <= toc.last; i++ {
			s := readISRC(p, i, log)
			toc.tracks[i].ISRC = &s
		}
	}

	if features.Has(FeatureCDText) {
		toc.cdText = readCDText(p, log)
	}

	return toc, nil
}

func readMCN(p Provider, log logr.Logger) string {
	raw, err := p.ReadSubChannel(cdda.SubChannelMCN, 0)
	if err != nil {
		log.Error(err, "reading media catalog number", "device", p.Name())
		return ""
	}
	resp, err := cdda.ParseMCN(raw)
	if err != nil {
		log.Error(err, "decoding media catalog number", "device", p.Name())
		return ""
	}
	return resp.MCN
}

func readISRC(p Provider, track int, log logr.Logger) string {
	raw, err := p.ReadSubChannel(cdda.SubChannelISRC, track)
	if err != nil {
		log.Error(err, "reading ISRC", "device", p.Name(), "track", track)
		return ""
	}
	resp, err := cdda.ParseISRC(raw)
	if err != nil {
		log.Error(err, "decoding ISRC", "device", p.Name(), "track", track)
		return ""
	}
	if resp.Track != 0 && resp.Track != track {
		log.V(1).Info("ISRC for another track", "device", p.Name(), "track", track, "got", resp.Track)
		return ""
	}
	return resp.ISRC
}

func readCDText(p Provider, log logr.Logger) []cdtext.Block {
	raw, err := p.ReadCDText()
	if err != nil {
		log.Error(err, "reading CD-TEXT", "device", p.Name())
		return nil
	}
	packs, err := cdda.ParseCDText(raw)
	if err != nil {
		log.Error(err, "decoding CD-TEXT", "device", p.Name())
		return nil
	}
	return cdtext.Decode(packs, log)
}
