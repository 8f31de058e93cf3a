package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/cdtext"
	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
)

func printTOC(w io.Writer, toc *disc.TOC) {
	if dev := toc.DeviceName(); dev != "" {
		fmt.Fprintf(w, "Device   : %s\n", dev)
	}
	fmt.Fprintf(w, "Disc ID  : %s\n", toc.ID())
	fmt.Fprintf(w, "FreeDB ID: %s\n", toc.FreeDBID())
	fmt.Fprintf(w, "TOC      : %s\n", toc.String())
	fmt.Fprintf(w, "Tracks   : %d-%d\n", toc.FirstTrack(), toc.LastTrack())
	fmt.Fprintf(w, "Lead-out : %d\n", toc.LeadOut())
	if mcn := toc.MCN(); mcn != nil && *mcn != "" {
		fmt.Fprintf(w, "MCN      : %s\n", *mcn)
	}

	fmt.Fprintf(w, "\n%6s %8s %10s %10s %10s  %s\n", "Track", "Type", "Offset", "Length", "Duration", "ISRC")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, tr := range toc.Tracks() {
		trackType := "audio"
		if tr.PreEmphasis() {
			trackType = "audio/pe"
		}
		isrc := ""
		if tr.ISRC != nil {
			isrc = *tr.ISRC
		}
		m, s, f := tr.Duration()
		fmt.Fprintf(w, "%6d %8s %10d %10d %4d:%02d.%02d  %s\n",
			tr.Number, trackType, tr.Address, tr.Length, m, s, f, isrc)
	}

	for _, b := range toc.CDText() {
		printCDText(w, b)
	}
}

func printCDText(w io.Writer, b cdtext.Block) {
	fmt.Fprintf(w, "\nCD-TEXT block %d (%s, %s)\n", b.Number, b.Language, b.CharacterCode)
	if a := b.Album; a != nil {
		printField(w, "Title", a.Title)
		printField(w, "Performer", a.Performer)
		printField(w, "Composer", a.Composer)
		printField(w, "Lyricist", a.Lyricist)
		printField(w, "Arranger", a.Arranger)
		printField(w, "Message", a.Message)
		printField(w, "UPC/EAN", a.ProductCode)
		if g := a.Genre; g != nil {
			genre := g.Code.String()
			if g.Description != nil {
				genre += " " + *g.Description
			}
			printField(w, "Genre", genre)
		}
	}
	for n := b.FirstTrack; n <= b.LastTrack; n++ {
		t := b.Track(n)
		if t == nil {
			continue
		}
		title := t.Title
		if t.Performer != "" {
			title = t.Performer + " / " + title
		}
		fmt.Fprintf(w, "  %02d. %s\n", n, title)
	}
}

func printField(w io.Writer, name, value string) {
	if value != "" {
		fmt.Fprintf(w, "  %-10s %s\n", name+":", value)
	}
}

func printReleases(w io.Writer, releases []musicbrainz.Release) {
	for i, r := range releases {
		fmt.Fprintf(w, "  %d. %s - %s (%d, %s, %d tracks) %s\n",
			i+1, r.Artist, r.Title, r.Year, r.Country, r.TrackCount, r.MBID)
	}
}
