// Package musicbrainz resolves disc IDs against the MusicBrainz web service
// and builds the URLs a TOC is submitted or looked up with.
package musicbrainz

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/binaryphile/crostini-discid/internal/config"
	"go.uploadedlobster.com/mbtypes"
	"go.uploadedlobster.com/musicbrainzws2"
	"golang.org/x/time/rate"
)

// requestInterval is the MusicBrainz rate limit for anonymous clients.
const requestInterval = time.Second

// Release contains metadata for an album/release
type Release struct {
	MBID        string  // MusicBrainz ID
	Title       string  // Album title
	Artist      string  // Artist name (may be "Various Artists" for compilations)
	Year        int     // Release year
	Country     string  // Release country code
	TrackCount  int     // Number of tracks
	DiscCount   int     // Number of discs
	Tracks      []Track // Track list
	Compilation bool    // True if Various Artists
}

// Track contains metadata for a single track
type Track struct {
	Num    int
	Title  string
	Artist string // May differ from album artist on compilations
}

// Client wraps the MusicBrainz API. Requests through one Client, including
// cover art fetches, are spaced by requestInterval.
type Client struct {
	client    *musicbrainzws2.Client
	userAgent string
	limiter   *rate.Limiter
}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(requestInterval), 1)
}

// NewClient creates a new MusicBrainz API client
func NewClient(app config.App) *Client {
	client := musicbrainzws2.NewClient(musicbrainzws2.AppInfo{
		Name:    app.Name,
		Version: app.Version,
		URL:     app.Contact,
	})
	return &Client{
		client:    client,
		userAgent: fmt.Sprintf("%s/%s ( %s )", app.Name, app.Version, app.Contact),
		limiter:   newLimiter(),
	}
}

// Close releases client resources
func (c *Client) Close() error {
	return c.client.Close()
}

// wait blocks until the next request is allowed or ctx is done.
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// LookupByDiscID looks up releases by MusicBrainz disc ID.
// Returns a list of matching releases (may be multiple pressings/editions).
func (c *Client) LookupByDiscID(ctx context.Context, discID string) ([]Release, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	filter := musicbrainzws2.DiscIDFilter{
		Includes: []string{"recordings", "artists", "release-groups"},
	}

	disc, err := c.client.LookupDiscID(ctx, discID, filter)
	if err != nil {
		return nil, fmt.Errorf("disc lookup %s: %w", discID, err)
	}

	releases := make([]Release, 0, len(disc.Releases))
	for _, r := range disc.Releases {
		releases = append(releases, toRelease(r))
	}
	return releases, nil
}

// GetReleaseTracks fetches full track information for a release.
// Call this after selecting a release from LookupByDiscID.
func (c *Client) GetReleaseTracks(ctx context.Context, mbid string) (*Release, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	filter := musicbrainzws2.IncludesFilter{
		Includes: []string{"recordings", "artists", "artist-credits"},
	}

	r, err := c.client.LookupRelease(ctx, mbtypes.MBID(mbid), filter)
	if err != nil {
		return nil, fmt.Errorf("release lookup %s: %w", mbid, err)
	}

	release := toRelease(r)
	for _, medium := range r.Media {
		for _, track := range medium.Tracks {
			release.Tracks = append(release.Tracks, Track{
				Num:    track.Position,
				Title:  track.Title,
				Artist: getTrackArtist(track, r.ArtistCredit),
			})
		}
	}
	return &release, nil
}

// Search searches for releases by text query (artist, album, etc).
func (c *Client) Search(ctx context.Context, query string) ([]Release, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	filter := musicbrainzws2.SearchFilter{
		Query: query,
	}

	result, err := c.client.SearchReleases(ctx, filter, musicbrainzws2.DefaultPaginator())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	releases := make([]Release, 0, len(result.Releases))
	for _, r := range result.Releases {
		releases = append(releases, toRelease(r))
	}
	return releases, nil
}

// SortReleasesByTrackMatch orders releases with trackCount tracks first,
// newest first within each group. The input is not modified.
func SortReleasesByTrackMatch(releases []Release, trackCount int) []Release {
	sorted := slices.Clone(releases)
	slices.SortStableFunc(sorted, func(a, b Release) int {
		am, bm := a.TrackCount == trackCount, b.TrackCount == trackCount
		if am != bm {
			if am {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Year, a.Year)
	})
	return sorted
}

func toRelease(r musicbrainzws2.Release) Release {
	return Release{
		MBID:        string(r.ID),
		Title:       r.Title,
		Artist:      getArtistName(r.ArtistCredit),
		Year:        r.Date.Year,
		Country:     string(r.CountryCode),
		TrackCount:  getTotalTracks(r.Media),
		DiscCount:   len(r.Media),
		Compilation: isCompilation(r.ArtistCredit),
	}
}

func getArtistName(credit musicbrainzws2.ArtistCredit) string {
	if len(credit) == 0 {
		return "Unknown Artist"
	}
	return credit.String()
}

func getTrackArtist(track musicbrainzws2.Track, albumCredit musicbrainzws2.ArtistCredit) string {
	if len(track.ArtistCredit) > 0 {
		return track.ArtistCredit.String()
	}
	if len(track.Recording.ArtistCredit) > 0 {
		return track.Recording.ArtistCredit.String()
	}
	return getArtistName(albumCredit)
}

func isCompilation(credit musicbrainzws2.ArtistCredit) bool {
	if len(credit) == 0 {
		return false
	}
	return getArtistName(credit) == "Various Artists"
}

func getTotalTracks(media []musicbrainzws2.Medium) int {
	total := 0
	for _, m := range media {
		total += m.TrackCount
	}
	return total
}
