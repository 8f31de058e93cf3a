package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const coverArtURL = "https://coverartarchive.org/release/%s/front-250"

var coverArtClient = &http.Client{
	Timeout: 10 * time.Second,
}

// GetCoverArt fetches album cover from Cover Art Archive.
// Returns (data, mimeType, nil) on success.
// Returns (nil, "", nil) if not found (404).
// Returns (nil, "", error) on network/timeout errors.
func (c *Client) GetCoverArt(ctx context.Context, mbid string) ([]byte, string, error) {
	return c.fetchCover(ctx, fmt.Sprintf(coverArtURL, mbid))
}

func (c *Client) fetchCover(ctx context.Context, url string) ([]byte, string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("cover art request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := coverArtClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("cover art fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("cover art: HTTP %d", resp.StatusCode)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("cover art read: %w", err)
	}
	return data, mimeType, nil
}
