package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/binaryphile/crostini-discid/internal/tag"
	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tagDocument = `{
  "artist": "Test Artist",
  "album": "Test Album",
  "year": "2024",
  "disc": 1,
  "totalDiscs": 1,
  "discId": "oQ4HHPrugQLxPWTN6fDkXSNGySM-",
  "tracks": [
    {"num": 1, "title": "Track One", "isrc": "GBAYE0601498"},
    {"num": 2, "title": "Track Two"}
  ]
}`

func writeRip(t *testing.T) (dir, metaPath string) {
	t.Helper()
	dir = t.TempDir()
	frame := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)
	for _, name := range []string{"track01.mp3", "track02.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), frame, 0o644))
	}
	metaPath = filepath.Join(t.TempDir(), "disc.json")
	require.NoError(t, os.WriteFile(metaPath, []byte(tagDocument), 0o644))
	return dir, metaPath
}

func TestTag_DryRun(t *testing.T) {
	dir, metaPath := writeRip(t)

	out, _, err := run(t, nil, "tag", "--metadata", metaPath, "--rename", "--dry-run", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "track01.mp3 -> Test_Artist-Test_Album-01-Track_One.mp3")
	assert.Contains(t, out, "track02.mp3 -> Test_Artist-Test_Album-02-Track_Two.mp3")
	assert.FileExists(t, filepath.Join(dir, "track01.mp3"), "dry run leaves files alone")
}

func TestTag_RenameAndTag(t *testing.T) {
	dir, metaPath := writeRip(t)

	_, _, err := run(t, nil, "tag", "--metadata", metaPath, "--rename", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "Test_Artist-Test_Album-01-Track_One.mp3")
	require.FileExists(t, path)

	tags, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tags.Close()

	assert.Equal(t, "Track One", tags.Title())
	assert.Equal(t, "1/2", tags.GetTextFrame("TRCK").Text)
	assert.Equal(t, "GBAYE0601498", tags.GetTextFrame("TSRC").Text)

	frames := tags.GetFrames("TXXX")
	require.Len(t, frames, 1)
	udtf := frames[0].(id3v2.UserDefinedTextFrame)
	assert.Equal(t, tag.DiscIDDescription, udtf.Description)
	assert.Equal(t, "oQ4HHPrugQLxPWTN6fDkXSNGySM-", udtf.Value)
}

func TestTag_Errors(t *testing.T) {
	dir, metaPath := writeRip(t)

	_, _, err := run(t, nil, "tag", dir)
	assert.Error(t, err, "--metadata is required")

	_, _, err = run(t, nil, "tag", "--metadata", metaPath, t.TempDir())
	assert.ErrorContains(t, err, "no MP3 files")

	_, _, err = run(t, nil, "tag", "--metadata", filepath.Join(dir, "missing.json"), dir)
	assert.Error(t, err)
}
