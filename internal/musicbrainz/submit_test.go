package musicbrainz

import (
	"testing"

	"github.com/binaryphile/crostini-discid/internal/config"
	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTOC(t *testing.T) *disc.TOC {
	t.Helper()
	toc, err := disc.Simulate(1, 3, []int{207494, 150, 69100, 138345})
	require.NoError(t, err)
	return toc
}

func TestSubmissionURL(t *testing.T) {
	toc := testTOC(t)

	tests := []struct {
		name string
		srv  config.Server
		want string
	}{
		{
			"default port",
			config.Server{Scheme: "https", Host: "musicbrainz.org"},
			"https://musicbrainz.org/cdtoc/attach?id=oQ4HHPrugQLxPWTN6fDkXSNGySM-&tracks=3&toc=1+3+207494+150+69100+138345",
		},
		{
			"explicit default port",
			config.Server{Scheme: "http", Host: "musicbrainz.org", Port: 80},
			"http://musicbrainz.org/cdtoc/attach?id=oQ4HHPrugQLxPWTN6fDkXSNGySM-&tracks=3&toc=1+3+207494+150+69100+138345",
		},
		{
			"custom port",
			config.Server{Scheme: "http", Host: "localhost", Port: 5000},
			"http://localhost:5000/cdtoc/attach?id=oQ4HHPrugQLxPWTN6fDkXSNGySM-&tracks=3&toc=1+3+207494+150+69100+138345",
		},
		{
			"https on 80",
			config.Server{Scheme: "https", Host: "test.musicbrainz.org", Port: 80},
			"https://test.musicbrainz.org:80/cdtoc/attach?id=oQ4HHPrugQLxPWTN6fDkXSNGySM-&tracks=3&toc=1+3+207494+150+69100+138345",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubmissionURL(tt.srv, toc))
		})
	}
}

func TestLookupURL(t *testing.T) {
	toc := testTOC(t)
	srv := config.Server{Scheme: "https", Host: "musicbrainz.org"}

	assert.Equal(t,
		"https://musicbrainz.org/ws/2/discid/oQ4HHPrugQLxPWTN6fDkXSNGySM-?toc=1+3+207494+150+69100+138345",
		LookupURL(srv, toc))
}
