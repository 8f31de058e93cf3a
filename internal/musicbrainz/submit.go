package musicbrainz

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/binaryphile/crostini-discid/internal/config"
	"github.com/binaryphile/crostini-discid/internal/disc"
)

var defaultPorts = map[string]int{"http": 80, "https": 443}

// serverURL returns scheme://host[:port], leaving out a zero or default port.
func serverURL(srv config.Server) url.URL {
	host := srv.Host
	if srv.Port != 0 && srv.Port != defaultPorts[srv.Scheme] {
		host = net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port))
	}
	return url.URL{Scheme: srv.Scheme, Host: host}
}

// SubmissionURL returns the web page URL for attaching toc to a release:
//
//	{scheme}://{host}[:{port}]/cdtoc/attach?id={discid}&tracks={last}&toc={first}+{last}+{lead-out}+{offsets}
//
// This is a pure function.
func SubmissionURL(srv config.Server, toc *disc.TOC) string {
	u := serverURL(srv)
	u.Path = "/cdtoc/attach"
	u.RawQuery = fmt.Sprintf("id=%s&tracks=%d&toc=%s",
		url.QueryEscape(toc.ID()), toc.LastTrack(), toc.QueryString())
	return u.String()
}

// LookupURL returns the web service URL resolving toc's disc ID, with the
// TOC attached for fuzzy matching.
//
// This is a pure function.
func LookupURL(srv config.Server, toc *disc.TOC) string {
	u := serverURL(srv)
	u.Path = "/ws/2/discid/" + toc.ID()
	u.RawQuery = "toc=" + toc.QueryString()
	return u.String()
}
