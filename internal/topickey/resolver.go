// Package topickey derives stable topic identifiers from site page URLs.
// Repeated attempts launched from the same page must tag their results to
// the same analytics bucket, so resolution is deterministic and does no I/O.
package topickey

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Separator joins the surviving path segments into one key.
const Separator = "-"

// ErrEmptyPath is returned when the URL path holds no usable segments.
var ErrEmptyPath = errors.New("topickey: empty path")

// defaultLocalHosts are development hosts where the trailing segment is a
// topic page itself rather than a sub-page of one.
var defaultLocalHosts = []string{"localhost", "127.0.0.1"}

// Resolver derives topic keys from page URLs.
type Resolver struct {
	// LocalHosts extends the set of hosts treated as local development
	// hosts. Matching is by hostname, ignoring the port.
	LocalHosts []string
}

// Resolve derives the topic key for a page URL. The path is split into
// segments, the leading empty segment is dropped, and — unless the host is
// a local development host — the trailing segment is dropped as well, since
// it names a sub-page of the topic rather than a new topic.
func (r Resolver) Resolve(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("topickey: parse url: %w", err)
	}

	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return "", ErrEmptyPath
	}

	if !r.isLocal(u.Hostname()) && len(segments) > 1 {
		segments = segments[:len(segments)-1]
	}

	return strings.Join(segments, Separator), nil
}

func (r Resolver) isLocal(hostname string) bool {
	for _, h := range defaultLocalHosts {
		if hostname == h {
			return true
		}
	}
	for _, h := range r.LocalHosts {
		if hostname == h {
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
