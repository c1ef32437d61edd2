package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// now is swapped out by tests that exercise the timestamp fallback
var now = time.Now

// ContentHash returns the hex MD5 digest of data
func ContentHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SafeFilename derives the filename an image is stored under.
//
// The final segment of the URL path is used verbatim when it carries an
// extension. Otherwise the name is synthesized from the content hash, or from
// the current time when there is no content either. It never returns an empty
// string or a name that leaves the output directory.
func SafeFilename(rawURL string, content []byte) string {
	if base := lastPathSegment(rawURL); strings.Contains(base, ".") && base != "." && base != ".." {
		return base
	}

	if len(content) > 0 {
		return fmt.Sprintf("image_%s.jpg", ContentHash(content)[:12])
	}

	return fmt.Sprintf("image_%s.jpg", now().Format("20060102_150405"))
}

// lastPathSegment returns what follows the last slash of the URL path as it
// was typed, without percent-decoding and without ";params". A path ending
// in a slash has an empty last segment.
func lastPathSegment(rawURL string) string {
	if _, err := url.Parse(rawURL); err != nil {
		return ""
	}

	p, _, _ := strings.Cut(rawURL, "#")
	p, _, _ = strings.Cut(p, "?")
	if _, rest, ok := strings.Cut(p, "://"); ok {
		p = ""
		if i := strings.Index(rest, "/"); i >= 0 {
			p = rest[i:]
		}
	}

	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	segment, _, _ := strings.Cut(p, ";")
	return segment
}
