package doi

import (
	"regexp"
	"strings"
)

// Prefixes stripped by Normalize, in the order they are checked.
const (
	prefixHTTPS  = "https://"
	prefixHTTP   = "http://"
	prefixDX     = "dx."
	prefixDOIOrg = "doi.org/"
)

// Normalize strips URL scheme and resolver prefixes from raw so that
// "https://dx.doi.org/10.1000/x" and "10.1000/x" yield the same token.
// Each prefix is checked once against the result of the previous step.
// The token itself is not validated.
func Normalize(raw string) string {
	s := raw
	s = strings.TrimPrefix(s, prefixHTTPS)
	s = strings.TrimPrefix(s, prefixHTTP)
	s = strings.TrimPrefix(s, prefixDX)
	s = strings.TrimPrefix(s, prefixDOIOrg)
	return s
}

// 10.XXXX/... where XXXX is 4+ digits
var pattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// LooksValid reports whether s has the basic 10.<registrant>/<suffix> shape.
func LooksValid(s string) bool {
	if len(s) < 10 || !strings.HasPrefix(s, "10.") {
		return false
	}
	slash := strings.Index(s, "/")
	return slash > 3 && slash < len(s)-1
}

// Find returns the first DOI-shaped substring of text, or "".
func Find(text string) string {
	for _, m := range pattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)")
		if LooksValid(m) {
			return m
		}
	}
	return ""
}
