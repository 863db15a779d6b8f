package fcrepo

import (
	"strings"
)

// link relation types used for navigation decisions
const (
	RelDescribedBy = "describedby"
	RelType        = "type"
)

// nonRDFSourceType is matched as a substring of rel="type" link targets.
const nonRDFSourceType = "NonRDFSource"

// Link is a single entry of a Link header.
type Link struct {
	URI string
	Rel []string // relation types, lower-cased
}

// HasRel reports whether the link carries the relation type rel.
func (l Link) HasRel(rel string) bool {
	for _, r := range l.Rel {
		if r == strings.ToLower(rel) {
			return true
		}
	}
	return false
}

// ParseLinks parses Link header values. Each value may hold several comma separated entries.
// Entries without a <uri> part are skipped.
func ParseLinks(values []string) []Link {
	var res []Link
	for _, v := range values {
		for _, entry := range splitOutside(v, ',') {
			start := strings.Index(entry, "<")
			end := strings.Index(entry, ">")
			if start < 0 || end < start {
				continue
			}
			link := Link{URI: strings.TrimSpace(entry[start+1 : end])}
			for _, param := range splitOutside(entry[end+1:], ';') {
				name, value, ok := strings.Cut(param, "=")
				if !ok || !strings.EqualFold(strings.TrimSpace(name), "rel") {
					continue
				}
				for _, r := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
					link.Rel = append(link.Rel, strings.ToLower(r))
				}
			}
			res = append(res, link)
		}
	}
	return res
}

// DescribedBy returns the URI of the first describedby link.
func DescribedBy(links []Link) (string, bool) {
	for _, l := range links {
		if l.HasRel(RelDescribedBy) && l.URI != "" {
			return l.URI, true
		}
	}
	return "", false
}

// IsNonRDFSource reports whether the links declare a binary (NonRDFSource) resource type.
func IsNonRDFSource(links []Link) bool {
	for _, l := range links {
		if l.HasRel(RelType) && strings.Contains(l.URI, nonRDFSourceType) {
			return true
		}
	}
	return false
}

// splitOutside splits a header value on sep outside of <...> and quoted strings.
func splitOutside(v string, sep byte) []string {
	var res []string
	var inURI, inQuote bool
	start := 0
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '<' && !inQuote:
			inURI = true
		case c == '>' && !inQuote:
			inURI = false
		case c == '"' && !inURI:
			inQuote = !inQuote
		case c == sep && !inURI && !inQuote:
			if s := strings.TrimSpace(v[start:i]); s != "" {
				res = append(res, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(v[start:]); s != "" {
		res = append(res, s)
	}
	return res
}
