package internal

import (
	"net/url"
	"strings"
)

// Deduplicator removes tab entries whose URL was already seen
type Deduplicator struct {
	seen map[string]bool
}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]bool)}
}

// Deduplicate keeps the first entry of every URL, preserving order
func (d *Deduplicator) Deduplicate(entries []TabEntry) []TabEntry {
	var unique []TabEntry
	for _, e := range entries {
		if d.markSeen(e.URL) {
			unique = append(unique, e)
		}
	}
	return unique
}

// CountDuplicates returns how many entries repeat an earlier URL
func (d *Deduplicator) CountDuplicates(entries []TabEntry) int {
	n := 0
	for _, e := range entries {
		if !d.markSeen(e.URL) {
			n++
		}
	}
	return n
}

// markSeen records rawURL and reports whether it was new.
func (d *Deduplicator) markSeen(rawURL string) bool {
	key := urlKey(rawURL)
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}

// urlKey ignores the fragment and the case of scheme and host.
func urlKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
