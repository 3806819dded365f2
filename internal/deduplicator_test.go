package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entries(urls ...string) []TabEntry {
	var out []TabEntry
	for i, u := range urls {
		out = append(out, TabEntry{Window: i, URL: u})
	}
	return out
}

func TestDeduplicator_Deduplicate(t *testing.T) {
	tests := []struct {
		name string
		in   []TabEntry
		want []string
	}{
		{name: "empty", in: nil, want: nil},
		{name: "no duplicates", in: entries("https://a.test/", "https://b.test/"), want: []string{"https://a.test/", "https://b.test/"}},
		{name: "exact duplicate", in: entries("https://a.test/", "https://a.test/"), want: []string{"https://a.test/"}},
		{name: "fragment ignored", in: entries("https://a.test/x#top", "https://a.test/x#end"), want: []string{"https://a.test/x#top"}},
		{name: "host case ignored", in: entries("HTTPS://A.TEST/x", "https://a.test/x"), want: []string{"HTTPS://A.TEST/x"}},
		{name: "path case kept", in: entries("https://a.test/X", "https://a.test/x"), want: []string{"https://a.test/X", "https://a.test/x"}},
		{name: "query kept", in: entries("https://a.test/?q=1", "https://a.test/?q=2"), want: []string{"https://a.test/?q=1", "https://a.test/?q=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDeduplicator().Deduplicate(tt.in)
			var urls []string
			for _, e := range got {
				urls = append(urls, e.URL)
			}
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestDeduplicator_KeepsFirstEntry(t *testing.T) {
	got := NewDeduplicator().Deduplicate(entries("https://a.test/", "https://b.test/", "https://a.test/"))
	assert.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Window)
	assert.Equal(t, 1, got[1].Window)
}

func TestDeduplicator_CountDuplicates(t *testing.T) {
	d := NewDeduplicator()
	assert.Equal(t, 2, d.CountDuplicates(entries("https://a.test/", "https://a.test/#x", "https://b.test/", "https://a.test/")))
}
