package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/sbh/internal"
)

// JSONExporter exports tabs as a pretty-printed JSON array
type JSONExporter struct{}

// Export exports entries to JSON format
func (e *JSONExporter) Export(entries []internal.TabEntry, w io.Writer) error {
	if entries == nil {
		entries = []internal.TabEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(entries)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
