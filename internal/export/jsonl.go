package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/sbh/internal"
)

// JSONLExporter exports tabs in JSONL format (one tab per line)
type JSONLExporter struct{}

// Export exports entries to JSONL format
func (e *JSONLExporter) Export(entries []internal.TabEntry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode tab: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
