package export

import (
	"fmt"
	"io"

	"github.com/iksnae/sbh/internal"
)

// TextExporter writes one URL per line
type TextExporter struct{}

// Export writes the URL of every entry
func (e *TextExporter) Export(entries []internal.TabEntry, w io.Writer) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintln(w, entry.URL); err != nil {
			return fmt.Errorf("failed to write url: %w", err)
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}
