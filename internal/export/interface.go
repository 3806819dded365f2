package export

import (
	"fmt"
	"io"

	"github.com/iksnae/sbh/internal"
)

// Exporter defines the interface for all dump formats
type Exporter interface {
	Export(entries []internal.TabEntry, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "txt", "text":
		return &TextExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: txt, jsonl, md, yaml, json)", format)
	}
}
