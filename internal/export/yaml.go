package export

import (
	"io"

	"github.com/iksnae/sbh/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports tabs in YAML format
type YAMLExporter struct{}

// Export exports entries to YAML format
func (e *YAMLExporter) Export(entries []internal.TabEntry, w io.Writer) error {
	if entries == nil {
		entries = []internal.TabEntry{}
	}
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(entries)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
