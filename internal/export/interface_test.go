package export

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{name: "text format", format: "txt", wantType: "*export.TextExporter", wantExt: "txt"},
		{name: "text format long", format: "text", wantType: "*export.TextExporter", wantExt: "txt"},
		{name: "jsonl format", format: "jsonl", wantType: "*export.JSONLExporter", wantExt: "jsonl"},
		{name: "markdown format", format: "md", wantType: "*export.MarkdownExporter", wantExt: "md"},
		{name: "markdown format long", format: "markdown", wantType: "*export.MarkdownExporter", wantExt: "md"},
		{name: "yaml format", format: "yaml", wantType: "*export.YAMLExporter", wantExt: "yaml"},
		{name: "json format", format: "json", wantType: "*export.JSONExporter", wantExt: "json"},
		{name: "unsupported format", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, exporter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, fmt.Sprintf("%T", exporter))
			assert.Equal(t, tt.wantExt, exporter.Extension())
		})
	}
}
