package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/sbh/internal"
)

// MarkdownExporter exports tabs as Markdown link lists, one section per session
type MarkdownExporter struct{}

// Export exports entries to Markdown format
func (e *MarkdownExporter) Export(entries []internal.TabEntry, w io.Writer) error {
	first := true
	var current int64
	for _, entry := range entries {
		if first || entry.SessionID != current {
			if !first {
				_, _ = fmt.Fprintln(w)
			}
			name := entry.SessionName
			if name == "" {
				name = fmt.Sprintf("Session %d", entry.SessionID)
			}
			_, _ = fmt.Fprintf(w, "## %s\n\n", escapeMarkdown(name))
			current = entry.SessionID
			first = false
		}

		title := entry.Title
		if title == "" {
			title = entry.URL
		}
		if _, err := fmt.Fprintf(w, "- [%s](<%s>)\n", escapeMarkdown(title), entry.URL); err != nil {
			return fmt.Errorf("failed to write tab: %w", err)
		}
	}

	return nil
}

// escapeMarkdown escapes characters that would break link text
func escapeMarkdown(text string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		"[", `\[`,
		"]", `\]`,
		"*", `\*`,
		"_", `\_`,
	).Replace(text)
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
