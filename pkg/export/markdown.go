// Package export writes the board out as Markdown, SVG or PNG.
//
// Every exporter takes the derived view (the board after the filter has
// been applied), so an export shows what the user sees.
package export

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// MarkdownOptions controls Markdown export.
type MarkdownOptions struct {
	Title  string       // Top-level heading; defaults to "Board"
	Filter model.Filter // Described under the heading when active
}

// Markdown renders the view as one checklist per column.
func Markdown(view model.Board, opts MarkdownOptions) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = "Board"
	}
	sb.WriteString("# " + sanitizeMarkdownText(title) + "\n\n")
	if desc := describeFilter(opts.Filter); desc != "" {
		sb.WriteString("_" + desc + "_\n\n")
	}

	for _, col := range view {
		done := 0
		for _, t := range col.Tasks {
			if t.IsCompleted {
				done++
			}
		}
		name := sanitizeMarkdownText(col.Title)
		if name == "" {
			name = "(untitled)"
		}
		fmt.Fprintf(&sb, "## %s (%d/%d)\n\n", name, done, len(col.Tasks))
		if len(col.Tasks) == 0 {
			sb.WriteString("_No tasks._\n\n")
			continue
		}
		for _, t := range col.Tasks {
			box := " "
			if t.IsCompleted {
				box = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s\n", box, sanitizeMarkdownText(t.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SaveMarkdown writes Markdown(view, opts) to path.
func SaveMarkdown(path string, view model.Board, opts MarkdownOptions) error {
	if err := os.WriteFile(path, []byte(Markdown(view, opts)), 0o644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func describeFilter(f model.Filter) string {
	var parts []string
	if f.CompletedOnly {
		parts = append(parts, "completed only")
	}
	if f.SearchText != "" {
		parts = append(parts, fmt.Sprintf("matching %q", f.SearchText))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Showing tasks " + strings.Join(parts, ", ")
}

// sanitizeMarkdownText keeps a description on one line and stops it from
// being read as Markdown structure.
func sanitizeMarkdownText(text string) string {
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
	text = strings.TrimSpace(text)

	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"[", "\\[",
		"]", "\\]",
		"<", "&lt;",
		">", "&gt;",
	)
	text = replacer.Replace(text)
	if strings.HasPrefix(text, "#") {
		text = "\\" + text
	}
	return text
}
