package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderContent formats generated section text for the terminal the same
// way the web editor renders it: # headings, * / - bullets, and **bold**
// spans. Anything else is a plain wrapped paragraph.
func renderContent(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return dimStyle.Render("No content generated yet")
	}
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			out = append(out, headingStyle.Render(text))
		case strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "• "):
			_, text, _ := strings.Cut(trimmed, " ")
			out = append(out, wrap.Render(bulletStyle.Render("• ")+renderBold(text)))
		default:
			out = append(out, wrap.Render(renderBold(trimmed)))
		}
	}
	return strings.Join(out, "\n")
}

// renderBold applies terminal bold to **spans**. Unbalanced markers pass
// through untouched.
func renderBold(text string) string {
	parts := strings.Split(text, "**")
	if len(parts) < 3 || len(parts)%2 == 0 {
		return text
	}
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(boldStyle.Render(part))
		} else {
			b.WriteString(part)
		}
	}
	return b.String()
}
