package ui

import (
	"fmt"
	"strings"
)

// NoteView is the display-ready projection of a search result.
type NoteView struct {
	Index       int
	Username    string
	DisplayName string
	CreatedAt   string
	Visibility  string
	Score       int
	Text        string // raw markdown
}

// RenderNoteList renders search results for the terminal. When
// markdown is true (TTY output) note bodies go through glamour;
// otherwise they are printed raw with a two-space indent.
func (d *DisplayContext) RenderNoteList(notes []NoteView, markdown bool) string {
	var b strings.Builder

	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.renderNote(n, markdown))
	}
	return b.String()
}

func (d *DisplayContext) renderNote(n NoteView, markdown bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s", Muted.Render(fmt.Sprintf("%d.", n.Index)), Handle(n.Username))
	if n.DisplayName != "" {
		header += " " + Bold.Render(n.DisplayName)
	}
	header += "  " + Timestamp(n.CreatedAt) + "  " + Muted.Render(n.Visibility)
	if n.Score > 0 {
		header += "  " + Muted.Render(fmt.Sprintf("+%d", n.Score))
	}
	b.WriteString(header + "\n")

	if markdown {
		rendered, err := RenderMarkdown(n.Text, d.TermWidth-2)
		if err == nil {
			b.WriteString(indent(rendered, 2))
			return b.String()
		}
	}
	b.WriteString(indent(strings.TrimRight(n.Text, "\n")+"\n", 2))
	return b.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
