// Package mention extracts @handle mentions from note markdown.
//
// Note bodies are CommonMark; mentions inside code spans and fenced
// code blocks are not mentions. The text is parsed with goldmark and
// only plain text nodes are scanned.
package mention

import (
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// handleRegex matches @handle where the @ is not glued to a preceding
// word character (so "a@b" is an address, not a mention).
var handleRegex = regexp.MustCompile(`(^|[^\w@])@([A-Za-z0-9_]+)`)

// Extract returns the unique mentioned handles in order of first
// appearance. Handles are returned as written; lookup normalization
// is the caller's concern.
func Extract(content string) []string {
	source := []byte(content)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var handles []string
	seen := make(map[string]bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		textNode, ok := n.(*ast.Text)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, inCode := textNode.Parent().(*ast.CodeSpan); inCode {
			return ast.WalkContinue, nil
		}

		segment := textNode.Segment.Value(source)
		for _, match := range handleRegex.FindAllSubmatch(segment, -1) {
			handle := string(match[2])
			if !seen[handle] {
				seen[handle] = true
				handles = append(handles, handle)
			}
		}
		return ast.WalkContinue, nil
	})

	return handles
}
