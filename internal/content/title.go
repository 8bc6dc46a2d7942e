package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// headingTitle returns the plain text of the first heading in body, or ""
// when the document has none.
func headingTitle(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var heading *gmast.Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if h, ok := n.(*gmast.Heading); ok && entering {
			heading = h
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if heading == nil {
		return ""
	}

	var buf bytes.Buffer
	_ = gmast.Walk(heading, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := n.(*gmast.Text); ok && entering {
			buf.Write(t.Segment.Value(body))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
