// Package markdown reduces Markdown input files to the plain text that is
// sent for translation.
package markdown

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// IsMarkdownFile reports whether path has a Markdown extension.
func IsMarkdownFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// ToPlainText drops Markdown syntax and returns the readable text, one
// paragraph per blank-line separated block. Fenced code is kept verbatim;
// images contribute their alt text.
func ToPlainText(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse(md, p)

	var blocks []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			blocks = append(blocks, s)
		}
		cur.Reset()
	}

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering && node.AsContainer() == nil {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TableRow:
			if !entering {
				flush()
			}
		case *ast.ListItem:
			if entering {
				flush()
			}
		case *ast.TableCell:
			if !entering {
				cur.WriteString("\t")
			}
		case *ast.CodeBlock:
			flush()
			cur.Write(n.Literal)
			flush()
		case *ast.Text:
			cur.WriteString(html.UnescapeString(string(n.Literal)))
		case *ast.Code:
			cur.Write(n.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			cur.WriteString("\n")
		}
		return ast.GoToNext
	})
	flush()

	return strings.Join(blocks, "\n\n")
}
