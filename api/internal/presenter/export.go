package presenter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"kanoon-saral/api/internal/simplify"
)

// ExportFilename is the name offered for the downloaded export.
const ExportFilename = "simplified-document.txt"

const wordsPerMinute = 200

// ExportText is the plain-text download: the original and the simplified
// version under fixed headings.
func ExportText(res simplify.Result) string {
	return "ORIGINAL DOCUMENT:\n\n" + res.OriginalText + "\n\n\nSIMPLIFIED VERSION:\n\n" + res.Simplified
}

// ReadingMinutes estimates reading time at 200 words per minute, counting
// words as the pieces between single spaces.
func ReadingMinutes(s string) int {
	words := len(strings.Split(s, " "))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// Summary is the one-line stats footer shown with results.
func Summary(res simplify.Result) string {
	return fmt.Sprintf("%d min read · processed in %.1fs",
		ReadingMinutes(res.Simplified), res.ProcessingTime.Seconds())
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders the provider's markdown. Raw HTML in the source is
// dropped, never passed through.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("presenter: render markdown: %w", err)
	}
	return buf.String(), nil
}

// PlainText flattens markdown for front ends that show text only: headings
// and paragraphs become lines, list items get a bullet or their number, table
// rows become lines of cells separated by " | ".
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))
	var b strings.Builder
	walkPlain(&b, doc, src)
	return strings.TrimSpace(b.String())
}

func walkPlain(b *strings.Builder, node ast.Node, src []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			writeInline(b, n, src)
			b.WriteString("\n\n")
		case *ast.Paragraph:
			writeInline(b, n, src)
			if _, inItem := n.Parent().(*ast.ListItem); inItem {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		case *ast.TextBlock:
			writeInline(b, n, src)
			b.WriteString("\n")
		case *ast.List:
			i := 0
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if n.IsOrdered() {
					fmt.Fprintf(b, "%d. ", n.Start+i)
				} else {
					b.WriteString("• ")
				}
				walkPlain(b, item, src)
				i++
			}
			b.WriteString("\n")
		case *extast.Table:
			for row := n.FirstChild(); row != nil; row = row.NextSibling() {
				writeRow(b, row, src)
			}
			b.WriteString("\n")
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			b.WriteString("\n")
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			walkPlain(b, n, src)
		}
	}
}

func writeRow(b *strings.Builder, row ast.Node, src []byte) {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		var c strings.Builder
		writeInline(&c, cell, src)
		cells = append(cells, strings.TrimSpace(c.String()))
	}
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString("\n")
}

func writeInline(b *strings.Builder, node ast.Node, src []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.AutoLink:
			b.Write(n.URL(src))
		case *ast.CodeSpan:
			writeInline(b, n, src)
		case *ast.RawHTML:
		default:
			writeInline(b, n, src)
		}
	}
}
