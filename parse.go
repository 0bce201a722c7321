package md2biki

import (
	"bytes"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
	)
}

// Parse parses Markdown source into a document tree using a GFM-enabled goldmark parser.
func Parse(source []byte) Node {
	return parse(newMarkdown(), source)
}

func parse(md goldmark.Markdown, source []byte) Node {
	doc := md.Parser().Parse(text.NewReader(source))
	l := lowerer{source: source}
	return l.node(doc)
}

// lowerer turns a goldmark AST into Nodes.
type lowerer struct {
	source []byte
}

func (l *lowerer) node(n ast.Node) Node {
	switch n := n.(type) {
	case *ast.Document:
		return l.parent(&Root{}, n)
	case *ast.Heading:
		return l.parent(&Heading{Depth: n.Level}, n)
	case *ast.Paragraph, *ast.TextBlock:
		return l.parent(&Paragraph{}, n)
	case *ast.ThematicBreak:
		return &ThematicBreak{}
	case *ast.CodeBlock:
		return &Code{Value: l.lines(n)}
	case *ast.FencedCodeBlock:
		return &Code{Lang: string(n.Language(l.source)), Value: l.lines(n)}
	case *ast.Blockquote:
		return l.parent(&Blockquote{}, n)
	case *ast.List:
		return l.parent(&List{Ordered: n.IsOrdered(), Start: n.Start}, n)
	case *ast.ListItem:
		return l.parent(&ListItem{}, n)
	case *ast.Emphasis:
		if n.Level >= 2 {
			return l.parent(&Strong{}, n)
		}
		return l.parent(&Emphasis{}, n)
	case *ast.CodeSpan:
		return &InlineCode{Value: l.codeSpan(n)}
	case *ast.Link:
		return l.parent(&Link{URL: string(n.Destination), Title: string(n.Title)}, n)
	case *ast.AutoLink:
		link := &Link{URL: string(n.URL(l.source))}
		link.append(&Text{Value: string(n.Label(l.source))})
		return link
	case *ast.Image:
		return &Image{URL: string(n.Destination), Alt: l.plain(n), Title: string(n.Title)}
	case *east.Strikethrough:
		return l.parent(&Delete{}, n)
	case *east.Table:
		return l.parent(&Table{}, n)
	case *east.TableHeader, *east.TableRow:
		return l.parent(&TableRow{}, n)
	case *east.TableCell:
		return l.parent(&TableCell{}, n)
	case *ast.Text:
		// a hard break is emitted by parent as its own node
		t := &Text{Value: l.text(n)}
		if n.SoftLineBreak() && !n.HardLineBreak() {
			t.Value += "\n"
		}
		return t
	case *ast.String:
		return &Text{Value: string(n.Value)}
	case *ast.RawHTML, *ast.HTMLBlock, *east.TaskCheckBox, *east.FootnoteLink, *east.FootnoteBacklink:
		return &Other{Type: n.Kind().String()}
	default:
		return l.parent(&Other{Type: n.Kind().String()}, n)
	}
}

type appender interface {
	Node
	append(Node)
}

// parent lowers the children of src into dst.
// Consecutive text runs become a single Text so that escaping sees whole words,
// and a hard line break after a run becomes a Break node.
func (l *lowerer) parent(dst appender, src ast.Node) Node {
	var last *Text
	for c := src.FirstChild(); c != nil; c = c.NextSibling() {
		child := l.node(c)

		if t, ok := child.(*Text); ok {
			if last != nil {
				last.Value += t.Value
			} else {
				dst.append(t)
				last = t
			}
		} else {
			dst.append(child)
			last = nil
		}

		if t, ok := c.(*ast.Text); ok && t.HardLineBreak() {
			dst.append(&Break{})
			last = nil
		}
	}
	return dst
}

// text returns the literal value of a text run with escapes and references resolved.
func (l *lowerer) text(n *ast.Text) string {
	value := n.Segment.Value(l.source)
	if n.IsRaw() {
		return string(value)
	}

	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

// lines joins the raw lines of a code block, without the final newline.
func (l *lowerer) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(l.source))
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func (l *lowerer) codeSpan(n *ast.CodeSpan) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			value := c.Segment.Value(l.source)
			if bytes.HasSuffix(value, []byte("\n")) {
				buf.Write(value[:len(value)-1])
				buf.WriteByte(' ')
			} else {
				buf.Write(value)
			}
		case *ast.String:
			buf.Write(c.Value)
		}
	}
	return buf.String()
}

// plain collects the text content below n, e.g. the alt text of an image.
func (l *lowerer) plain(n ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			buf.WriteString(l.text(c))
		case *ast.String:
			buf.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
