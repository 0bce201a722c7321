package md2biki

import (
	"strings"
)

// lineBreak is the wiki token for a forced line break.
const lineBreak = "&br;"

const maxHeadingDepth = 6

var textEscaper = strings.NewReplacer(
	"||", `\|\|`,
	"%%", `\%\%`,
	"[[", `\[\[`,
	"]]", `\]\]`,
)

// state is the list context of the node being rendered.
// It is passed by value; entering a list yields a new state and leaves the caller's untouched.
type state struct {
	depth   int
	ordered []bool
}

func (s state) enterList(ordered bool) state {
	stack := make([]bool, len(s.ordered), len(s.ordered)+1)
	copy(stack, s.ordered)
	return state{
		depth:   s.depth + 1,
		ordered: append(stack, ordered),
	}
}

func (s state) bullet() string {
	if s.depth == 0 {
		return ""
	}

	b := "-"
	if s.ordered[len(s.ordered)-1] {
		b = "+"
	}
	return strings.Repeat(b, s.depth)
}

// Render renders a document tree as wiki markup.
// Every call starts from an empty list context.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n, "", state{})
	return b.String()
}

func render(b *strings.Builder, n Node, parent Kind, s state) {
	switch n := n.(type) {
	case *Root:
		renderChildren(b, n, s)
	case *Heading:
		depth := min(max(n.Depth, 1), maxHeadingDepth)
		b.WriteString(strings.Repeat("*", depth))
		b.WriteByte(' ')
		renderChildren(b, n, s)
		b.WriteString("\n\n")
	case *Paragraph:
		renderChildren(b, n, s)
		// a blank line would end the list item
		if parent != KindListItem {
			b.WriteString("\n\n")
		}
	case *Text:
		b.WriteString(escapeText(n.Value))
	case *Strong:
		wrap(b, "''", n, s)
	case *Emphasis:
		wrap(b, "'''", n, s)
	case *Delete:
		wrap(b, "%%", n, s)
	case *InlineCode:
		b.WriteString("{code}")
		b.WriteString(n.Value)
		b.WriteString("{/code}")
	case *Code:
		b.WriteString("{code")
		if n.Lang != "" {
			b.WriteByte(':')
			b.WriteString(n.Lang)
		}
		b.WriteString("}\n")
		b.WriteString(n.Value)
		b.WriteString("\n{/code}\n\n")
	case *Link:
		renderLink(b, n, s)
	case *Image:
		b.WriteString("#image(")
		b.WriteString(n.URL)
		b.WriteString(")\n")
	case *List:
		renderList(b, n, s)
	case *ListItem:
		renderListItem(b, n, s)
	case *Blockquote:
		renderBlockquote(b, n, s)
	case *Table:
		renderTable(b, n, s)
	case *TableRow:
		b.WriteByte('|')
		b.WriteString(strings.Join(renderCells(n, s, false), "|"))
		b.WriteString("|\n")
	case *TableCell:
		renderChildren(b, n, s)
	case *Break:
		b.WriteString(lineBreak)
	case *ThematicBreak:
		b.WriteString("----\n\n")
	default:
		renderChildren(b, n, s)
	}
}

func renderChildren(b *strings.Builder, n Node, s state) {
	kind := n.Kind()
	for _, c := range n.Children() {
		render(b, c, kind, s)
	}
}

// renderString renders the children of n into a new string.
func renderString(n Node, s state) string {
	var b strings.Builder
	renderChildren(&b, n, s)
	return b.String()
}

func wrap(b *strings.Builder, marker string, n Node, s state) {
	b.WriteString(marker)
	renderChildren(b, n, s)
	b.WriteString(marker)
}

// escapeText escapes sequences that the wiki would read as markup and
// turns embedded newlines into line break tokens.
func escapeText(text string) string {
	text = textEscaper.Replace(text)
	return strings.ReplaceAll(text, "\n", lineBreak)
}

func renderLink(b *strings.Builder, n *Link, s state) {
	text := renderString(n, s)
	if text == n.URL {
		b.WriteString(n.URL)
		return
	}

	b.WriteString("[[")
	b.WriteString(text)
	b.WriteByte('>')
	b.WriteString(n.URL)
	b.WriteString("]]")
}

func renderList(b *strings.Builder, n *List, s state) {
	nested := s.depth > 0
	inner := s.enterList(n.Ordered)
	for _, c := range n.Children() {
		render(b, c, KindList, inner)
	}

	if !nested {
		b.WriteByte('\n')
	}
}

func renderListItem(b *strings.Builder, n *ListItem, s state) {
	var content, sublists strings.Builder
	for _, c := range n.Children() {
		switch c := c.(type) {
		case *Paragraph:
			renderChildren(&content, c, s)
		case *List:
			render(&sublists, c, KindListItem, s)
		default:
			render(&content, c, KindListItem, s)
		}
	}

	b.WriteString(s.bullet())
	b.WriteByte(' ')
	b.WriteString(strings.TrimSpace(content.String()))
	b.WriteByte('\n')
	if sub := strings.TrimSpace(sublists.String()); sub != "" {
		b.WriteString(sub)
		b.WriteByte('\n')
	}
}

func renderBlockquote(b *strings.Builder, n *Blockquote, s state) {
	content := strings.TrimSpace(renderString(n, s))
	lines := strings.ReplaceAll(content, lineBreak, "\n")
	if !strings.Contains(lines, "\n") {
		b.WriteByte('>')
		b.WriteString(content)
		b.WriteString("\n\n")
		return
	}

	b.WriteString("{quote}\n")
	b.WriteString(lines)
	b.WriteString("\n{/quote}\n\n")
}

func renderTable(b *strings.Builder, n *Table, s state) {
	for i, row := range n.Children() {
		cells := renderCells(row, s, true)
		if i == 1 && isDelimiterRow(cells) {
			continue
		}

		b.WriteByte('|')
		b.WriteString(strings.Join(cells, "|"))
		if i == 0 {
			b.WriteString("|h\n")
		} else {
			b.WriteString("|\n")
		}
	}

	b.WriteByte('\n')
}

func renderCells(row Node, s state, trim bool) []string {
	children := row.Children()
	cells := make([]string, 0, len(children))
	for _, c := range children {
		var cell strings.Builder
		render(&cell, c, row.Kind(), s)
		if trim {
			cells = append(cells, strings.TrimSpace(cell.String()))
		} else {
			cells = append(cells, cell.String())
		}
	}
	return cells
}

// isDelimiterRow reports whether cells form the |---|:--:| row that
// separates a table header from its body.
func isDelimiterRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}

	for _, c := range cells {
		c = strings.TrimSuffix(strings.TrimPrefix(c, ":"), ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}
