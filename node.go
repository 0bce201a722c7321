package md2biki

// Kind identifies the type of a Node. Names follow the mdast vocabulary.
type Kind string

const (
	KindRoot          Kind = "root"
	KindHeading       Kind = "heading"
	KindParagraph     Kind = "paragraph"
	KindText          Kind = "text"
	KindStrong        Kind = "strong"
	KindEmphasis      Kind = "emphasis"
	KindDelete        Kind = "delete"
	KindInlineCode    Kind = "inlineCode"
	KindCode          Kind = "code"
	KindLink          Kind = "link"
	KindImage         Kind = "image"
	KindList          Kind = "list"
	KindListItem      Kind = "listItem"
	KindBlockquote    Kind = "blockquote"
	KindTable         Kind = "table"
	KindTableRow      Kind = "tableRow"
	KindTableCell     Kind = "tableCell"
	KindBreak         Kind = "break"
	KindThematicBreak Kind = "thematicBreak"
)

// Node is an element of a parsed document tree.
// The set of implementations is closed; anything the renderer has no rule for is an *Other.
type Node interface {
	Kind() Kind
	Children() []Node
}

// Parent holds the ordered children of a non-leaf node.
type Parent struct {
	Nodes []Node
}

func (p *Parent) Children() []Node { return p.Nodes }

func (p *Parent) append(n Node) {
	p.Nodes = append(p.Nodes, n)
}

type leaf struct{}

func (leaf) Children() []Node { return nil }

type Root struct{ Parent }

type Heading struct {
	Parent
	Depth int
}

type Paragraph struct{ Parent }

type Text struct {
	leaf
	Value string
}

type Strong struct{ Parent }

type Emphasis struct{ Parent }

type Delete struct{ Parent }

type InlineCode struct {
	leaf
	Value string
}

// Code is a fenced or indented code block. Lang is empty when no language tag was given.
type Code struct {
	leaf
	Lang  string
	Value string
}

type Link struct {
	Parent
	URL   string
	Title string
}

type Image struct {
	leaf
	URL   string
	Alt   string
	Title string
}

type List struct {
	Parent
	Ordered bool
	Start   int
}

type ListItem struct{ Parent }

type Blockquote struct{ Parent }

type Table struct{ Parent }

type TableRow struct{ Parent }

type TableCell struct{ Parent }

type Break struct{ leaf }

type ThematicBreak struct{ leaf }

// Other carries a node of any kind the renderer does not know about.
// Only its children are rendered.
type Other struct {
	Parent
	Type string
}

func (*Root) Kind() Kind          { return KindRoot }
func (*Heading) Kind() Kind       { return KindHeading }
func (*Paragraph) Kind() Kind     { return KindParagraph }
func (*Text) Kind() Kind          { return KindText }
func (*Strong) Kind() Kind        { return KindStrong }
func (*Emphasis) Kind() Kind      { return KindEmphasis }
func (*Delete) Kind() Kind        { return KindDelete }
func (*InlineCode) Kind() Kind    { return KindInlineCode }
func (*Code) Kind() Kind          { return KindCode }
func (*Link) Kind() Kind          { return KindLink }
func (*Image) Kind() Kind         { return KindImage }
func (*List) Kind() Kind          { return KindList }
func (*ListItem) Kind() Kind      { return KindListItem }
func (*Blockquote) Kind() Kind    { return KindBlockquote }
func (*Table) Kind() Kind         { return KindTable }
func (*TableRow) Kind() Kind      { return KindTableRow }
func (*TableCell) Kind() Kind     { return KindTableCell }
func (*Break) Kind() Kind         { return KindBreak }
func (*ThematicBreak) Kind() Kind { return KindThematicBreak }
func (o *Other) Kind() Kind       { return Kind(o.Type) }
