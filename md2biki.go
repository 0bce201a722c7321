// Package md2biki converts Markdown documents into Backlog wiki markup.
//
// Markdown is parsed with goldmark (GFM tables, strikethrough and autolinks included)
// into a small document tree, which is then rendered node by node:
//
//	# Header      → * Header
//	**Bold**      → ''Bold''
//	*Italic*      → '''Italic'''
//	~~Strike~~    → %%Strike%%
//	[Link](url)   → [[Link>url]]
//	- Item        → - Item
//	1. Item       → + Item
//	> Quote       → >Quote
package md2biki

import (
	"bytes"
	"fmt"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
)

type Converter struct {
	md               goldmark.Markdown
	stripFrontMatter bool
}

type Option func(*Converter)

// WithStripFrontMatter drops a leading YAML (---), TOML (+++) or JSON front matter block before conversion.
func WithStripFrontMatter(strip bool) Option {
	return func(c *Converter) {
		c.stripFrontMatter = strip
	}
}

func New(opts ...Option) *Converter {
	c := &Converter{
		md: newMarkdown(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts a Markdown document into wiki markup.
// A front matter block that cannot be decoded is converted as regular Markdown.
func (c *Converter) Convert(markdown string) string {
	out, err := c.ConvertBytes([]byte(markdown))
	if err != nil {
		return Render(parse(c.md, []byte(markdown)))
	}
	return string(out)
}

// ConvertBytes is like Convert, but reports front matter decoding errors.
func (c *Converter) ConvertBytes(source []byte) ([]byte, error) {
	if c.stripFrontMatter {
		var meta map[string]any
		body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
		if err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		source = body
	}

	return []byte(Render(parse(c.md, source))), nil
}

// Convert converts a Markdown document into wiki markup using default options.
func Convert(markdown string) string {
	return Render(Parse([]byte(markdown)))
}
