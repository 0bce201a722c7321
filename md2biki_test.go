package md2biki

import (
	"strings"
	"sync"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Header1", "* Header1"},
		{"## Header2", "** Header2"},
		{"# Header1\n## Header2\n### Header3", "* Header1\n\n** Header2\n\n*** Header3"},
		{"#### Header4\n##### Header5\n###### Header6", "**** Header4\n\n***** Header5\n\n****** Header6"},
		{"Title\n=====", "* Title"},
		{"**Bold**", "''Bold''"},
		{"*Italic*", "'''Italic'''"},
		{"~~Strike~~", "%%Strike%%"},
		{"`code`", "{code}code{/code}"},
		{"`a || b`", "{code}a || b{/code}"},
		{"- Item-A\n- Item-B", "- Item-A\n- Item-B"},
		{"* Item-A\n* Item-B", "- Item-A\n- Item-B"},
		{"- Item-A\n- Item-B\n  - Item-B-1\n    - Item-B-1-a", "- Item-A\n- Item-B\n-- Item-B-1\n--- Item-B-1-a"},
		{"1. Item-A\n2. Item-B\n3. Item-C", "+ Item-A\n+ Item-B\n+ Item-C"},
		{"1. Item-A\n2. Item-B\n   1. Item-B-1\n   2. Item-B-2", "+ Item-A\n+ Item-B\n++ Item-B-1\n++ Item-B-2"},
		{"- Item-A\n  1. Item-A-1\n- Item-B", "- Item-A\n++ Item-A-1\n- Item-B"},
		{"http://www.backlog.jp/", "http://www.backlog.jp/"},
		{"[Backlog](http://www.backlog.jp/)", "[[Backlog>http://www.backlog.jp/]]"},
		{"[http://www.backlog.jp/](http://www.backlog.jp/)", "http://www.backlog.jp/"},
		{"<http://www.backlog.jp/>", "http://www.backlog.jp/"},
		{"```\npackage helloworld;\npublic class Hello {\n  public String sayHello() {\n    return \"Hello\";\n  }\n}\n```",
			"{code}\npackage helloworld;\npublic class Hello {\n  public String sayHello() {\n    return \"Hello\";\n  }\n}\n{/code}"},
		{"```java\npublic class Hello {\n}\n```", "{code:java}\npublic class Hello {\n}\n{/code}"},
		{"```go title=main.go\nfunc main() {}\n```", "{code:go}\nfunc main() {}\n{/code}"},
		{"> 引用した文章です。", ">引用した文章です。"},
		{"> 引用した\n> 文章です。", "{quote}\n引用した\n文章です。\n{/quote}"},
		{"| A | B | C |\n|---|---|---|\n| a | b | c |", "|A|B|C|h\n|a|b|c|"},
		{"| A | B | C |\n|---|---|---|\n| a | b | c |\n| d | e | f |", "|A|B|C|h\n|a|b|c|\n|d|e|f|"},
		{"| A | B |\n|:--|--:|\n| a | b |", "|A|B|h\n|a|b|"},
		{"![alt text](https://example.com/image.png)", "#image(https://example.com/image.png)"},
		{"![alt text](image.png)", "#image(image.png)"},
		{"aaa\nbbb", "aaa&br;bbb"},
		{"aaa  \nbbb", "aaa&br;bbb"},
		{"---", "----"},
		{"Using bars in table ||", `Using bars in table \|\|`},
		{"%%Not struck%%", `\%\%Not struck\%\%`},
		{"see [[wiki]] page", `see \[\[wiki\]\] page`},
		{`\*not emphasis\*`, "*not emphasis*"},
		{"AT&amp;T", "AT&T"},
		{"<div>raw</div>", ""},
	}

	for _, tc := range tests {
		if got := strings.TrimSpace(Convert(tc.input)); got != tc.expected {
			t.Errorf("%q: expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

func TestConvertDocumentOrder(t *testing.T) {
	input := "# T\n\n**b** *i* ~~s~~\n\n- x\n  - y\n\n[L](http://u)"
	assertInOrder(t, Convert(input), "* T\n", "''b''", "'''i'''", "%%s%%", "- x\n", "-- y\n", "[[L>http://u]]")
}

func TestConvertComplexDocument(t *testing.T) {
	input := "# Main Header\n\n" +
		"This is a paragraph with **bold** and *italic* text.\n\n" +
		"## Subheader\n\n" +
		"Here's a list:\n- Item 1\n- Item 2\n  - Nested item\n- Item 3\n\n" +
		"### Code Example\n\n" +
		"```javascript\nfunction hello() {\n  console.log(\"Hello World\");\n}\n```\n\n" +
		"> This is a quote\n\n" +
		"| Column 1 | Column 2 |\n|----------|----------|\n| Value 1  | Value 2  |\n\n" +
		"[Link to Backlog](http://www.backlog.jp/)"

	result := Convert(input)
	assertInOrder(t, result,
		"* Main Header\n",
		"''bold''",
		"'''italic'''",
		"** Subheader\n",
		"- Item 1\n",
		"- Item 2\n-- Nested item\n- Item 3\n",
		"*** Code Example\n",
		"{code:javascript}\n",
		">This is a quote\n",
		"|Column 1|Column 2|h\n|Value 1|Value 2|\n",
		"[[Link to Backlog>http://www.backlog.jp/]]",
	)

	if strings.Contains(result, "|---") {
		t.Errorf("expected no delimiter row, got %q", result)
	}
}

func TestConverterFrontMatter(t *testing.T) {
	input := "---\ntitle: Hello\n---\n# Body\n"

	c := New(WithStripFrontMatter(true))
	if got := strings.TrimSpace(c.Convert(input)); got != "* Body" {
		t.Errorf("expected %q, got %q", "* Body", got)
	}

	out, err := c.ConvertBytes([]byte("+++\ntitle = \"Hello\"\n+++\nplain\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(out)); got != "plain" {
		t.Errorf("expected %q, got %q", "plain", got)
	}

	// without front matter the document is left alone
	if got := strings.TrimSpace(c.Convert("plain")); got != "plain" {
		t.Errorf("expected %q, got %q", "plain", got)
	}

	// by default front matter is regular markdown
	if got := New().Convert(input); !strings.Contains(got, "----") {
		t.Errorf("expected thematic break, got %q", got)
	}
}

func TestConvertConcurrently(t *testing.T) {
	inputs := []string{
		"- a\n  - b\n    - c",
		"1. a\n   1. b",
		"- a\n  1. b\n     - c",
	}
	expected := make([]string, len(inputs))
	for i, in := range inputs {
		expected[i] = Convert(in)
	}

	var wg sync.WaitGroup
	for n := 0; n < 50; n++ {
		for i, in := range inputs {
			wg.Add(1)
			go func(i int, in string) {
				defer wg.Done()
				if got := Convert(in); got != expected[i] {
					t.Errorf("expected %q, got %q", expected[i], got)
				}
			}(i, in)
		}
	}
	wg.Wait()
}

func assertInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()

	pos := 0
	for _, p := range parts {
		i := strings.Index(s[pos:], p)
		if i == -1 {
			t.Errorf("expected %q after position %d in %q", p, pos, s)
			return
		}
		pos += i + len(p)
	}
}

func BenchmarkConvert(b *testing.B) {
	input := strings.Repeat("# Title\n\nSome **bold** and *italic* text with a [link](http://example.com).\n\n"+
		"- one\n  - two\n    1. three\n\n| A | B |\n|---|---|\n| a | b |\n\n> quoted\n> twice\n\n", 50)

	c := New()
	for n := 0; n < b.N; n++ {
		c.Convert(input)
	}
}
