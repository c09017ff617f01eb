package hrml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ByteRenderer accumulates rendered output.
type ByteRenderer struct {
	buf bytes.Buffer
}

// Render writes its arguments, which must be strings or byte slices.
func (br *ByteRenderer) Render(args ...any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			br.buf.WriteString(v)
		case []byte:
			br.buf.Write(v)
		default:
			fmt.Fprint(&br.buf, v)
		}
	}
}

// Renderln is like Render but appends a newline.
func (br *ByteRenderer) Renderln(args ...any) {
	br.Render(args...)
	br.buf.WriteByte('\n')
}

// Bytes returns the rendered output.
func (br *ByteRenderer) Bytes() []byte {
	return br.buf.Bytes()
}

// renderWord returns a tag name or attribute key as written in an opening line.
// Empty words and words starting with a quote are quoted, so Tokenize gives them back.
func renderWord(w string) string {
	if len(w) == 0 || w[0] == quote {
		return `"` + w + `"`
	}
	return w
}

// startTag returns the opening line of t, like <tag1 key = "value">
func startTag(t *Tag) string {
	br := &ByteRenderer{}
	br.Render("<", renderWord(t.Name))
	for _, key := range t.AttrKeys() {
		br.Render(" ", renderWord(key), ` = "`, t.attrs[key], `"`)
	}
	br.Render(">")
	return string(br.Bytes())
}

// Render writes the tree back as a structure block, one line per opening and closing tag.
// Children and attributes are written in name order. With indent, nested lines are
// indented two blanks per level, which the parser accepts because lines are trimmed.
func (d *Document) Render(w io.Writer, indent bool) error {
	br := &ByteRenderer{}

	for _, name := range d.root.ChildNames() {
		renderTag(br, d.root.Child(name), 0, indent)
	}

	_, err := w.Write(br.Bytes())
	return err
}

func renderTag(br *ByteRenderer, t *Tag, depth int, indent bool) {
	indentStr := ""
	if indent {
		indentStr = string(bytes.Repeat([]byte("  "), depth))
	}

	br.Renderln(indentStr, startTag(t))
	for _, name := range t.ChildNames() {
		renderTag(br, t.Child(name), depth+1, indent)
	}
	br.Renderln(indentStr, "</", renderWord(t.Name), ">")
}

// CountLines returns the number of lines Render writes for the tree.
func (d *Document) CountLines() int {
	n := 0
	d.root.Walk(func(t *Tag, depth int) bool {
		if depth > 0 {
			n += 2
		}
		return true
	})
	return n
}

// Highlight writes src with syntax highlighting, using the chroma style
// styleName and the formatter formatterName (for instance "terminal256" or "html").
// Unknown names fall back to the chroma defaults.
func Highlight(w io.Writer, src string, styleName string, formatterName string) error {
	l := lexers.Get("xml")
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := styles.Get(styleName)
	f := formatters.Get(formatterName)

	it, err := l.Tokenise(nil, src)
	if err != nil {
		return err
	}

	return f.Format(w, s, it)
}
