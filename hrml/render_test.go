package hrml

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := exampleDocument(t)

	var out bytes.Buffer
	require.NoError(t, doc.Render(&out, false))
	assert.Equal(t, `<tag1 value = "hello">
<tag2 greet = "hi" name = "world">
</tag2>
</tag1>
`, out.String())
	assert.Equal(t, 4, doc.CountLines())
}

func TestRenderIndent(t *testing.T) {
	doc := exampleDocument(t)

	var out bytes.Buffer
	require.NoError(t, doc.Render(&out, true))
	assert.Equal(t, `<tag1 value = "hello">
  <tag2 greet = "hi" name = "world">
  </tag2>
</tag1>
`, out.String())
}

func TestRenderReparses(t *testing.T) {
	doc, err := buildLines(t,
		`<b>`,
		`<x k = "1">`,
		`</x>`,
		`<y>`,
		`</y>`,
		`</b>`,
		`<a j = "2" i = "3">`,
		`</a>`,
	)
	require.NoError(t, err)

	for _, indent := range []bool{false, true} {
		var first bytes.Buffer
		require.NoError(t, doc.Render(&first, indent))

		src := fmt.Sprintf("%d 0\n%s", doc.CountLines(), first.String())
		again, err := ParseFromBytes("rendered", []byte(src), Options{})
		require.NoError(t, err)

		var second bytes.Buffer
		require.NoError(t, again.Render(&second, indent))
		assert.Equal(t, first.String(), second.String())
	}
}

func TestRenderReparsesQuotedWords(t *testing.T) {
	doc, err := buildLines(t, `<a "" = "v" ""k" = "w">`, `</a>`, `<"" x = "1">`, `</"">`)
	require.NoError(t, err)

	a := doc.Root().Child("a")
	require.NotNil(t, a)
	assert.Equal(t, map[string]string{"": "v", `"k`: "w"}, a.Attrs())

	var out bytes.Buffer
	require.NoError(t, doc.Render(&out, false))
	assert.Equal(t, `<"" x = "1">
</"">
<a "" = "v" ""k" = "w">
</a>
`, out.String())

	src := fmt.Sprintf("%d 0\n%s", doc.CountLines(), out.String())
	again, err := ParseFromBytes("rendered", []byte(src), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.Attrs(), again.Root().Child("a").Attrs())
	v, ok := again.Lookup([]string{""}, "x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestRenderEmpty(t *testing.T) {
	doc, err := buildLines(t)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, doc.Render(&out, true))
	assert.Empty(t, out.String())
	assert.Equal(t, 0, doc.CountLines())
}

func TestHighlight(t *testing.T) {
	src := "<tag1 value = \"hello\">\n</tag1>\n"

	var plain bytes.Buffer
	require.NoError(t, Highlight(&plain, src, "monokai", "noop"))
	assert.Equal(t, src, plain.String())

	var html bytes.Buffer
	require.NoError(t, Highlight(&html, src, "monokai", "html"))
	assert.True(t, strings.Contains(html.String(), "tag1"))
	assert.NotEqual(t, src, html.String())
}

func TestByteRenderer(t *testing.T) {
	br := &ByteRenderer{}
	br.Render("a", []byte("b"), 1)
	br.Renderln(" c")
	assert.Equal(t, "ab1 c\n", string(br.Bytes()))
}
