package hrml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func buildLines(t *testing.T, lines ...string) (*Document, error) {
	t.Helper()
	b := NewBuilder(zaptest.NewLogger(t).Sugar())
	for _, line := range lines {
		if err := b.AddLine(line); err != nil {
			return nil, err
		}
	}
	return b.Document()
}

var exampleLines = []string{
	`<tag1 value = "hello">`,
	`<tag2 name = "world" greet = "hi">`,
	`</tag2>`,
	`</tag1>`,
}

func TestBuilderExample(t *testing.T) {
	doc, err := buildLines(t, exampleLines...)
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "", root.Name)
	assert.Equal(t, 0, root.NumAttrs())
	require.Equal(t, []string{"tag1"}, root.ChildNames())

	tag1 := root.Child("tag1")
	assert.Equal(t, map[string]string{"value": "hello"}, tag1.Attrs())
	require.Equal(t, []string{"tag2"}, tag1.ChildNames())

	tag2 := tag1.Child("tag2")
	assert.Equal(t, map[string]string{"name": "world", "greet": "hi"}, tag2.Attrs())
	assert.Equal(t, 0, tag2.NumChildren())
}

func TestBuilderDepth(t *testing.T) {
	b := NewBuilder(nil)
	want := []int{1, 2, 1, 0}
	for i, line := range exampleLines {
		require.NoError(t, b.AddLine(line))
		assert.Equal(t, want[i], b.Depth(), "after line %d", i)
	}
}

func TestBuilderSiblingOverwrite(t *testing.T) {
	doc, err := buildLines(t,
		`<tag1 a = "1">`,
		`<inner>`,
		`</inner>`,
		`</tag1>`,
		`<tag1 b = "2">`,
		`</tag1>`,
	)
	require.NoError(t, err)

	tag1 := doc.Root().Child("tag1")
	require.NotNil(t, tag1)
	assert.Equal(t, map[string]string{"b": "2"}, tag1.Attrs())
	assert.Nil(t, tag1.Child("inner"))
	assert.Equal(t, 1, doc.Root().NumChildren())
}

func TestBuilderClosingNameNotChecked(t *testing.T) {
	doc, err := buildLines(t, `<a>`, `<b>`, `</a>`, `</zzz>`)
	require.NoError(t, err)
	assert.NotNil(t, doc.Find([]string{"a", "b"}))
}

func TestBuilderSameNameAtDifferentLevels(t *testing.T) {
	doc, err := buildLines(t, `<a k = "outer">`, `<a k = "inner">`, `</a>`, `</a>`)
	require.NoError(t, err)

	v, ok := doc.Lookup([]string{"a"}, "k")
	assert.True(t, ok)
	assert.Equal(t, "outer", v)

	v, ok = doc.Lookup([]string{"a", "a"}, "k")
	assert.True(t, ok)
	assert.Equal(t, "inner", v)
}

func TestBuilderUnbalanced(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"missing close", []string{`<a>`, `<b>`, `</b>`}},
		{"close without open", []string{`</a>`}},
		{"extra close", []string{`<a>`, `</a>`, `</a>`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildLines(t, tt.lines...)
			assert.ErrorIs(t, err, ErrUnbalanced)
		})
	}
}

func TestBuilderMalformedLine(t *testing.T) {
	for _, line := range []string{"", "<>", "</", `<a k = >`} {
		b := NewBuilder(nil)
		err := b.AddLine(line)
		assert.ErrorIs(t, err, ErrMalformedTag, "line %q", line)
	}
}

func TestBuilderNormalize(t *testing.T) {
	b := NewBuilder(nil)
	assert.ErrorIs(t, b.AddLine(`<a k="v">`), ErrMalformedTag)

	b = NewBuilder(nil)
	b.Normalize = true
	require.NoError(t, b.AddLine(`<a k="v">`))
	require.NoError(t, b.AddLine(`</a>`))

	doc, err := b.Document()
	require.NoError(t, err)
	v, ok := doc.Lookup([]string{"a"}, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
