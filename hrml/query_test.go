package hrml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := buildLines(t, exampleLines...)
	require.NoError(t, err)
	return doc
}

func TestQueryExample(t *testing.T) {
	doc := exampleDocument(t)

	tests := []struct {
		query string
		want  string
	}{
		{"tag1~value", "hello"},
		{"tag1.tag2~name", "world"},
		{"tag1.tag2~greet", "hi"},
		{"tag1.tag3~name", NotFound},
		{"tag1~missing", NotFound},
		{"tag2~name", NotFound},
		{"tag1.tag2.tag3~name", NotFound},
		{"~value", NotFound},
		{"tag1.~value", NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := doc.Query(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryIdempotent(t *testing.T) {
	doc := exampleDocument(t)

	for _, q := range []string{"tag1.tag2~name", "tag1.tag3~name"} {
		first, err := doc.Query(q)
		require.NoError(t, err)
		second, err := doc.Query(q)
		require.NoError(t, err)
		assert.Equal(t, first, second, q)
	}
}

func TestQueryDoesNotModifyTree(t *testing.T) {
	doc := exampleDocument(t)

	_, err := doc.Query("nothere.tag2~name")
	require.NoError(t, err)
	_, err = doc.Query("tag1.nothere~name")
	require.NoError(t, err)

	assert.Equal(t, []string{"tag1"}, doc.Root().ChildNames())
	assert.Equal(t, []string{"tag2"}, doc.Root().Child("tag1").ChildNames())
}

func TestFindShortCircuit(t *testing.T) {
	doc := exampleDocument(t)

	assert.Nil(t, doc.Find([]string{"missing", "tag1", "tag2"}))
	assert.Same(t, doc.Root(), doc.Find(nil))
	assert.Same(t, doc.Root().Child("tag1").Child("tag2"), doc.Find([]string{"tag1", "tag2"}))
}

func TestLookup(t *testing.T) {
	doc := exampleDocument(t)

	v, ok := doc.Lookup([]string{"tag1", "tag2"}, "greet")
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	v, ok = doc.Lookup([]string{"tag1"}, "greet")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestQueryMalformed(t *testing.T) {
	doc := exampleDocument(t)

	_, err := doc.Query("tag1.value")
	assert.ErrorIs(t, err, ErrMalformedQuery)
}
