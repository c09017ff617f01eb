package hrml

import (
	"sort"
)

// Tag is a node of the markup tree.
// A Tag owns its children, indexed by name. A second child with the same name
// replaces the first one, and a repeated attribute key keeps the last value.
type Tag struct {
	Name     string
	attrs    map[string]string
	children map[string]*Tag
}

// NewTag returns a detached tag without attributes or children.
func NewTag(name string) *Tag {
	return &Tag{
		Name:     name,
		attrs:    make(map[string]string),
		children: make(map[string]*Tag),
	}
}

// SetAttr sets the value of the attribute key, overwriting any previous value.
func (t *Tag) SetAttr(key, value string) {
	t.attrs[key] = value
}

// Attribute returns the value of the attribute key and whether it exists.
func (t *Tag) Attribute(key string) (string, bool) {
	v, ok := t.attrs[key]
	return v, ok
}

// NumAttrs returns the number of distinct attribute keys of t.
func (t *Tag) NumAttrs() int {
	return len(t.attrs)
}

// Attrs returns a copy of the attributes of t.
func (t *Tag) Attrs() map[string]string {
	m := make(map[string]string, len(t.attrs))
	for k, v := range t.attrs {
		m[k] = v
	}
	return m
}

// AddChild makes c a child of t under c.Name, replacing any existing child with that name.
func (t *Tag) AddChild(c *Tag) {
	t.children[c.Name] = c
}

// Child returns the child called name, or nil if there is none.
func (t *Tag) Child(name string) *Tag {
	return t.children[name]
}

// NumChildren returns the number of distinct children of t.
func (t *Tag) NumChildren() int {
	return len(t.children)
}

// ChildNames returns the names of the children, sorted.
func (t *Tag) ChildNames() []string {
	return sortedKeys(t.children)
}

// AttrKeys returns the attribute keys, sorted.
func (t *Tag) AttrKeys() []string {
	return sortedKeys(t.attrs)
}

// Walk visits t and all its descendants depth-first, children in name order.
// depth is 0 for t. Returning false from fn skips the children of the visited tag.
func (t *Tag) Walk(fn func(tag *Tag, depth int) bool) {
	t.walk(fn, 0)
}

func (t *Tag) walk(fn func(tag *Tag, depth int) bool, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, name := range t.ChildNames() {
		t.children[name].walk(fn, depth+1)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
