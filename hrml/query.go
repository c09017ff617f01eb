package hrml

import (
	"strings"

	"go.uber.org/zap"
)

// NotFound is the answer to a query whose path or attribute does not exist.
const NotFound = "Not Found!"

// Document is a fully built markup tree.
// Find, Lookup and Query only read the tree, so repeating a query gives the same answer.
type Document struct {
	root *Tag
	log  *zap.SugaredLogger
}

// Root returns the synthetic, unnamed root tag owning all top-level tags.
func (d *Document) Root() *Tag {
	return d.root
}

// Find returns the tag reached by following path from the root, or nil.
// Resolution stops at the first segment without a matching child.
func (d *Document) Find(path []string) *Tag {
	node := d.root
	for _, name := range path {
		node = node.Child(name)
		if node == nil {
			return nil
		}
	}
	return node
}

// Lookup returns the value of attr in the tag at path.
// found is false if a segment or the attribute does not exist.
func (d *Document) Lookup(path []string, attr string) (value string, found bool) {
	node := d.Find(path)
	if node == nil {
		return "", false
	}
	return node.Attribute(attr)
}

// Query answers a query line like "tag1.tag2~name".
// A miss is not an error: the answer is NotFound. Only a line without '~'
// returns an error.
func (d *Document) Query(line string) (string, error) {
	path, attr, err := TokenizeQuery(line)
	if err != nil {
		return "", err
	}

	value, found := d.Lookup(path, attr)
	if !found {
		d.log.Debugw("query miss", "path", strings.Join(path, pathSeparator), "attribute", attr)
		return NotFound, nil
	}

	d.log.Debugw("query hit", "path", strings.Join(path, pathSeparator), "attribute", attr)
	return value, nil
}
