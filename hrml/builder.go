package hrml

import (
	"fmt"

	"go.uber.org/zap"
)

// Builder turns the lines of a structure block into a Document.
// The currently open tags are kept in a stack whose bottom is the root, so
// the finished tree has no references from children to parents.
type Builder struct {
	root *Tag

	// open is the stack of open tags. open[0] is always the root
	open []*Tag

	// Normalize pads '=' with blanks before tokenizing opening lines
	Normalize bool

	log *zap.SugaredLogger
}

// NewBuilder returns a Builder with an empty root.
// logger may be nil.
func NewBuilder(logger *zap.SugaredLogger) *Builder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	root := NewTag("")
	return &Builder{
		root: root,
		open: []*Tag{root},
		log:  logger,
	}
}

// Depth returns the number of tags currently open, not counting the root.
func (b *Builder) Depth() int {
	return len(b.open) - 1
}

func (b *Builder) current() *Tag {
	return b.open[len(b.open)-1]
}

// AddLine processes one line of the structure block.
// An opening line creates a child of the current tag and makes it current.
// A closing line returns to the parent of the current tag; its name is not
// checked against the open tag.
func (b *Builder) AddLine(line string) error {
	if len(line) <= len(closingPrefix) {
		return fmt.Errorf("%w: line too short: %q", ErrMalformedTag, line)
	}

	if !IsOpening(line) {
		return b.Close()
	}

	if b.Normalize {
		line = Normalize(line)
	}

	tag, err := ParseTag(line)
	if err != nil {
		return err
	}
	b.Open(tag)
	return nil
}

// Open adds tag as a child of the current tag and makes it current.
func (b *Builder) Open(tag *Tag) {
	parent := b.current()
	if parent.Child(tag.Name) != nil {
		b.log.Debugw("replacing tag", "tag", tag.Name, "depth", b.Depth())
	}
	parent.AddChild(tag)
	b.open = append(b.open, tag)
	b.log.Debugw("open tag", "tag", tag.Name, "attributes", tag.NumAttrs(), "depth", b.Depth())
}

// Close makes the parent of the current tag current.
// Closing when no tag is open is an error.
func (b *Builder) Close() error {
	if b.Depth() == 0 {
		return fmt.Errorf("%w: closing line without an open tag", ErrUnbalanced)
	}
	b.log.Debugw("close tag", "tag", b.current().Name, "depth", b.Depth())
	b.open = b.open[:len(b.open)-1]
	return nil
}

// Document returns the finished tree.
// It fails if any tag is still open.
func (b *Builder) Document() (*Document, error) {
	if b.Depth() != 0 {
		return nil, fmt.Errorf("%w: %d tags not closed, innermost is %q", ErrUnbalanced, b.Depth(), b.current().Name)
	}
	return &Document{root: b.root, log: b.log}, nil
}
