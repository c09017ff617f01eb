package hrml

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/hrml/sliceedit"
)

const (
	closingPrefix = "</"
	quote         = '"'
	equalSign     = "="
	pathSeparator = "."
	attrSeparator = "~"
)

// IsOpening returns true if the line opens a new tag, that is, it does not start with "</".
func IsOpening(line string) bool {
	return !strings.HasPrefix(line, closingPrefix)
}

// Tokenize splits an opening line into the tag name followed by alternating
// attribute keys and values.
// The enclosing '<' and '>' are dropped, '=' tokens are removed and one layer of
// quotes is stripped from every token starting with a quote. For instance
//
//	<tag1 key1 = "val1" key2 = "val2">
//
// becomes [tag1 key1 val1 key2 val2].
func Tokenize(line string) []string {
	if len(line) < 2 {
		return nil
	}

	// Words are separated by runs of white space, so keys and values can not contain blanks
	fields := strings.Fields(line[1 : len(line)-1])

	tokens := fields[:0]
	for _, f := range fields {
		if f == equalSign {
			continue
		}
		if f[0] == quote {
			if len(f) < 2 {
				f = ""
			} else {
				f = f[1 : len(f)-1]
			}
		}
		tokens = append(tokens, f)
	}

	return tokens
}

// Normalize surrounds every '=' outside a quoted value with blanks, so an
// attribute written as key="value" tokenizes like key = "value".
// A '=' inside a quoted value, like in url="a=b", is left untouched.
func Normalize(line string) string {
	quoted := quotedBytes(line)

	buf := sliceedit.NewBuffer([]byte(line))
	n := buf.ReplaceAllFunc(equalSign, " "+equalSign+" ", func(offset int) bool {
		return !quoted[offset]
	})
	if n == 0 {
		return line
	}
	return buf.String()
}

// quotedBytes marks the bytes of line inside a quoted value.
// A quote opens a value at the start of a word or right after '='. It closes the
// value when followed by white space, '>' or the end of the line.
func quotedBytes(line string) []bool {
	quoted := make([]bool, len(line))
	inside := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case !inside && c == quote && (i == 0 || isBlank(line[i-1]) || line[i-1] == '='):
			inside = true
		case inside && c == quote && (i == len(line)-1 || isBlank(line[i+1]) || line[i+1] == '>'):
			inside = false
		}
		quoted[i] = inside
	}

	return quoted
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// ParseTag builds a detached Tag from an opening line.
// The line must yield a name plus an even number of key/value tokens.
// A key appearing twice keeps the last value.
func ParseTag(line string) (*Tag, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 || len(tokens)%2 == 0 {
		return nil, fmt.Errorf("%w: %q yields %d tokens", ErrMalformedTag, line, len(tokens))
	}

	tag := NewTag(tokens[0])
	for i := 1; i < len(tokens); i += 2 {
		tag.SetAttr(tokens[i], tokens[i+1])
	}

	return tag, nil
}

// TokenizeQuery splits a query line like "tag1.tag2~attr" into its path
// segments and the attribute name.
// The last '~' separates path and attribute. Empty segments are preserved, so a
// path without dots has exactly one segment.
func TokenizeQuery(line string) (path []string, attr string, err error) {
	pos := strings.LastIndex(line, attrSeparator)
	if pos == -1 {
		return nil, "", fmt.Errorf("%w: no %q in %q", ErrMalformedQuery, attrSeparator, line)
	}

	attr = line[pos+1:]
	path = strings.Split(line[:pos], pathSeparator)

	return path, attr, nil
}
