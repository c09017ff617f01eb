package hrml

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Options configure a Parser.
type Options struct {
	// Normalize pads '=' with blanks in opening lines, accepting key="value"
	Normalize bool

	// Logger receives debug events. It may be nil
	Logger *zap.SugaredLogger
}

// Parser reads an input made of a header line with two counts, a structure
// block and a query block.
type Parser struct {
	// The source of the input for scanning
	s *bufio.Scanner

	// the name of the input, for error messages
	fileName string

	// currentLineCounter is the number of lines read
	currentLineCounter int

	opts Options
	log  *zap.SugaredLogger
}

// NewParser returns a parser reading lines from linescanner.
// fileName is for error messages and logging.
func NewParser(fileName string, linescanner *bufio.Scanner, opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Parser{
		s:        linescanner,
		fileName: fileName,
		opts:     opts,
		log:      logger.With("file", fileName),
	}
}

func (p *Parser) syntaxError(err error, msg string) *SyntaxError {
	return &SyntaxError{
		Filename: p.fileName,
		Line:     p.currentLineCounter,
		Msg:      msg,
		Err:      err,
	}
}

// wrap attaches the current line to an error coming from the tokenizers or the builder.
func (p *Parser) wrap(err error) error {
	return p.syntaxError(err, "")
}

// ReadLine returns the next line without surrounding white space.
// It fails with ErrUnexpectedEOF at the end of the input.
func (p *Parser) ReadLine() (string, error) {
	if p.s.Scan() {
		p.currentLineCounter++
		return string(bytes.TrimSpace(p.s.Bytes())), nil
	}

	// Check if there were other errors apart from EOF
	if err := p.s.Err(); err != nil {
		return "", err
	}

	return "", p.syntaxError(ErrUnexpectedEOF, "no more lines")
}

// ReadCounts reads the number of lines of the structure block and of the query block.
// Both numbers may be on the same line or on separate lines. Blank lines before them are skipped.
func (p *Parser) ReadCounts() (structure int, queries int, err error) {
	var counts []int

	for len(counts) < 2 {
		line, err := p.ReadLine()
		if err != nil {
			if errors.Is(err, ErrUnexpectedEOF) {
				return 0, 0, p.syntaxError(ErrBadHeader, "missing line counts")
			}
			return 0, 0, err
		}

		for _, f := range strings.Fields(line) {
			if len(counts) == 2 {
				return 0, 0, p.syntaxError(ErrBadHeader, fmt.Sprintf("unexpected %q after line counts", f))
			}
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 {
				return 0, 0, p.syntaxError(ErrBadHeader, fmt.Sprintf("%q is not a valid line count", f))
			}
			counts = append(counts, n)
		}
	}

	return counts[0], counts[1], nil
}

// ParseTree reads numLines lines of the structure block and builds the tree.
func (p *Parser) ParseTree(numLines int) (*Document, error) {
	b := NewBuilder(p.log)
	b.Normalize = p.opts.Normalize

	for i := 0; i < numLines; i++ {
		line, err := p.ReadLine()
		if err != nil {
			return nil, err
		}
		if err := b.AddLine(line); err != nil {
			return nil, p.wrap(err)
		}
	}

	// If everything went right, we are back at the root
	doc, err := b.Document()
	if err != nil {
		return nil, p.wrap(err)
	}

	p.log.Debugw("tree built", "lines", numLines, "topLevelTags", doc.Root().NumChildren())
	return doc, nil
}

// Answer reads numLines queries and writes one answer line per query to w, in order.
// A malformed query line stops processing; misses do not.
func (p *Parser) Answer(doc *Document, numLines int, w io.Writer) error {
	out := bufio.NewWriter(w)
	defer out.Flush()

	for i := 0; i < numLines; i++ {
		line, err := p.ReadLine()
		if err != nil {
			return err
		}

		answer, err := doc.Query(line)
		if err != nil {
			return p.wrap(err)
		}

		if _, err := fmt.Fprintln(out, answer); err != nil {
			return err
		}
	}

	return out.Flush()
}

// Run reads the whole input from r: the line counts, the structure block and
// the query block. The answers are written to w.
// The tree is completely built before the first query is read.
func Run(fileName string, r io.Reader, w io.Writer, opts Options) error {
	p := NewParser(fileName, bufio.NewScanner(r), opts)

	numStructure, numQueries, err := p.ReadCounts()
	if err != nil {
		return err
	}

	doc, err := p.ParseTree(numStructure)
	if err != nil {
		return err
	}

	return p.Answer(doc, numQueries, w)
}

// ParseFromBytes reads the line counts and the structure block from src and
// returns the tree. The query block, if any, is ignored.
func ParseFromBytes(fileName string, src []byte, opts Options) (*Document, error) {
	p := NewParser(fileName, bufio.NewScanner(bytes.NewReader(src)), opts)

	numStructure, _, err := p.ReadCounts()
	if err != nil {
		return nil, err
	}

	return p.ParseTree(numStructure)
}

// ParseFromFile is like ParseFromBytes but reads the file fileName.
func ParseFromFile(fileName string, opts Options) (*Document, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return ParseFromBytes(fileName, src, opts)
}
