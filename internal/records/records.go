// Package records reads delimited data files as field-indexable rows.
package records

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// maxLineSize bounds a single line. Longer lines are reported as a ParseError.
const maxLineSize = 4 << 20

// Format describes how a delimited file is laid out. Fields are split on
// every Delimiter; quotes have no special meaning. Blank lines and lines
// starting with Comment are skipped.
type Format struct {
	Delimiter rune
	Header    bool
	Comment   rune
}

var (
	// TSV is tab-delimited without a header (mapping and ortholog files).
	TSV = Format{Delimiter: '\t'}
	// TSVComment is TSV with '#' comment lines.
	TSVComment = Format{Delimiter: '\t', Comment: '#'}
	// TSVHeader is tab-delimited with a header row (StringDB actions, BioGrid).
	TSVHeader = Format{Delimiter: '\t', Header: true}
	// SpaceHeader is space-delimited with a header row (StringDB links).
	SpaceHeader = Format{Delimiter: ' ', Header: true}
)

// Row is one record. Fields are addressable by index and, when the file has
// a header, by column name.
type Row struct {
	Line   int
	fields []string
	header map[string]int
}

// NewRow builds a row from literal fields, mainly for callers that produce
// rows without a file.
func NewRow(line int, header map[string]int, fields ...string) Row {
	return Row{Line: line, fields: fields, header: header}
}

// At returns field i; ok is false when the row is shorter.
func (r Row) At(i int) (string, bool) {
	if i < 0 || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

// Get returns the field under the named header column.
func (r Row) Get(name string) (string, bool) {
	i, ok := r.header[name]
	if !ok {
		return "", false
	}
	return r.At(i)
}

func (r Row) Len() int {
	return len(r.fields)
}

// Scanner yields rows until it returns io.EOF.
type Scanner interface {
	Next() (Row, error)
}

// Reader reads rows from a delimited stream. A Reader returned by Open owns
// its file and must be closed.
type Reader struct {
	name    string
	format  Format
	scanner *bufio.Scanner
	line    int
	closer  io.Closer
	header  map[string]int
	cols    []string
}

// Open opens path for reading. Failure to open yields a FileAccessError.
func Open(path string, format Format) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ppierrors.NewFileAccessError("open", path, err)
	}
	r, err := NewReader(f, path, format)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads rows from src. name is used in error messages.
func NewReader(src io.Reader, name string, format Format) (*Reader, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	r := &Reader{name: name, format: format, scanner: sc}
	if !format.Header {
		return r, nil
	}

	cols, _, err := r.fields()
	if errors.Is(err, io.EOF) {
		r.header = map[string]int{}
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	r.header = make(map[string]int, len(cols))
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if i == 0 {
			// BioGrid prefixes its header with '#'
			col = strings.TrimPrefix(col, "#")
		}
		r.cols = append(r.cols, col)
		if _, dup := r.header[col]; !dup {
			r.header[col] = i
		}
	}
	return r, nil
}

// Next returns the next row or io.EOF. An over-long line is a ParseError;
// a failing underlying read is a FileAccessError.
func (r *Reader) Next() (Row, error) {
	fields, line, err := r.fields()
	if err != nil {
		return Row{}, err
	}
	return Row{Line: line, fields: fields, header: r.header}, nil
}

func (r *Reader) fields() ([]string, int, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSuffix(r.scanner.Text(), "\r")
		if text == "" {
			continue
		}
		if r.format.Comment != 0 && strings.HasPrefix(text, string(r.format.Comment)) {
			continue
		}
		return strings.Split(text, string(r.format.Delimiter)), r.line, nil
	}

	err := r.scanner.Err()
	switch {
	case err == nil:
		return nil, 0, io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return nil, 0, ppierrors.NewParseError(r.name, r.line+1, "", "", err)
	}
	return nil, 0, ppierrors.NewFileAccessError("read", r.name, err)
}

// Columns returns the header names in file order.
func (r *Reader) Columns() []string {
	return r.cols
}

// HasColumns reports whether every name is a header column.
func (r *Reader) HasColumns(names ...string) bool {
	for _, n := range names {
		if _, ok := r.header[n]; !ok {
			return false
		}
	}
	return true
}

func (r *Reader) Name() string {
	return r.name
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Each calls fn for every row of s, stopping at the first error fn returns.
func Each(s Scanner, fn func(Row) error) error {
	for {
		row, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// EachFile opens path, calls fn for each row and closes the file whether or
// not the loop succeeds.
func EachFile(path string, format Format, fn func(Row) error) error {
	r, err := Open(path, format)
	if err != nil {
		return err
	}
	defer r.Close()
	return Each(r, fn)
}

type sliceScanner struct {
	rows []Row
	pos  int
}

// FromRows returns a Scanner over rows already in memory.
func FromRows(rows ...Row) Scanner {
	return &sliceScanner{rows: rows}
}

func (s *sliceScanner) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return Row{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
