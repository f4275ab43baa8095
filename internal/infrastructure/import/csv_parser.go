package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
)

// CSVParser reads a header-delimited CSV file. Header names are trimmed and
// lower-cased; cell values are trimmed.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	fallback   encoding.Encoding
	maxBytes   int64
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithFallbackEncoding decodes input that is not UTF-8 with enc instead of
// rejecting it
func WithFallbackEncoding(enc encoding.Encoding) ParserOption {
	return func(p *CSVParser) {
		p.fallback = enc
	}
}

// WithMaxBytes caps how much input is read
func WithMaxBytes(n int64) ParserOption {
	return func(p *CSVParser) {
		p.maxBytes = n
	}
}

// NewCSVParser reads the whole input, normalises its encoding to UTF-8 and
// prepares a CSV reader over it.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter:  ',',
		lazyQuotes: true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	if parser.maxBytes > 0 {
		r = io.LimitReader(r, parser.maxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if parser.maxBytes > 0 && int64(len(raw)) > parser.maxBytes {
		return nil, ErrFileTooLarge.WithDetail("max_bytes", fmt.Sprint(parser.maxBytes))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	content, err := DecodeToUTF8(raw, parser.fallback)
	if err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(bytes.NewReader(content))
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1 // Allow variable number of fields

	return parser, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// ParseHeader reads the first record with at least one non-blank cell and
// uses it as the header
func (p *CSVParser) ParseHeader() error {
	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return ErrEmptyFile
		}
		if err != nil {
			return fmt.Errorf("failed to read header: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}

		p.headers = make([]string, len(record))
		for i, h := range record {
			header := normalizeHeader(h)
			p.headers[i] = header
			if _, dup := p.headerMap[header]; !dup && header != "" {
				p.headerMap[header] = i
			}
		}
		return nil
	}
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// ValidateHeaders returns the required headers that are absent, in the
// order given
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row represents a parsed CSV data row. Number is the 1-based position of
// the row after the header; LineNumber is the line in the file.
type Row struct {
	Number     int
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or default if blank
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. A malformed record is returned as a
// RowError so the caller can continue with the next one.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, NewRowError(p.currentRow, "", CodeMalformedRow, err.Error())
	}
	p.totalRows++

	line, _ := p.reader.FieldPos(0)
	row := &Row{
		Number:     p.currentRow,
		LineNumber: line,
		Data:       make(map[string]string, len(p.headerMap)),
	}
	for header, i := range p.headerMap {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// CurrentRow returns the number of data records read so far
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}

// TotalRows returns the number of well-formed data rows read
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
