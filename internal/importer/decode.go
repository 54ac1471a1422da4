package importer

// decode.go resolves the two ambiguities of a Brazilian fleet CSV before any
// row is parsed: byte encoding (UTF-8 with Latin-1 fallback) and delimiter
// (semicolon-biased detection over the first line). Header cells are
// normalized to stable snake_case keys so "Preço/Litro " and "preco_litro"
// address the same column.

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrEncoding reports content that is neither valid UTF-8 nor Latin-1.
	ErrEncoding = errors.New("unsupported encoding")

	// ErrNoHeader reports an empty file or one without a parseable header row.
	ErrNoHeader = errors.New("missing header row")
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9_]`)
	underscorePattern = regexp.MustCompile(`_+`)
	candidateDelims   = []rune{';', ',', '\t', '|'}
)

// DecodeContent converts raw file bytes to a string, trying UTF-8 first and
// falling back to ISO-8859-1, the traditional encoding of Brazilian exports.
func DecodeContent(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", ErrEncoding
	}
	return string(decoded), nil
}

// DetectDelimiter picks the most frequent candidate delimiter in the header
// line. Ties resolve in candidate order; zero occurrences of everything
// defaults to semicolon.
func DetectDelimiter(line string) rune {
	best := ';'
	bestCount := 0
	for _, d := range candidateDelims {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// NormalizeHeader lowercases a header cell and collapses every run of
// non-alphanumeric characters to a single underscore.
func NormalizeHeader(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumPattern.ReplaceAllString(s, "_")
	s = underscorePattern.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// RowReader yields RawRows from decoded CSV content, one at a time.
// It is finite and forward-only; restart by constructing a new reader.
type RowReader struct {
	reader  *csv.Reader
	columns []string
	num     int
}

// NewRowReader detects the delimiter, reads and normalizes the header row,
// and positions the reader at the first data row. Returns ErrNoHeader when
// the content has no usable header.
func NewRowReader(content string) (*RowReader, error) {
	firstLine, _, _ := strings.Cut(content, "\n")
	delim := DetectDelimiter(firstLine)

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, ErrNoHeader
	}

	columns := make([]string, len(header))
	usable := false
	for i, cell := range header {
		columns[i] = NormalizeHeader(cell)
		if columns[i] != "" {
			usable = true
		}
	}
	if !usable {
		return nil, ErrNoHeader
	}

	return &RowReader{reader: r, columns: columns, num: 1}, nil
}

// Columns returns the normalized header names in file order.
func (rr *RowReader) Columns() []string {
	return rr.columns
}

// Next returns the next data row, or io.EOF when the file is exhausted.
// Cells beyond the header width are dropped; missing cells read as empty.
func (rr *RowReader) Next() (RawRow, error) {
	record, err := rr.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawRow{}, io.EOF
		}
		return RawRow{}, err
	}

	rr.num++
	fields := make(map[string]string, len(rr.columns))
	for i, name := range rr.columns {
		if name == "" {
			continue
		}
		if i < len(record) {
			fields[name] = record[i]
		} else {
			fields[name] = ""
		}
	}
	return RawRow{Num: rr.num, Fields: fields}, nil
}
