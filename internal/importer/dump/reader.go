// Package dump reads legacy SQL dump files.
// A dump is a text file of CREATE TABLE / INSERT INTO statements exported
// from the predecessor system. The reader extracts the INSERT tuples of a
// single table and yields one column→raw-value map per logical row; all
// interpretation of the values is left to the field mapper.
package dump

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"invoport/internal/core/apperror"
)

// Row maps a column name to its raw string value. The unquoted NULL
// keyword is kept as the literal string "NULL"; quoted values have their
// outer quotes stripped and escapes resolved.
type Row map[string]string

// Reader scans a dump file for the INSERT statements of named tables.
// Each Scan call re-reads the file, so scans are restartable per call.
type Reader struct {
	path string
}

// NewReader creates a reader for the given dump file. The file may be
// plain text or compressed (.gz, .zst); decompression is transparent.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Scan finds every INSERT INTO statement for table and calls fn once per
// tuple. A missing table yields zero calls and no error; a missing file
// or undecodable content is an error. An error from fn stops the scan
// and propagates.
func (r *Reader) Scan(table string, fn func(Row) error) error {
	data, err := r.readAll()
	if err != nil {
		return err
	}

	text := string(data)
	headRe, err := insertHead(table)
	if err != nil {
		return err
	}

	offset := 0
	for {
		loc := headRe.FindStringIndex(text[offset:])
		if loc == nil {
			return nil
		}
		stmtStart := offset + loc[1]

		cols, bodyStart, err := parseColumnList(text, stmtStart)
		if err != nil {
			return err
		}

		consumed, err := scanTuples(text, bodyStart, func(values []string) error {
			if len(values) != len(cols) {
				return apperror.NewParse("tuple arity does not match column list").
					WithDetail("table", table).
					WithDetail("columns", len(cols)).
					WithDetail("values", len(values))
			}
			row := make(Row, len(cols))
			for i, col := range cols {
				row[col] = values[i]
			}
			return fn(row)
		})
		if err != nil {
			return err
		}
		offset = consumed
	}
}

// Count returns the number of tuples for table. Used by dry-run
// diagnostics and tests.
func (r *Reader) Count(table string) (int, error) {
	n := 0
	err := r.Scan(table, func(Row) error {
		n++
		return nil
	})
	return n, err
}

func (r *Reader) readAll() ([]byte, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	var data []byte
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, apperror.NewParse("invalid gzip stream").
				WithDetail("path", r.path).WithCause(err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, apperror.NewParse("invalid zstd stream").
				WithDetail("path", r.path).WithCause(err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr.IOReadCloser()); err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
	default:
		if data, err = io.ReadAll(f); err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
	}

	if !utf8.Valid(data) {
		return nil, apperror.NewEncoding(r.path)
	}
	return data, nil
}

// insertHead matches "INSERT INTO <table> (" with optional backquotes
// around the table name.
func insertHead(table string) (*regexp.Regexp, error) {
	pattern := `(?i)INSERT\s+INTO\s+` + "`?" + regexp.QuoteMeta(table) + "`?" + `\s*\(`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, apperror.NewParse("invalid table name").
			WithDetail("table", table).WithCause(err)
	}
	return re, nil
}

// parseColumnList reads the declared column names starting just after the
// opening parenthesis and returns them with the position just past the
// VALUES keyword.
func parseColumnList(text string, pos int) ([]string, int, error) {
	end := strings.IndexByte(text[pos:], ')')
	if end < 0 {
		return nil, 0, apperror.NewParse("unterminated column list")
	}
	raw := strings.Split(text[pos:pos+end], ",")
	cols := make([]string, 0, len(raw))
	for _, c := range raw {
		col := strings.Trim(strings.TrimSpace(c), "`\"")
		if col == "" {
			return nil, 0, apperror.NewParse("empty column name in column list")
		}
		cols = append(cols, col)
	}

	rest := text[pos+end+1:]
	valuesRe := regexp.MustCompile(`(?i)^\s*VALUES\s*`)
	loc := valuesRe.FindStringIndex(rest)
	if loc == nil {
		return nil, 0, apperror.NewParse("INSERT statement without VALUES keyword")
	}
	return cols, pos + end + 1 + loc[1], nil
}

// scanTuples walks "(v, v, ...),(...),...;" starting at pos and calls fn
// with the raw values of each tuple. Commas inside single-quoted strings
// do not split values; doubled ('') and backslash-escaped (\') quotes
// inside strings are honored. Returns the position just past the
// terminating semicolon.
func scanTuples(text string, pos int, fn func(values []string) error) (int, error) {
	i := pos
	n := len(text)
	for {
		i = skipSpace(text, i)
		if i >= n {
			return i, apperror.NewParse("unterminated VALUES clause")
		}
		switch text[i] {
		case '(':
			values, next, err := scanTuple(text, i+1)
			if err != nil {
				return i, err
			}
			if err := fn(values); err != nil {
				return i, err
			}
			i = next
		case ',':
			i++
		case ';':
			return i + 1, nil
		default:
			return i, apperror.NewParse("unexpected character in VALUES clause").
				WithDetail("char", string(text[i]))
		}
	}
}

// scanTuple reads one parenthesized tuple starting just after '('.
func scanTuple(text string, pos int) ([]string, int, error) {
	var values []string
	var b strings.Builder
	inString := false

	i := pos
	n := len(text)
	for i < n {
		ch := text[i]
		if inString {
			switch ch {
			case '\\':
				// Backslash escape: keep the escaped character
				if i+1 < n {
					b.WriteByte(text[i+1])
					i += 2
					continue
				}
				b.WriteByte(ch)
				i++
			case '\'':
				if i+1 < n && text[i+1] == '\'' {
					// Doubled quote: literal quote
					b.WriteByte('\'')
					i += 2
					continue
				}
				inString = false
				b.WriteByte('\'')
				i++
			default:
				b.WriteByte(ch)
				i++
			}
			continue
		}

		switch ch {
		case '\'':
			inString = true
			b.WriteByte('\'')
			i++
		case ',':
			values = append(values, cleanValue(b.String()))
			b.Reset()
			i++
		case ')':
			values = append(values, cleanValue(b.String()))
			return values, i + 1, nil
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return nil, i, apperror.NewParse("unterminated tuple")
}

// cleanValue trims whitespace and strips the outer quotes of string
// values. Escapes were already resolved by the tuple scanner.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
