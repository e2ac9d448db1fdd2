package importer

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// quotedReader splits records using an arbitrary quote character. A quote
// opens a quoted field only at the start of a field; inside a quoted field a
// doubled quote is a literal quote. A quote elsewhere is plain text. \r\n is
// read as \n, also inside quoted fields. Blank lines are skipped.
type quotedReader struct {
	r     *bufio.Reader
	comma rune
	quote rune
	line  int
}

func newQuotedReader(r io.Reader, comma, quote rune) *quotedReader {
	return &quotedReader{r: bufio.NewReader(r), comma: comma, quote: quote}
}

func (q *quotedReader) Read() ([]string, error) {
	for {
		rec, err := q.readRecord()
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
}

// readRecord returns nil, nil for a blank line.
func (q *quotedReader) readRecord() ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		started  bool // current field has content or was quoted
		quoted   bool
		consumed int
	)
	q.line++
	startLine := q.line

	for {
		r, _, err := q.r.ReadRune()
		if err == io.EOF {
			if quoted {
				return nil, &csv.ParseError{StartLine: startLine, Line: q.line, Err: csv.ErrQuote}
			}
			if consumed == 0 {
				return nil, io.EOF
			}
			return append(fields, field.String()), nil
		}
		if err != nil {
			return nil, err
		}
		if r == '\r' {
			next, _, err := q.r.ReadRune()
			if err == nil && next == '\n' {
				r = '\n'
			} else if err == nil {
				_ = q.r.UnreadRune()
			}
		}

		if quoted {
			if r == q.quote {
				next, _, err := q.r.ReadRune()
				if err == nil && next == q.quote {
					field.WriteRune(q.quote)
					consumed++
					continue
				}
				if err == nil {
					_ = q.r.UnreadRune()
				}
				quoted = false
				consumed++
				continue
			}
			if r == '\n' {
				q.line++
			}
			field.WriteRune(r)
			consumed++
			continue
		}

		switch {
		case r == '\n':
			if consumed == 0 {
				return nil, nil
			}
			return append(fields, field.String()), nil
		case r == q.quote && !started:
			quoted = true
			started = true
		case r == q.comma:
			fields = append(fields, field.String())
			field.Reset()
			started = false
		default:
			field.WriteRune(r)
			started = true
		}
		consumed++
	}
}
