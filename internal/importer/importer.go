package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Options control how CSV records are split.
type Options struct {
	Delimiter rune
	Quote     rune
}

type recordSource interface {
	Read() ([]string, error)
}

// Reader yields CSV records one at a time. Records may have differing field
// counts; column bounds are the caller's concern.
type Reader struct {
	src recordSource
	row int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	if opts.Delimiter == opts.Quote {
		return nil, fmt.Errorf("delimiter and quote are both %q", opts.Delimiter)
	}

	if opts.Quote == '"' {
		cr := csv.NewReader(r)
		cr.Comma = opts.Delimiter
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		return &Reader{src: cr}, nil
	}
	return &Reader{src: newQuotedReader(r, opts.Delimiter, opts.Quote)}, nil
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Read() ([]string, error) {
	rec, err := r.src.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		r.row++
		return nil, err
	}
	r.row++
	return rec, nil
}

// Row returns the 1-based number of the record last returned by Read,
// counting skipped records.
func (r *Reader) Row() int {
	return r.row
}

// Skip discards up to n records. Malformed records are discarded as well;
// only read failures of the underlying input are returned.
func (r *Reader) Skip(n int) (int, error) {
	skipped := 0
	for skipped < n {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if err != nil && !errors.As(err, &pe) {
			return skipped, err
		}
		skipped++
	}
	return skipped, nil
}
