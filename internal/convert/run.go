package convert

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cleared-dev/csvledger/internal/beancount"
	"github.com/cleared-dev/csvledger/internal/importer"
)

// Run reads CSV from src, drops the configured number of leading rows, and
// converts the rest in order. Each transaction is handed to r before the next
// row is read. On error, transactions already rendered stay written and the
// count of them is returned with the error.
func (b *Builder) Run(src io.Reader, w io.Writer, r beancount.Renderer) (int, error) {
	rd, err := importer.NewReader(src, importer.Options{
		Delimiter: b.cfg.Settings.DelimiterRune(),
		Quote:     b.cfg.Settings.QuoteRune(),
	})
	if err != nil {
		return 0, fmt.Errorf("reading csv: %w", err)
	}

	skipped, err := rd.Skip(b.cfg.Settings.Skip)
	if err != nil {
		return 0, fmt.Errorf("reading csv: %w", err)
	}
	if skipped > 0 {
		b.log.Debug("skipped leading rows", zap.Int("rows", skipped))
	}

	written := 0
	for {
		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("reading csv: %w", err)
		}

		txn, err := b.Build(record)
		if err != nil {
			return written, &RowError{Row: rd.Row(), Err: err}
		}
		if err := r.Render(w, txn); err != nil {
			return written, fmt.Errorf("writing output: %w", err)
		}
		written++

		b.log.Debug("converted row",
			zap.Int("row", rd.Row()),
			zap.Time("date", txn.Date),
			zap.Int("postings", len(txn.Postings)))
	}
	return written, nil
}
