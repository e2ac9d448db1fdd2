package beancount

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/csvledger/internal/model"
)

const dateFormat = "2006-01-02"

// Renderer writes transactions to a ledger sink.
type Renderer interface {
	Render(w io.Writer, txn model.Transaction) error
}

// BasicRenderer writes plain beancount syntax:
//
//	2023-01-15 ! "Cafe" "Coffee"
//	  Assets:Bank  -4.50 USD
//	  Expenses:Food
//
// Each transaction is followed by a blank line.
type BasicRenderer struct {
	Indent string // defaults to two spaces
}

var _ Renderer = BasicRenderer{}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Render writes one transaction to w.
func (r BasicRenderer) Render(w io.Writer, txn model.Transaction) error {
	indent := r.Indent
	if indent == "" {
		indent = "  "
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s %s", txn.Date.Format(dateFormat), txn.Flag)
	if txn.Payee != nil {
		fmt.Fprintf(bw, " %s", quote(*txn.Payee))
	}
	fmt.Fprintf(bw, " %s\n", quote(txn.Narration))

	for _, p := range txn.Postings {
		bw.WriteString(indent)
		bw.WriteString(FormatPosting(p))
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing transaction dated %s: %w", txn.Date.Format(dateFormat), err)
	}
	return nil
}

// FormatPosting renders a posting without indentation or line break.
func FormatPosting(p model.Posting) string {
	var b strings.Builder
	if p.Flag != "" {
		b.WriteString(string(p.Flag))
		b.WriteByte(' ')
	}
	b.WriteString(p.Account.String())
	if p.Units != nil {
		b.WriteString("  ")
		b.WriteString(p.Units.String())
	}
	if p.Price != nil {
		b.WriteString(" @ ")
		b.WriteString(p.Price.String())
	}
	return b.String()
}

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
