package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flag marks the status of a transaction or posting.
type Flag string

const (
	FlagOkay    Flag = "*" // cleared
	FlagWarning Flag = "!" // incomplete, needs review
)

// Amount is a decimal number in a currency.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// String renders "<number> <currency>", keeping the number's scale ("4.50 USD").
func (a Amount) String() string {
	return FormatNumber(a.Number) + " " + a.Currency
}

// FormatNumber renders d without dropping trailing fractional zeros.
func FormatNumber(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Posting is one account leg of a Transaction.
type Posting struct {
	Account Account
	Flag    Flag    // "" = no flag
	Units   *Amount // nil = incomplete, inferred by a later balancing step
	Price   *Amount
}

// Incomplete reports whether the posting's units are left for inference.
func (p Posting) Incomplete() bool {
	return p.Units == nil
}

// Transaction is one dated ledger entry built from a CSV row.
type Transaction struct {
	Date      time.Time
	Flag      Flag
	Payee     *string // nil = no payee
	Narration string
	Postings  []Posting
}
