package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/csvledger/internal/model"
)

var (
	// ErrInvalidAmount is wrapped when a string is not "<number> <currency>".
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAccount is wrapped when a string is not a recognized account path.
	ErrInvalidAccount = errors.New("invalid account")
)

// Amount parses "<number> <currency>", e.g. "12.50 EUR". A comma in the number
// is read as the decimal separator ("12,50 EUR"). Tokens after the currency are
// ignored.
func Amount(s string) (model.Amount, error) {
	tokens := strings.Split(s, " ")
	if len(tokens) < 2 || tokens[0] == "" || tokens[1] == "" {
		return model.Amount{}, fmt.Errorf("%w %q: expected \"<number> <currency>\"", ErrInvalidAmount, s)
	}

	number, err := decimal.NewFromString(strings.ReplaceAll(tokens[0], ",", "."))
	if err != nil {
		return model.Amount{}, fmt.Errorf("%w %q: %w", ErrInvalidAmount, s, err)
	}

	return model.Amount{Number: number, Currency: tokens[1]}, nil
}

// Account parses a colon-separated account path whose first segment is one of
// Assets, Liabilities, Equity, Income or Expenses.
func Account(s string) (model.Account, error) {
	segments := strings.Split(s, ":")
	root := model.AccountType(segments[0])
	if !root.Valid() {
		return model.Account{}, fmt.Errorf("%w %q: unknown root %q", ErrInvalidAccount, s, segments[0])
	}
	return model.Account{Type: root, Parts: segments[1:]}, nil
}

// Flag converts a rendered flag, falling back to def when s is blank.
func Flag(s string, def model.Flag) model.Flag {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return model.Flag(s)
}
