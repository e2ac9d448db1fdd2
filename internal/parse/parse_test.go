package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/csvledger/internal/model"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in       string
		number   string
		currency string
	}{
		{"12,50 EUR", "12.50", "EUR"},
		{"12.50 EUR", "12.50", "EUR"},
		{"-4.00 USD", "-4.00", "USD"},
		{"100 JPY", "100", "JPY"},
		{"1 usd", "1", "usd"},
		{"3.5 CHF trailing", "3.5", "CHF"},
	}
	for _, tt := range tests {
		got, err := Amount(tt.in)
		require.NoError(t, err, "Amount(%q)", tt.in)
		assert.True(t, got.Number.Equal(decimal.RequireFromString(tt.number)), "Amount(%q) number = %s", tt.in, got.Number)
		assert.Equal(t, tt.currency, got.Currency, "Amount(%q)", tt.in)
	}
}

func TestAmount_CommaAndPeriodEquivalent(t *testing.T) {
	a, err := Amount("12,50 EUR")
	require.NoError(t, err)
	b, err := Amount("12.50 EUR")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "12.50 EUR", a.String())
}

func TestAmount_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "12.50", "", " EUR", "12.50 ", "abc EUR", "1.2.3 EUR"} {
		_, err := Amount(in)
		require.Error(t, err, "Amount(%q)", in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "Amount(%q)", in)
	}
}

func TestAmount_ErrorEchoesInput(t *testing.T) {
	_, err := Amount("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestAccount(t *testing.T) {
	got, err := Account("Assets:Bank:Checking")
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeAssets, got.Type)
	assert.Equal(t, []string{"Bank", "Checking"}, got.Parts)

	tests := []struct {
		in   string
		root model.AccountType
	}{
		{"Liabilities:CreditCard", model.AccountTypeLiabilities},
		{"Equity:Opening-Balances", model.AccountTypeEquity},
		{"Income:Salary", model.AccountTypeIncome},
		{"Expenses:Food:Coffee", model.AccountTypeExpenses},
		{"Expenses", model.AccountTypeExpenses},
	}
	for _, tt := range tests {
		got, err := Account(tt.in)
		require.NoError(t, err, "Account(%q)", tt.in)
		assert.Equal(t, tt.root, got.Type)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestAccount_Invalid(t *testing.T) {
	for _, in := range []string{"Foo:Bar", "", "assets:Bank", "EXPENSES:Misc", " Assets:Bank"} {
		_, err := Account(in)
		require.Error(t, err, "Account(%q)", in)
		assert.ErrorIs(t, err, ErrInvalidAccount, "Account(%q)", in)
	}
}

func TestAccount_ErrorEchoesInput(t *testing.T) {
	_, err := Account("Foo:Bar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Foo:Bar"`)
}

func TestFlag(t *testing.T) {
	assert.Equal(t, model.FlagOkay, Flag("*", model.FlagWarning))
	assert.Equal(t, model.FlagWarning, Flag("!", model.FlagOkay))
	assert.Equal(t, model.Flag("P"), Flag(" P ", model.FlagWarning))
	assert.Equal(t, model.FlagWarning, Flag("", model.FlagWarning))
	assert.Equal(t, model.Flag(""), Flag("  ", ""))
}
