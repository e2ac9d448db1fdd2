package model

import "strings"

// AccountType is the root segment of an account path.
type AccountType string

const (
	AccountTypeAssets      AccountType = "Assets"
	AccountTypeLiabilities AccountType = "Liabilities"
	AccountTypeEquity      AccountType = "Equity"
	AccountTypeIncome      AccountType = "Income"
	AccountTypeExpenses    AccountType = "Expenses"
)

// AccountTypes lists the recognized roots.
var AccountTypes = []AccountType{
	AccountTypeAssets,
	AccountTypeLiabilities,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpenses,
}

// Valid reports whether t is one of the recognized roots. Matching is case-sensitive.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// Account is a hierarchical ledger account, e.g. Assets:Bank:Checking.
type Account struct {
	Type  AccountType
	Parts []string // path below the root, may be empty
}

// String returns the colon-separated account name.
func (a Account) String() string {
	var b strings.Builder
	b.WriteString(string(a.Type))
	for _, p := range a.Parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}
