package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
input:
  date_col: 0
  desc: 1
  amt: 2
settings:
  date_format: "%Y-%m-%d"
output:
  date: "{{date_col}}"
  narration: "{{desc}}"
  postings:
    - account: Assets:Bank
      amount: "{{amt}} USD"
    - account: Expenses:Misc
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"date_col": 0, "desc": 1, "amt": 2}, cfg.Input)
	assert.Equal(t, ",", cfg.Settings.Delimiter)
	assert.Equal(t, "'", cfg.Settings.Quote)
	assert.Equal(t, 0, cfg.Settings.Skip)
	assert.Equal(t, "%Y-%m-%d", cfg.Settings.DateFormat)
	assert.Equal(t, ',', cfg.Settings.DelimiterRune())
	assert.Equal(t, '\'', cfg.Settings.QuoteRune())

	assert.Equal(t, "!", cfg.Output.Flag)
	assert.Nil(t, cfg.Output.Payee)
	require.Len(t, cfg.Output.Postings, 2)
	assert.Equal(t, "Assets:Bank", cfg.Output.Postings[0].Account)
	require.NotNil(t, cfg.Output.Postings[0].Amount)
	assert.Equal(t, "{{amt}} USD", *cfg.Output.Postings[0].Amount)
	assert.Nil(t, cfg.Output.Postings[1].Amount)
	assert.Nil(t, cfg.Output.Postings[1].Flag)
	assert.Nil(t, cfg.Output.Postings[1].Price)
}

func TestParseAllFields(t *testing.T) {
	data := `
input: {d: 0, p: 1, n: 2, a: 3, f: 4}
settings:
  delimiter: ";"
  quote: '"'
  skip: 2
  date_format: "%d.%m.%Y"
output:
  date: "{{d}}"
  flag: "*"
  payee: "{{p}}"
  narration: "{{n}}"
  postings:
    - flag: "{{f}}"
      account: Assets:Broker
      amount: "{{a}} HOOL"
      cost: "518.73 USD"
      price: "520.00 USD"
    - account: Assets:Cash
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, ';', cfg.Settings.DelimiterRune())
	assert.Equal(t, '"', cfg.Settings.QuoteRune())
	assert.Equal(t, 2, cfg.Settings.Skip)
	assert.Equal(t, "*", cfg.Output.Flag)
	require.NotNil(t, cfg.Output.Payee)
	assert.Equal(t, "{{p}}", *cfg.Output.Payee)

	p := cfg.Output.Postings[0]
	require.NotNil(t, p.Flag)
	require.NotNil(t, p.Cost)
	require.NotNil(t, p.Price)
	assert.Equal(t, "{{f}}", *p.Flag)
	assert.Equal(t, "518.73 USD", *p.Cost)
	assert.Equal(t, "520.00 USD", *p.Price)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "empty"},
		{"syntax", "input: [", ""},
		{"unknown key", minimalYAML + "extra: 1\n", "extra"},
		{"non-integer column", "input: {a: x}\n", ""},
		{"missing input", `
settings: {date_format: "%Y"}
output: {date: "x", narration: x, postings: [{account: Assets:A}]}
`, "input: is required"},
		{"missing date_format", `
input: {a: 0}
output: {date: "{{a}}", narration: x, postings: [{account: Assets:A}]}
`, "settings.date_format"},
		{"missing narration", `
input: {a: 0}
settings: {date_format: "%Y"}
output: {date: "{{a}}", postings: [{account: Assets:A}]}
`, "output.narration"},
		{"no postings", `
input: {a: 0}
settings: {date_format: "%Y"}
output: {date: "{{a}}", narration: x}
`, "output.postings"},
		{"posting without account", `
input: {a: 0}
settings: {date_format: "%Y"}
output: {date: "{{a}}", narration: x, postings: [{amount: "1 USD"}]}
`, "output.postings[0].account"},
		{"long delimiter", `
input: {a: 0}
settings: {date_format: "%Y", delimiter: ";;"}
output: {date: "{{a}}", narration: x, postings: [{account: Assets:A}]}
`, "settings.delimiter"},
		{"quote equals delimiter", `
input: {a: 0}
settings: {date_format: "%Y", delimiter: ",", quote: ","}
output: {date: "{{a}}", narration: x, postings: [{account: Assets:A}]}
`, "settings.quote"},
		{"negative skip", `
input: {a: 0}
settings: {date_format: "%Y", skip: -1}
output: {date: "{{a}}", narration: x, postings: [{account: Assets:A}]}
`, "settings.skip"},
		{"negative column", `
input: {a: -3}
settings: {date_format: "%Y"}
output: {date: "{{a}}", narration: x, postings: [{account: Assets:A}]}
`, "input.a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestValidationErrorType(t *testing.T) {
	_, err := Parse([]byte(`
input: {a: 0}
settings: {date_format: "%Y"}
output: {date: "{{a}}", postings: [{account: Assets:A}]}
`))
	require.Error(t, err)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "output.narration", ve.Field)
}

func TestTemplates(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"{{date_col}}", "!", "{{desc}}", "Assets:Bank", "{{amt}} USD", "Expenses:Misc"}, cfg.Templates())
}

func TestRoundTrip(t *testing.T) {
	cfg := Example()
	path := filepath.Join(t.TempDir(), "csvledger.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csvledger.yaml")
	require.NoError(t, Save(path, Example()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "date_format:")
	assert.Contains(t, contents, "%Y-%m-%d")
	assert.Contains(t, contents, "Assets:Bank:Checking")
	assert.Contains(t, contents, "skip: 1")
	assert.NotContains(t, contents, "cost:")
}
