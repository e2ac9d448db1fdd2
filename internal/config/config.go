package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Defaults applied to settings and output left empty in the YAML.
const (
	// DefaultDelimiter separates CSV columns.
	DefaultDelimiter = ","
	// DefaultQuote encloses CSV fields that contain the delimiter.
	DefaultQuote = "'"
	// DefaultFlag is the transaction flag when the template is unset or empty.
	DefaultFlag = "!"
)

// Config is the conversion configuration loaded from YAML.
type Config struct {
	Input    map[string]int `yaml:"input"` // field name -> zero-based CSV column
	Settings Settings       `yaml:"settings"`
	Output   Output         `yaml:"output"`
}

// Settings controls how the CSV is read.
type Settings struct {
	Delimiter  string `yaml:"delimiter,omitempty"`
	Quote      string `yaml:"quote,omitempty"`
	Skip       int    `yaml:"skip,omitempty"`
	DateFormat string `yaml:"date_format"` // strptime style, e.g. "%Y-%m-%d"
}

// Output holds the templates for one transaction.
type Output struct {
	Date      string    `yaml:"date"`
	Flag      string    `yaml:"flag,omitempty"`
	Payee     *string   `yaml:"payee,omitempty"`
	Narration string    `yaml:"narration"`
	Postings  []Posting `yaml:"postings"`
}

// Posting holds the templates for one posting. Cost is accepted but not used
// when building postings.
type Posting struct {
	Flag    *string `yaml:"flag,omitempty"`
	Account string  `yaml:"account"`
	Amount  *string `yaml:"amount,omitempty"`
	Cost    *string `yaml:"cost,omitempty"`
	Price   *string `yaml:"price,omitempty"`
}

// ValidationError describes one problem in a Config.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// Load reads a config file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config is empty")
		}
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyDefaults fills unset settings and the transaction flag.
func (c *Config) ApplyDefaults() {
	if c.Settings.Delimiter == "" {
		c.Settings.Delimiter = DefaultDelimiter
	}
	if c.Settings.Quote == "" {
		c.Settings.Quote = DefaultQuote
	}
	if c.Output.Flag == "" {
		c.Output.Flag = DefaultFlag
	}
}

// Validate checks the config after defaults are applied.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Description: fmt.Sprintf(format, args...)})
	}

	if c.Input == nil {
		add("input", "is required")
	}
	for name, col := range c.Input {
		if col < 0 {
			add("input."+name, "column index %d is negative", col)
		}
	}

	delim, ok := singleChar(c.Settings.Delimiter)
	if !ok {
		add("settings.delimiter", "must be a single character, got %q", c.Settings.Delimiter)
	}
	quote, ok := singleChar(c.Settings.Quote)
	if !ok {
		add("settings.quote", "must be a single character, got %q", c.Settings.Quote)
	}
	if delim == quote && delim != 0 {
		add("settings.quote", "must differ from the delimiter")
	}
	for _, r := range []rune{delim, quote} {
		if r == '\r' || r == '\n' {
			add("settings", "delimiter and quote cannot be line breaks")
			break
		}
	}
	if c.Settings.Skip < 0 {
		add("settings.skip", "must not be negative, got %d", c.Settings.Skip)
	}
	if c.Settings.DateFormat == "" {
		add("settings.date_format", "is required")
	}

	if c.Output.Date == "" {
		add("output.date", "is required")
	}
	if c.Output.Narration == "" {
		add("output.narration", "is required")
	}
	if len(c.Output.Postings) == 0 {
		add("output.postings", "at least one posting is required")
	}
	for i, p := range c.Output.Postings {
		if p.Account == "" {
			add(fmt.Sprintf("output.postings[%d].account", i), "is required")
		}
	}

	return errors.Join(errs...)
}

// DelimiterRune returns the field delimiter.
func (s Settings) DelimiterRune() rune {
	r, _ := singleChar(s.Delimiter)
	return r
}

// QuoteRune returns the quote character.
func (s Settings) QuoteRune() rune {
	r, _ := singleChar(s.Quote)
	return r
}

// Templates returns every template string in the output section.
func (c *Config) Templates() []string {
	out := []string{c.Output.Date, c.Output.Flag, c.Output.Narration}
	if c.Output.Payee != nil {
		out = append(out, *c.Output.Payee)
	}
	for _, p := range c.Output.Postings {
		out = append(out, p.Account)
		for _, t := range []*string{p.Flag, p.Amount, p.Price} {
			if t != nil {
				out = append(out, *t)
			}
		}
	}
	return out
}

func singleChar(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// Example returns a documented sample config for a bank export with a header row.
func Example() *Config {
	payee := "{{payee}}"
	amount := "{{amount}} USD"
	return &Config{
		Input: map[string]int{
			"date":      0,
			"payee":     1,
			"narration": 2,
			"amount":    3,
		},
		Settings: Settings{
			Delimiter:  DefaultDelimiter,
			Quote:      "\"",
			Skip:       1,
			DateFormat: "%Y-%m-%d",
		},
		Output: Output{
			Date:      "{{date}}",
			Flag:      DefaultFlag,
			Payee:     &payee,
			Narration: "{{narration}}",
			Postings: []Posting{
				{Account: "Assets:Bank:Checking", Amount: &amount},
				{Account: "Expenses:Uncategorized"},
			},
		},
	}
}
