package convert

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/itchyny/timefmt-go"
	"go.uber.org/zap"

	"github.com/cleared-dev/csvledger/internal/config"
	"github.com/cleared-dev/csvledger/internal/model"
	"github.com/cleared-dev/csvledger/internal/parse"
	"github.com/cleared-dev/csvledger/internal/render"
)

// Builder turns CSV records into transactions. It only reads its config and
// engine, so one Builder serves a whole run.
type Builder struct {
	cfg    *config.Config
	engine *render.Engine
	inputs []string // sorted input names
	log    *zap.Logger
}

// NewBuilder compiles every template in cfg. log may be nil.
func NewBuilder(cfg *config.Config, log *zap.Logger) (*Builder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	engine, err := render.NewEngine(cfg.Templates()...)
	if err != nil {
		return nil, fmt.Errorf("compiling templates: %w", err)
	}

	for i, p := range cfg.Output.Postings {
		if p.Cost != nil {
			log.Warn("cost template is not applied to postings",
				zap.Int("posting", i), zap.String("cost", *p.Cost))
		}
	}

	inputs := make([]string, 0, len(cfg.Input))
	for name := range cfg.Input {
		inputs = append(inputs, name)
	}
	slices.Sort(inputs)

	return &Builder{
		cfg:    cfg,
		engine: engine,
		inputs: inputs,
		log:    log,
	}, nil
}

// Context maps each configured input name to its column in record.
func (b *Builder) Context(record []string) (render.Context, error) {
	ctx := make(render.Context, len(b.inputs))
	for _, name := range b.inputs {
		col := b.cfg.Input[name]
		if col >= len(record) {
			return nil, &ColumnError{Name: name, Index: col, Fields: len(record)}
		}
		ctx[name] = record[col]
	}
	return ctx, nil
}

// Build converts one record. The first failure is returned and no partial
// transaction is produced.
func (b *Builder) Build(record []string) (model.Transaction, error) {
	ctx, err := b.Context(record)
	if err != nil {
		return model.Transaction{}, err
	}
	out := b.cfg.Output

	rendered, err := b.render("date", out.Date, ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	date, err := parseDate(rendered, b.cfg.Settings.DateFormat)
	if err != nil {
		return model.Transaction{}, &FieldError{Field: "date", Err: err}
	}

	rendered, err = b.render("flag", out.Flag, ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	flag := parse.Flag(rendered, model.FlagWarning)

	var payee *string
	if out.Payee != nil {
		rendered, err = b.render("payee", *out.Payee, ctx)
		if err != nil {
			return model.Transaction{}, err
		}
		if rendered != "" {
			payee = &rendered
		}
	}

	narration, err := b.render("narration", out.Narration, ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	postings := make([]model.Posting, 0, len(out.Postings))
	for i, pt := range out.Postings {
		p, err := b.buildPosting(i, pt, ctx)
		if err != nil {
			return model.Transaction{}, err
		}
		postings = append(postings, p)
	}

	return model.Transaction{
		Date:      date,
		Flag:      flag,
		Payee:     payee,
		Narration: narration,
		Postings:  postings,
	}, nil
}

func (b *Builder) buildPosting(i int, pt config.Posting, ctx render.Context) (model.Posting, error) {
	field := func(name string) string {
		return fmt.Sprintf("postings[%d].%s", i, name)
	}

	rendered, err := b.render(field("account"), pt.Account, ctx)
	if err != nil {
		return model.Posting{}, err
	}
	account, err := parse.Account(rendered)
	if err != nil {
		return model.Posting{}, &FieldError{Field: field("account"), Err: err}
	}
	p := model.Posting{Account: account}

	if pt.Amount != nil {
		units, err := b.amount(field("amount"), *pt.Amount, ctx)
		if err != nil {
			return model.Posting{}, err
		}
		p.Units = &units
	}

	if pt.Flag != nil {
		rendered, err := b.render(field("flag"), *pt.Flag, ctx)
		if err != nil {
			return model.Posting{}, err
		}
		p.Flag = parse.Flag(rendered, "")
	}

	if pt.Price != nil {
		price, err := b.amount(field("price"), *pt.Price, ctx)
		if err != nil {
			return model.Posting{}, err
		}
		p.Price = &price
	}

	return p, nil
}

func (b *Builder) amount(field, tmpl string, ctx render.Context) (model.Amount, error) {
	rendered, err := b.render(field, tmpl, ctx)
	if err != nil {
		return model.Amount{}, err
	}
	a, err := parse.Amount(rendered)
	if err != nil {
		return model.Amount{}, &FieldError{Field: field, Err: err}
	}
	return a, nil
}

func (b *Builder) render(field, tmpl string, ctx render.Context) (string, error) {
	s, err := b.engine.Render(tmpl, ctx)
	if err != nil {
		return "", &FieldError{Field: field, Err: err}
	}
	return s, nil
}

// parseDate parses s with a strptime-style format and keeps only the calendar
// date. The result must format back to s (ignoring case and zero padding), so
// impossible dates such as 2023-02-30 are rejected instead of rolled over.
// Zone and fraction directives are left out of that comparison since they
// accept more spellings than they print.
func parseDate(s, format string) (time.Time, error) {
	t, err := timefmt.Parse(s, format)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q with format %q: %w", ErrDateParse, s, format, err)
	}
	want := strings.Split(canonicalDate(timefmt.Format(t, maskLoose(format))), looseMark)
	if !matchParts(want, canonicalDate(s)) {
		return time.Time{}, fmt.Errorf("%w %q with format %q: not a calendar date", ErrDateParse, s, format)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

const looseMark = "\x00"

// maskLoose replaces %z, %:z, %Z and %f in format with looseMark.
func maskLoose(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			b.WriteByte(format[i])
			continue
		}
		switch rest := format[i+1:]; {
		case strings.HasPrefix(rest, ":z"):
			b.WriteString(looseMark)
			i += 2
		case rest[0] == 'z' || rest[0] == 'Z' || rest[0] == 'f':
			b.WriteString(looseMark)
			i++
		default:
			b.WriteString(format[i : i+2])
			i++
		}
	}
	return b.String()
}

// matchParts reports whether s is parts joined by arbitrary text.
func matchParts(parts []string, s string) bool {
	if len(parts) == 1 {
		return parts[0] == s
	}
	first, last := parts[0], parts[len(parts)-1]
	if !strings.HasPrefix(s, first) {
		return false
	}
	s = s[len(first):]
	for _, p := range parts[1 : len(parts)-1] {
		i := strings.Index(s, p)
		if i < 0 {
			return false
		}
		s = s[i+len(p):]
	}
	return strings.HasSuffix(s, last)
}

// canonicalDate lowercases s, drops leading zeros of digit runs and collapses
// whitespace.
func canonicalDate(s string) string {
	var b strings.Builder
	prevDigit, prevSpace := false, false
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace, prevDigit = true, false
			continue
		case r == '0' && !prevDigit && i+1 < len(runes) && unicode.IsDigit(runes[i+1]):
			prevSpace = false
			continue
		}
		b.WriteRune(r)
		prevDigit = unicode.IsDigit(r)
		prevSpace = false
	}
	return b.String()
}
