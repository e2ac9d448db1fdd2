package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// ErrTemplate is wrapped by every rendering failure.
var ErrTemplate = errors.New("could not render template")

// Context maps field names to the raw values of one CSV row.
type Context map[string]string

// Engine substitutes {{name}} placeholders with Context values. Output is raw:
// nothing is escaped, so the triple-brace form {{{name}}} is accepted as a
// synonym.
//
// An Engine is built once and is read-only afterwards, so it may be shared.
type Engine struct {
	compiled map[string]*fasttemplate.Template
}

// NewEngine creates an Engine with the given templates precompiled. A
// malformed template fails here rather than on the first row.
func NewEngine(templates ...string) (*Engine, error) {
	e := &Engine{compiled: make(map[string]*fasttemplate.Template, len(templates))}
	for _, src := range templates {
		if _, ok := e.compiled[src]; ok {
			continue
		}
		t, err := compile(src)
		if err != nil {
			return nil, err
		}
		e.compiled[src] = t
	}
	return e, nil
}

// Render resolves src against ctx. A placeholder naming a field missing from
// ctx is an error.
func (e *Engine) Render(src string, ctx Context) (string, error) {
	t, ok := e.compiled[src]
	if !ok {
		var err error
		if t, err = compile(src); err != nil {
			return "", err
		}
	}

	out, err := t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		v, ok := ctx[name]
		if !ok {
			return 0, fmt.Errorf("unknown field %q", name)
		}
		return io.WriteString(w, v)
	})
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrTemplate, src, err)
	}
	return out, nil
}

// Fields returns the placeholder names referenced by src, in order of first use.
func Fields(src string) ([]string, error) {
	t, err := compile(src)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	_, _ = t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return 0, nil
	})
	return names, nil
}

var tripleBraces = strings.NewReplacer("{{{", startTag, "}}}", endTag)

func compile(src string) (*fasttemplate.Template, error) {
	t, err := fasttemplate.NewTemplate(tripleBraces.Replace(src), startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrTemplate, src, err)
	}
	return t, nil
}
