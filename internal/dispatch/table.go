package dispatch

import (
	"fmt"
	"strings"

	"paramibot/internal/content"
	kit "paramibot/internal/transport"
)

// Route binds a language to its broadcast channel and list header.
type Route struct {
	Language    content.Language
	Destination kit.ChatTarget
	Header      string
}

// Table is the destination and header table, keyed by language.
// It is immutable after NewTable.
type Table struct {
	order  []content.Language
	routes map[content.Language]Route
}

// NewTable checks that every language has exactly one non-empty destination
// and header.
func NewTable(routes []Route) (*Table, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("no languages configured")
	}
	t := &Table{routes: make(map[content.Language]Route, len(routes))}
	for _, r := range routes {
		if r.Language == "" {
			return nil, fmt.Errorf("route with empty language")
		}
		if _, dup := t.routes[r.Language]; dup {
			return nil, fmt.Errorf("language %q configured twice", r.Language)
		}
		if r.Destination.IsZero() {
			return nil, fmt.Errorf("language %q: destination missing", r.Language)
		}
		if strings.TrimSpace(r.Header) == "" {
			return nil, fmt.Errorf("language %q: header missing", r.Language)
		}
		t.routes[r.Language] = r
		t.order = append(t.order, r.Language)
	}
	return t, nil
}

// Validate checks that the table and src cover exactly the same languages.
func (t *Table) Validate(src content.Source) error {
	have := map[content.Language]bool{}
	for _, l := range src.Languages() {
		have[l] = true
	}
	for _, l := range t.order {
		if !have[l] {
			return fmt.Errorf("language %q has a destination but no content source", l)
		}
		delete(have, l)
	}
	if len(have) > 0 {
		extra := make([]content.Language, 0, len(have))
		for l := range have {
			extra = append(extra, l)
		}
		return fmt.Errorf("content source languages without destination: %v", content.SortLanguages(extra))
	}
	return nil
}

func (t *Table) Route(lang content.Language) (Route, bool) {
	r, ok := t.routes[lang]
	return r, ok
}

func (t *Table) Supports(lang content.Language) bool {
	_, ok := t.routes[lang]
	return ok
}

// Languages returns languages in configuration order.
func (t *Table) Languages() []content.Language {
	return append([]content.Language(nil), t.order...)
}

func (t *Table) Headers() map[content.Language]string {
	out := make(map[content.Language]string, len(t.routes))
	for l, r := range t.routes {
		out[l] = r.Header
	}
	return out
}
