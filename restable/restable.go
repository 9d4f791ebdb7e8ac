// Package restable defines the resource table assembled during an
// extraction run: string key → locale tag → text.
//
// The table is append-only while the extraction strategy chain runs, then
// handed to the report aggregator, which reads it without mutating it.
// "Not present for this locale" is represented by absence; an empty string
// is stored only when the source resource explicitly declares an empty
// value. The two collapse to "missing" at reporting time only.
package restable

import "sort"

// Table maps string keys to per-locale texts and tracks the set of locales
// discovered during extraction. A locale can be registered without any
// texts (a strings.xml that parsed cleanly but contained no entries still
// counts as discovered).
type Table struct {
	entries map[string]map[string]string
	locales map[string]bool
}

// New returns an empty table.
func New() *Table {
	return &Table{
		entries: make(map[string]map[string]string),
		locales: make(map[string]bool),
	}
}

// Set records text for (key, locale) and registers the locale as
// discovered. A key entry is only created when a value is stored, so the
// table never carries a key with an empty locale mapping.
func (t *Table) Set(key, locale, text string) {
	m, ok := t.entries[key]
	if !ok {
		m = make(map[string]string)
		t.entries[key] = m
	}
	m[locale] = text
	t.locales[locale] = true
}

// AddLocale registers a locale as discovered without storing any text.
func (t *Table) AddLocale(locale string) {
	t.locales[locale] = true
}

// Get returns the text for (key, locale). The second return distinguishes
// an explicitly empty value from an absent one.
func (t *Table) Get(key, locale string) (string, bool) {
	m, ok := t.entries[key]
	if !ok {
		return "", false
	}
	text, ok := m[locale]
	return text, ok
}

// Keys returns all string keys in ascending lexicographic order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Locales returns all discovered locale tags in ascending lexicographic
// order.
func (t *Table) Locales() []string {
	locales := make([]string, 0, len(t.locales))
	for l := range t.locales {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Len returns the number of string keys.
func (t *Table) Len() int { return len(t.entries) }

// Empty reports whether the table holds no string keys. Registered locales
// alone do not make a table non-empty; the strategy chain falls through on
// a table with locales but no keys.
func (t *Table) Empty() bool { return len(t.entries) == 0 }
