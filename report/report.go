// Package report reconciles an extracted resource table into per-key report
// rows: text per projected locale, missing-translation count, and the set
// of locales whose placeholders disagree with the default locale.
package report

import (
	"sort"

	"github.com/l10ntools/apkstrings/locale"
	"github.com/l10ntools/apkstrings/placeholder"
	"github.com/l10ntools/apkstrings/restable"
)

// Row is one reconciled report row. Texts is aligned with the projected
// locale list the row was built against; absent translations appear as
// empty strings (absence and explicit emptiness collapse here, and only
// here).
type Row struct {
	Key            string
	MissingCount   int
	AnomalyLocales []string
	Texts          []string
}

// BuildRows derives one row per string key, sorted by key ascending. The
// locales slice is the projected column order with the default locale
// first. Output is deterministic: same table and locale order, same rows.
func BuildRows(tbl *restable.Table, locales []string) []Row {
	rows := make([]Row, 0, tbl.Len())
	for _, key := range tbl.Keys() {
		row := Row{Key: key, Texts: make([]string, len(locales))}
		for i, tag := range locales {
			text, _ := tbl.Get(key, tag)
			row.Texts[i] = text
			if text == "" {
				row.MissingCount++
			}
		}
		row.AnomalyLocales = anomalyLocales(row.Texts, locales)
		rows = append(rows, row)
	}
	return rows
}

// anomalyLocales returns the non-default locales whose non-empty text
// fails the placeholder comparison against the default locale's text.
// An empty default text gives no baseline, so nothing is flagged.
func anomalyLocales(texts []string, locales []string) []string {
	if len(locales) <= 1 {
		return nil
	}
	defaultText := texts[0]
	if defaultText == "" {
		return nil
	}
	var anomalies []string
	for i := 1; i < len(locales); i++ {
		if texts[i] != "" && !placeholder.Compare(defaultText, texts[i]) {
			anomalies = append(anomalies, locales[i])
		}
	}
	return anomalies
}

// Projection is the final ordered locale column list plus the locales that
// were seen in the package but excluded by the allow-list.
type Projection struct {
	Locales  []string
	Excluded []string
}

// Project chooses the output locale columns.
//
// detected is the set of locales that actually yielded a string table;
// seen additionally includes locales found by directory scanning whose
// table could not be decoded (a binary strings.xml skipped with a parse
// failure is seen but not detected). Both must be sorted.
//
// Without an allow-list, all detected locales are used in lexicographic
// order with the default locale moved to the front; a locale that is seen
// but not detected gets no column. With an allow-list, the result is the
// allow-list intersected with the seen set, preserving allow-list order —
// an allow-listed locale whose table was undecodable is still reported,
// contributing only missing text — and Excluded lists the seen locales the
// allow-list filtered out.
func Project(detected, seen, allowList []string) Projection {
	if len(allowList) == 0 {
		ordered := make([]string, 0, len(detected))
		hasDefault := false
		for _, tag := range detected {
			if tag == locale.Default {
				hasDefault = true
				continue
			}
			ordered = append(ordered, tag)
		}
		if hasDefault {
			ordered = append([]string{locale.Default}, ordered...)
		}
		return Projection{Locales: ordered}
	}

	seenSet := make(map[string]bool, len(seen)+len(detected))
	for _, tag := range detected {
		seenSet[tag] = true
	}
	for _, tag := range seen {
		seenSet[tag] = true
	}

	var proj Projection
	allowed := make(map[string]bool, len(allowList))
	for _, tag := range allowList {
		if allowed[tag] {
			continue
		}
		allowed[tag] = true
		if seenSet[tag] {
			proj.Locales = append(proj.Locales, tag)
		}
	}
	for _, tag := range sortedKeys(seenSet) {
		if !allowed[tag] {
			proj.Excluded = append(proj.Excluded, tag)
		}
	}
	return proj
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
