package extract

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/l10ntools/apkstrings/aapt"
	"github.com/l10ntools/apkstrings/restable"
)

// ErrEmptyExtraction indicates every strategy in the chain produced zero
// string keys. The run cannot continue: there is nothing to report.
var ErrEmptyExtraction = errors.New("no string resources extracted")

// Strategy is one way of obtaining a resource table from the APK.
// A failed or empty attempt is not fatal; the chain falls through to the
// next strategy.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context) (*restable.Table, error)
}

// Chain tries strategies in priority order and returns the first
// non-empty table.
type Chain struct {
	strategies []Strategy
	ws         *Workspace
}

// NewChain builds the standard strategy order for an APK: compiled
// resource dump, per-file binary-XML dump, raw textual XML parse. With
// tools == nil only the raw-XML strategy is used.
func NewChain(tools *aapt.Tools, apkPath string, ws *Workspace) *Chain {
	var strategies []Strategy
	if tools != nil {
		strategies = append(strategies,
			&ResourceDumpStrategy{Tools: tools, APKPath: apkPath},
			&XMLTreeStrategy{Tools: tools, APKPath: apkPath, Workspace: ws},
		)
	}
	strategies = append(strategies, &RawXMLStrategy{APKPath: apkPath, Workspace: ws})
	return &Chain{strategies: strategies, ws: ws}
}

// Run executes the chain and returns the winning table plus the sorted set
// of locales seen in the package. Seen is a superset of the table's own
// locale set: it also covers locales found by directory scanning whose
// string table could not be decoded. Strategy errors and empty results are
// logged as warnings and trigger fallback; only exhausting the whole chain
// is an error, reported as ErrEmptyExtraction.
func (c *Chain) Run(ctx context.Context) (*restable.Table, []string, error) {
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		tbl, err := s.Attempt(ctx)
		if err != nil {
			log.Warn().Str("strategy", s.Name()).Err(err).Msg("extraction strategy failed, falling back")
			continue
		}
		if tbl.Empty() {
			log.Warn().Str("strategy", s.Name()).Msg("extraction strategy found no strings, falling back")
			continue
		}
		log.Info().
			Str("strategy", s.Name()).
			Int("keys", tbl.Len()).
			Int("locales", len(tbl.Locales())).
			Msg("extraction complete")
		return tbl, c.seenLocales(tbl), nil
	}
	return nil, nil, ErrEmptyExtraction
}

// seenLocales merges the table's locale set with the locales found by
// directory scanning. When the compiled-table strategy won the workspace
// was never extracted and the scan contributes nothing.
func (c *Chain) seenLocales(tbl *restable.Table) []string {
	set := make(map[string]bool)
	for _, tag := range tbl.Locales() {
		set[tag] = true
	}
	if c.ws != nil {
		for _, lf := range c.ws.StringFiles() {
			set[lf.Locale] = true
		}
	}
	seen := make([]string, 0, len(set))
	for tag := range set {
		seen = append(seen, tag)
	}
	sort.Strings(seen)
	return seen
}
