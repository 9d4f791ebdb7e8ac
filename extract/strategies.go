package extract

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/l10ntools/apkstrings/aapt"
	"github.com/l10ntools/apkstrings/restable"
	"github.com/l10ntools/apkstrings/resxml"
)

// ResourceDumpStrategy extracts every string resource with its per-locale
// values in one pass from the APK's compiled resource table.
type ResourceDumpStrategy struct {
	Tools   *aapt.Tools
	APKPath string
}

func (s *ResourceDumpStrategy) Name() string { return "aapt2-resource-dump" }

func (s *ResourceDumpStrategy) Attempt(ctx context.Context) (*restable.Table, error) {
	out, err := s.Tools.DumpResources(ctx, s.APKPath)
	if err != nil {
		return nil, err
	}
	return aapt.ParseResourcesDump(out), nil
}

// XMLTreeStrategy dumps each locale's binary strings.xml individually via
// `aapt dump xmltree`. A single file's dump failure skips that locale only.
type XMLTreeStrategy struct {
	Tools     *aapt.Tools
	APKPath   string
	Workspace *Workspace
}

func (s *XMLTreeStrategy) Name() string { return "aapt-xmltree-dump" }

func (s *XMLTreeStrategy) Attempt(ctx context.Context) (*restable.Table, error) {
	if err := s.Workspace.ExtractRes(s.APKPath); err != nil {
		return nil, err
	}

	tbl := restable.New()
	for _, lf := range s.Workspace.StringFiles() {
		out, err := s.Tools.DumpXMLTree(ctx, s.APKPath, lf.ResPath)
		if err != nil {
			log.Warn().Str("locale", lf.Locale).Err(err).Msg("xmltree dump failed, skipping locale")
			continue
		}
		tbl.AddLocale(lf.Locale)
		for key, text := range aapt.ParseXMLTree(out) {
			tbl.Set(key, lf.Locale, text)
		}
	}
	return tbl, nil
}

// RawXMLStrategy is the fallback of last resort: parse the extracted
// strings.xml files directly as text. Binary-encoded files are detected by
// their magic prefix and skipped with a parse-failure warning instead of
// being fed to the XML decoder.
type RawXMLStrategy struct {
	APKPath   string
	Workspace *Workspace
}

func (s *RawXMLStrategy) Name() string { return "raw-xml-parse" }

func (s *RawXMLStrategy) Attempt(ctx context.Context) (*restable.Table, error) {
	if err := s.Workspace.ExtractRes(s.APKPath); err != nil {
		return nil, err
	}

	tbl := restable.New()
	for _, lf := range s.Workspace.StringFiles() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		parsed, err := resxml.ParseFile(lf.Path)
		if err != nil {
			if errors.Is(err, resxml.ErrParse) {
				log.Warn().Str("locale", lf.Locale).Err(err).Msg("cannot decode strings.xml, skipping locale")
				continue
			}
			return nil, err
		}
		tbl.AddLocale(lf.Locale)
		for key, text := range parsed {
			tbl.Set(key, lf.Locale, text)
		}
	}
	return tbl, nil
}
