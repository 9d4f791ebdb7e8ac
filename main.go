// apkstrings — extract localized string resources from an Android APK and
// report per-locale completeness and placeholder consistency.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/l10ntools/apkstrings/aapt"
	"github.com/l10ntools/apkstrings/config"
	"github.com/l10ntools/apkstrings/export"
	"github.com/l10ntools/apkstrings/extract"
	"github.com/l10ntools/apkstrings/locale"
	"github.com/l10ntools/apkstrings/report"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

var (
	flagOutput     string
	flagFormat     string
	flagToolsDir   string
	flagLangConfig string
	flagLanguages  string
	flagSkipTools  bool
	flagVerbose    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "apkstrings <apk>",
		Short: "Export APK string resources to a per-locale report",
		Long: `apkstrings — export APK string resources to a per-locale report.

Extracts every <string> resource from the APK with its translations,
reconciles the locales against each other, and writes one row per key:
the text per locale, the number of locales missing a translation, and
the locales whose format placeholders disagree with the default locale.

Extraction falls back through three strategies: the compiled resource
table (aapt2 dump resources), per-file binary XML dumps (aapt dump
xmltree), and finally parsing the res/values*/strings.xml files as
plain XML.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path (default strings.xlsx)")
	root.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: csv or excel (default excel)")
	root.Flags().StringVar(&flagToolsDir, "tools-dir", "", "directory containing the aapt/ tools (default ./tools)")
	root.Flags().StringVarP(&flagLangConfig, "lang-config", "l", "", "locale allow-list file, one tag per line")
	root.Flags().StringVar(&flagLanguages, "languages", "", "inline comma-separated locale allow-list (overrides --lang-config)")
	root.Flags().BoolVar(&flagSkipTools, "skip-tools", false, "skip aapt/aapt2 and parse res/ XML directly")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apkstrings version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Interrupting the run must still remove the temp workspace: the
	// signal cancels the context, run unwinds, and the deferred Close
	// executes before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Option resolution
// ---------------------------------------------------------------------------

// resolveOptions merges defaults, apkstrings.yaml, environment, and flags,
// in that precedence order.
func resolveOptions(cmd *cobra.Command) (*config.Options, error) {
	opts := &config.Options{
		ToolsDir:   "tools",
		OutputPath: "strings.xlsx",
		Format:     "excel",
	}

	file, err := config.LoadFile(".")
	if err != nil {
		return nil, err
	}
	if file != nil {
		if file.ToolsDir != "" {
			opts.ToolsDir = file.ToolsDir
		}
		if file.Output != "" {
			opts.OutputPath = file.Output
		}
		if file.Format != "" {
			opts.Format = file.Format
		}
		opts.AllowList = file.Languages
		opts.SkipTools = file.SkipTools
	}

	if env := config.LoadEnv(); env.ToolsDir != "" {
		opts.ToolsDir = env.ToolsDir
	}

	if flagToolsDir != "" {
		opts.ToolsDir = flagToolsDir
	}
	if flagOutput != "" {
		opts.OutputPath = flagOutput
	}
	if flagFormat != "" {
		opts.Format = flagFormat
	}
	if cmd.Flags().Changed("skip-tools") {
		opts.SkipTools = flagSkipTools
	}
	if flagLanguages != "" {
		opts.AllowList = config.ParseLanguageList(flagLanguages)
	} else if flagLangConfig != "" {
		opts.AllowList = config.LoadLanguageFile(flagLangConfig)
	}

	if opts.Format != "csv" && opts.Format != "excel" {
		return nil, fmt.Errorf("unknown format %q (expected csv or excel)", opts.Format)
	}

	return opts, nil
}

// normalizeOutputPath forces the extension matching the output format.
func normalizeOutputPath(path, format string) string {
	want := ".xlsx"
	if format == "csv" {
		want = ".csv"
	}
	if ext := filepath.Ext(path); ext != want {
		path = strings.TrimSuffix(path, ext) + want
	}
	return path
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func run(cmd *cobra.Command, apkPath string) error {
	ctx := cmd.Context()

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(apkPath); err != nil {
		return fmt.Errorf("apk file not found: %s", apkPath)
	}

	ws, err := extract.NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	var tools *aapt.Tools
	if !opts.SkipTools {
		tools = aapt.Locate(opts.ToolsDir)
		if err := tools.Verify(ctx); err != nil {
			return err
		}
		log.Info().Str("tools", opts.ToolsDir).Msg("aapt tools verified")
	} else {
		log.Info().Msg("tool strategies disabled, using raw XML parsing only")
	}

	tbl, seen, err := extract.NewChain(tools, apkPath, ws).Run(ctx)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyExtraction) {
			return fmt.Errorf("no string resources found in %s", apkPath)
		}
		return err
	}

	proj := report.Project(tbl.Locales(), seen, opts.AllowList)
	if len(proj.Excluded) > 0 {
		log.Info().Strs("locales", proj.Excluded).Msg("locales excluded by allow-list")
	}

	rows := report.BuildRows(tbl, proj.Locales)

	output := normalizeOutputPath(opts.OutputPath, opts.Format)
	switch opts.Format {
	case "csv":
		err = export.WriteCSV(output, proj.Locales, rows)
	default:
		err = export.WriteExcel(output, proj.Locales, rows)
	}
	if err != nil {
		return err
	}

	log.Info().Str("output", output).Int("rows", len(rows)).Msg("report written")
	printSummary(rows, proj.Locales)
	return nil
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

func printSummary(rows []report.Row, locales []string) {
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "\nExtraction Summary\n")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Strings:  %d\n", len(rows))
	fmt.Fprintf(os.Stderr, "  Locales:  %d\n", len(locales))

	fullyTranslated := 0
	placeholderClean := 0
	totalMissing := 0
	for _, row := range rows {
		if row.MissingCount == 0 {
			fullyTranslated++
		}
		if len(row.AnomalyLocales) == 0 {
			placeholderClean++
		}
		totalMissing += row.MissingCount
	}

	fmt.Fprintf(os.Stderr, "  Complete: %d/%d (%s)\n", fullyTranslated, len(rows), percent(fullyTranslated, len(rows)))
	fmt.Fprintf(os.Stderr, "  Avg missing locales: %.1f\n", float64(totalMissing)/float64(len(rows)))
	fmt.Fprintf(os.Stderr, "  Placeholders clean: %d/%d (%s)\n", placeholderClean, len(rows), percent(placeholderClean, len(rows)))

	if len(locales) == 0 {
		fmt.Fprintln(os.Stderr)
		return
	}

	fmt.Fprintf(os.Stderr, "\nPer-locale completion\n")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	for i, tag := range locales {
		nonEmpty := 0
		for _, row := range rows {
			if row.Texts[i] != "" {
				nonEmpty++
			}
		}
		label := tag
		if meta, ok := locale.Resolve(tag); ok {
			label = fmt.Sprintf("%s (%s)", tag, meta.Name)
		}
		fmt.Fprintf(os.Stderr, "  %-24s %d/%d (%s)\n", label, nonEmpty, len(rows), percent(nonEmpty, len(rows)))
	}
	fmt.Fprintln(os.Stderr)
}

// percent formats n/total as a one-decimal percentage.
func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
