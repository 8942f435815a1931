// SPDX-License-Identifier: MIT

// Command orghierarchy loads an organizational hierarchy from a roster file or an exported
// string & answers queries about it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"gitlab.com/fisherprime/orghierarchy"
	"gitlab.com/fisherprime/orghierarchy/lexer"
)

type options struct {
	RosterPath string
	Import     string

	Render []int
	Level  []int
	Boss   []int
	LCB    []string
	Fire   []int

	Export         bool
	EndMarker      string
	Splitter       string
	SubtreeRelevel bool
	PoolSize       int

	Debug     bool
	LogFormat string
	NoColor   bool
}

var (
	errMissingSource  = errors.New("either --roster or --import is required")
	errMultipleSource = errors.New("--roster & --import are mutually exclusive")
	errInvalidPair    = errors.New("invalid identifier pair")
	errInvalidMarker  = errors.New("a marker must be a single non-numeric character")
	errFailedQueries  = errors.New("failed queries")
)

func main() {
	logger := logrus.New()

	opt := &options{
		EndMarker: string(lexer.DefEndMarker),
		Splitter:  string(lexer.DefSplitter),
		LogFormat: "text",
	}
	flags := newFlagSet(opt)
	if err := flags.Parse(os.Args[1:]); err != nil {
		logger.WithError(err).Fatal("parse flags")
	}

	if err := configureLogger(logger, opt); err != nil {
		logger.WithError(err).Fatal("configure logger")
	}
	orghierarchy.SetLogger(logger)

	if opt.NoColor {
		color.NoColor = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opt, logger, os.Stdout); err != nil {
		logger.WithError(err).Fatal("orghierarchy")
	}
}

func newFlagSet(opt *options) *pflag.FlagSet {
	flags := pflag.NewFlagSet("orghierarchy", pflag.ContinueOnError)

	flags.StringVar(&opt.RosterPath, "roster", opt.RosterPath, "A YAML file listing the employees, the owner reports to -1.")
	flags.StringVar(&opt.Import, "import", opt.Import, "A hierarchy in the export format, e.g. 1,2,4)),3)).")
	flags.IntSliceVar(&opt.Render, "render", nil, "Render the subordinates of an employee by level.")
	flags.IntSliceVar(&opt.Level, "level", nil, "Print the level of an employee.")
	flags.IntSliceVar(&opt.Boss, "boss", nil, "Print the boss of an employee.")
	flags.StringArrayVar(&opt.LCB, "lcb", nil, "Print the lowest common boss of a pair of employees: a,b.")
	flags.IntSliceVar(&opt.Fire, "fire", nil, "Fire an employee lacking subordinates before querying.")
	flags.BoolVar(&opt.Export, "export", opt.Export, "Print the hierarchy in the export format.")
	flags.StringVar(&opt.EndMarker, "end-marker", opt.EndMarker, "The export format's end marker.")
	flags.StringVar(&opt.Splitter, "splitter", opt.Splitter, "The export format's splitter.")
	flags.BoolVar(&opt.SubtreeRelevel, "subtree-relevel", opt.SubtreeRelevel, "Recompute the levels of reassigned subtrees in full.")
	flags.IntVar(&opt.PoolSize, "pool-size", opt.PoolSize, "Maximum concurrent queries, GOMAXPROCS when unset.")
	flags.BoolVar(&opt.Debug, "debug", opt.Debug, "Enable debug logging.")
	flags.StringVar(&opt.LogFormat, "log-format", opt.LogFormat, "Log format: text or json.")
	flags.BoolVar(&opt.NoColor, "no-color", opt.NoColor, "Disable colored output.")

	return flags
}

func configureLogger(logger *logrus.Logger, opt *options) error {
	switch opt.LogFormat {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown --log-format %q", opt.LogFormat)
	}

	logger.SetOutput(os.Stderr)
	if opt.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return nil
}

func run(ctx context.Context, opt *options, logger logrus.FieldLogger, out io.Writer) (err error) {
	queries, err := opt.queries()
	if err != nil {
		return
	}
	lexOpts, err := opt.lexerOpts(logger)
	if err != nil {
		return
	}

	h, err := load(ctx, opt, lexOpts, logger)
	if err != nil {
		return
	}
	safe := orghierarchy.NewSafe(h, opt.PoolSize)

	for _, id := range opt.Fire {
		if err = safe.FireEmployee(ctx, id); err != nil {
			return
		}
	}

	results, err := safe.Batch(ctx, queries)
	if err != nil {
		return
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			logger.WithError(r.Err).WithField("query", r.Kind.String()).Error("query failed")
			failed++
			continue
		}
		fmt.Fprintln(out, formatResult(r))
	}

	if opt.Export {
		var exported string
		if exported, err = safe.Serialize(ctx, lexOpts); err != nil {
			return
		}
		fmt.Fprintln(out, exported)
	}

	if failed > 0 {
		err = fmt.Errorf("%w: %d of %d", errFailedQueries, failed, len(results))
	}

	return
}

// load builds the Hierarchy from the configured source.
func load(ctx context.Context, opt *options, lexOpts *lexer.Opts, logger logrus.FieldLogger) (h *orghierarchy.Hierarchy, err error) {
	cfg := orghierarchy.DefConfig()
	cfg.Logger, cfg.Debug, cfg.SubtreeRelevel = logger, opt.Debug, opt.SubtreeRelevel
	withConfig := orghierarchy.WithConfig(cfg)

	switch {
	case opt.RosterPath != "" && opt.Import != "":
		return nil, errMultipleSource
	case opt.RosterPath != "":
		var entries []orghierarchy.Entry
		if entries, err = loadRoster(opt.RosterPath); err != nil {
			return
		}

		roster := orghierarchy.NewRoster(
			orghierarchy.WithEntries(entries...),
			orghierarchy.WithBuildLogger(logger),
			orghierarchy.WithBuildDebug(opt.Debug),
		)
		return roster.Build(ctx, withConfig)
	case opt.Import != "":
		h = orghierarchy.New(withConfig)
		err = h.Deserialize(ctx, append(lexOpts.Options(), lexer.WithString(opt.Import))...)
		return
	default:
		return nil, errMissingSource
	}
}

// lexerOpts configures the export format's markers, shared by --import & --export.
func (opt *options) lexerOpts(logger logrus.FieldLogger) (lexOpts *lexer.Opts, err error) {
	lexOpts = &lexer.Opts{Debug: opt.Debug, Logger: logger}

	if lexOpts.EndMarker, err = parseMarker(opt.EndMarker); err != nil {
		return nil, fmt.Errorf("--end-marker: %w", err)
	}
	if lexOpts.Splitter, err = parseMarker(opt.Splitter); err != nil {
		return nil, fmt.Errorf("--splitter: %w", err)
	}

	lexOpts.Validate()
	if lexOpts.EndMarker == lexOpts.Splitter {
		return nil, fmt.Errorf("%w: --end-marker & --splitter match", errInvalidMarker)
	}

	return
}

// parseMarker converts a flag into a marker rune; the zero rune selects the default.
func parseMarker(value string) (marker rune, err error) {
	runes := []rune(value)
	switch {
	case len(runes) == 0:
		return
	case len(runes) > 1:
		return marker, fmt.Errorf("%w: %q", errInvalidMarker, value)
	}

	marker = runes[0]
	if unicode.IsDigit(marker) || unicode.IsSpace(marker) || marker == '+' || marker == '-' {
		return 0, fmt.Errorf("%w: %q", errInvalidMarker, value)
	}

	return
}

// queries converts the query flags into orghierarchy.Query values.
func (opt *options) queries() (queries []orghierarchy.Query, err error) {
	for _, id := range opt.Boss {
		queries = append(queries, orghierarchy.Query{Kind: orghierarchy.QueryBoss, ID: id})
	}
	for _, id := range opt.Level {
		queries = append(queries, orghierarchy.Query{Kind: orghierarchy.QueryLevel, ID: id})
	}
	for _, pair := range opt.LCB {
		var id1, id2 int
		if id1, id2, err = parsePair(pair); err != nil {
			return nil, err
		}
		queries = append(queries, orghierarchy.Query{Kind: orghierarchy.QueryLowestCommonBoss, ID: id1, OtherID: id2})
	}
	for _, id := range opt.Render {
		queries = append(queries, orghierarchy.Query{Kind: orghierarchy.QueryRender, ID: id})
	}

	return
}

// parsePair parses an `a,b` identifier pair.
func parsePair(pair string) (id1, id2 int, err error) {
	first, second, ok := strings.Cut(pair, ",")
	if !ok {
		return id1, id2, fmt.Errorf("%w: %q", errInvalidPair, pair)
	}

	if id1, err = strconv.Atoi(strings.TrimSpace(first)); err != nil {
		return id1, id2, fmt.Errorf("%w: %q: %w", errInvalidPair, pair, err)
	}
	if id2, err = strconv.Atoi(strings.TrimSpace(second)); err != nil {
		return id1, id2, fmt.Errorf("%w: %q: %w", errInvalidPair, pair, err)
	}

	return
}

// kindLabel highlights query kinds on a terminal, color.NoColor disables it otherwise.
var kindLabel = color.New(color.FgCyan, color.Bold)

func formatResult(r orghierarchy.Result) string {
	kind := kindLabel.Sprint(r.Kind.String())

	switch r.Kind {
	case orghierarchy.QueryLowestCommonBoss:
		return fmt.Sprintf("%s (%d, %d): %d", kind, r.ID, r.OtherID, r.Value)
	case orghierarchy.QueryRender:
		return fmt.Sprintf("%s (%d): %s", kind, r.ID, r.Text)
	default:
		return fmt.Sprintf("%s (%d): %d", kind, r.ID, r.Value)
	}
}
