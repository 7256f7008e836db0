// Package cli wires a resolved config.Config into a running search:
// matcher construction, smart-case resolution, walking, per-file
// searching, and printing, followed by an optional --stats summary.
package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/mlathara/axgrep/internal/config"
	"github.com/mlathara/axgrep/internal/filesearch"
	"github.com/mlathara/axgrep/internal/input"
	"github.com/mlathara/axgrep/internal/matcher"
	"github.com/mlathara/axgrep/internal/printer"
	"github.com/mlathara/axgrep/internal/searchctx"
	"github.com/mlathara/axgrep/internal/stats"
	"github.com/mlathara/axgrep/internal/walker"
)

// Run executes a search for cfg, writing results to stdout and
// warnings/errors through a charmbracelet/log logger on stderr.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(cfg config.Config) int {
	return run(cfg, os.Stdout, os.Stderr)
}

// run is Run's testable core: stdout/stderr are injected so tests can
// capture output without touching the process's real streams.
func run(cfg config.Config, stdout, stderr io.Writer) int {
	logger := newLogger(stderr)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return 2
	}

	resolveSmartCase(&cfg)

	m, err := buildMatcher(cfg)
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}

	p := buildPrinter(cfg, stdout)
	sc := searchctx.New(cfg, m, p, logger)

	start := time.Now()
	var (
		exitCode int
		runStats *stats.Stats
	)
	switch {
	case len(cfg.Paths) == 0:
		exitCode, runStats = runStdin(sc)
	case cfg.Recursive:
		exitCode, runStats = runRecursive(sc)
	default:
		exitCode, runStats = runFiles(sc)
	}
	elapsed := time.Since(start)

	if cfg.Stats && runStats != nil {
		printStats(stderr, runStats, elapsed)
	}
	return exitCode
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "axgrep",
	})
}

// resolveSmartCase turns SmartCase into IgnoreCase when every pattern
// is entirely lowercase and the user didn't already ask for -i.
func resolveSmartCase(cfg *config.Config) {
	if !cfg.SmartCase || cfg.IgnoreCase {
		return
	}
	allLower := true
	for _, pat := range cfg.Patterns {
		for _, r := range pat {
			if unicode.IsUpper(r) {
				allLower = false
				break
			}
		}
		if !allLower {
			break
		}
	}
	if allLower {
		cfg.IgnoreCase = true
	}
}

func buildMatcher(cfg config.Config) (matcher.Matcher, error) {
	maxCols := cfg.MaxColumns
	if maxCols < 0 {
		maxCols = 0 // -1 from the CLI means no limit
	}

	fastMode := cfg.CountOnly || cfg.FileNamesOnly
	m, err := matcher.NewMatcher(cfg.Patterns, cfg.Fixed, cfg.PCRE, cfg.IgnoreCase, cfg.Invert, cfg.Multiline, matcher.MatcherOpts{
		MaxCols:      maxCols,
		NeedLineNums: !fastMode,
	})
	if err != nil {
		return nil, err
	}
	if fastMode {
		return m, nil
	}
	// Context windows are a line-oriented concept (ContextMatcher drives
	// them through FindLine); multi-line mode has no single "line" a match
	// belongs to, so it skips the wrapper entirely.
	if cfg.Multiline {
		return m, nil
	}
	return matcher.NewContextMatcher(m, cfg.ContextBefore, cfg.ContextAfter), nil
}

// buildWalkOptions compiles cfg's filename-regex filters and assembles
// the WalkOptions for a recursive search.
func buildWalkOptions(cfg config.Config) (walker.WalkOptions, error) {
	opts := walker.WalkOptions{
		Recursive:      true,
		NoIgnore:       cfg.NoIgnore || cfg.SearchAllFiles,
		Hidden:         cfg.Hidden,
		FollowSymlinks: cfg.FollowSymlinks,
		OneDev:         cfg.OneDev,
		MaxDepth:       cfg.MaxDepth,
		Globs:          cfg.Globs,
		Workers:        cfg.Workers,
		MatchFiles:     cfg.MatchFiles,
	}

	if cfg.FileSearchPattern != "" {
		re, err := regexp.Compile(cfg.FileSearchPattern)
		if err != nil {
			return walker.WalkOptions{}, fmt.Errorf("--file-search-regex: %w", err)
		}
		opts.FileSearchPattern = re
	}
	if !cfg.SearchBinaryFiles && cfg.BinaryIgnorePattern != "" {
		re, err := regexp.Compile(cfg.BinaryIgnorePattern)
		if err != nil {
			return walker.WalkOptions{}, fmt.Errorf("--binary-ignore-regex: %w", err)
		}
		opts.BinaryIgnorePattern = re
	}
	if cfg.AckmateDirPattern != "" {
		re, err := regexp.Compile(cfg.AckmateDirPattern)
		if err != nil {
			return walker.WalkOptions{}, fmt.Errorf("--ackmate-dir-filter-regex: %w", err)
		}
		opts.AckmateDirPattern = re
	}
	return opts, nil
}

func buildPrinter(cfg config.Config, w io.Writer) *printer.Printer {
	opts := printer.DefaultOptions()
	opts.LineNumbers = cfg.LineNumbers
	opts.Column = cfg.Column
	opts.Width = cfg.Width
	opts.OnlyMatching = cfg.OnlyMatching
	opts.PrintBreak = cfg.PrintBreak
	opts.Ackmate = cfg.Ackmate
	opts.Vimgrep = cfg.Vimgrep
	opts.PathSep = cfg.PathSep
	opts.PathMode = printer.PathMode(cfg.PrintPath)

	switch cfg.Color {
	case config.ColorAlways:
		opts.Color = true
	case config.ColorNever:
		opts.Color = false
	default:
		opts.Color = w == io.Writer(os.Stdout) && printer.StdoutIsTerminal()
	}
	if opts.Color {
		opts.ColorMatch, opts.ColorPath, opts.ColorLineNumber = printer.DefaultStyles()
	}

	return printer.New(w, opts)
}

func searchMode(cfg config.Config) filesearch.Mode {
	switch {
	case cfg.FileNamesOnly:
		return filesearch.ModeFiles
	case cfg.CountOnly:
		return filesearch.ModeCount
	default:
		return filesearch.ModeFull
	}
}

func newSearcher(sc *searchctx.Context, reader input.Reader) *filesearch.Searcher {
	return &filesearch.Searcher{
		Reader:         reader,
		Matcher:        sc.Matcher,
		SearchBinary:   sc.Config.SearchBinaryFiles,
		SearchZipFiles: sc.Config.SearchZipFiles,
		MaxMatchesFile: sc.Config.MaxMatchesPerFile,
	}
}

func runStdin(sc *searchctx.Context) (int, *stats.Stats) {
	ws := stats.New()
	searcher := newSearcher(sc, input.NewStdinReader())
	res := searcher.Search("", searchMode(sc.Config), ws)
	if res.Closer != nil {
		defer res.Closer()
	}
	return emit(sc, "", res), ws
}

func runFiles(sc *searchctx.Context) (int, *stats.Stats) {
	ws := stats.New()
	searcher := newSearcher(sc, input.NewAdaptiveReader(sc.Config.MmapThreshold))

	exit := 1
	for _, path := range sc.Config.Paths {
		res := searcher.Search(path, searchMode(sc.Config), ws)
		if res.Err != nil {
			sc.Logger.Error("search failed", "path", path, "err", res.Err)
			continue
		}
		if emit(sc, path, res) == 0 {
			exit = 0
		}
		if res.Closer != nil {
			res.Closer()
		}
	}
	return exit, ws
}

// runRecursive walks sc.Config.Paths and fans discovered files out
// across a fixed set of worker goroutines (separate from the walker's
// own directory-task pool, which is retired once traversal finishes).
func runRecursive(sc *searchctx.Context) (int, *stats.Stats) {
	walkOpts, err := buildWalkOptions(sc.Config)
	if err != nil {
		sc.Logger.Error("invalid filter pattern", "err", err)
		return 2, stats.New()
	}
	fileCh, errCh, wait := walker.Walk(sc.Config.Paths, walkOpts)

	go func() {
		for err := range errCh {
			sc.Logger.Warn("walk error", "err", err)
		}
	}()

	searcher := newSearcher(sc, input.NewAdaptiveReader(sc.Config.MmapThreshold))
	searchWs := stats.New()

	var matched atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < workerCount(sc.Config.Workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range fileCh {
				if entry.MatchOnly {
					sc.Printer.PrintFilename(entry.Path)
					matched.Store(true)
					continue
				}
				res := searcher.Search(entry.Path, searchMode(sc.Config), searchWs)
				if res.Err != nil {
					sc.Logger.Error("search failed", "path", entry.Path, "err", res.Err)
					continue
				}
				if emit(sc, entry.Path, res) == 0 {
					matched.Store(true)
				}
				if res.Closer != nil {
					res.Closer()
				}
			}
		}()
	}
	wg.Wait()

	total := wait()
	total.Merge(searchWs)

	if matched.Load() {
		return 0, total
	}
	return 1, total
}

// emit prints one file's result and reports 0 if it counts as a match
// for exit-code purposes, 1 otherwise.
func emit(sc *searchctx.Context, path string, res filesearch.Result) int {
	switch searchMode(sc.Config) {
	case filesearch.ModeFiles:
		if res.HasMatch() {
			sc.Printer.PrintFilename(path)
			return 0
		}
	case filesearch.ModeCount:
		if res.MatchCount > 0 {
			sc.Printer.PrintCount(path, res.MatchCount)
			return 0
		}
	default:
		if res.Binary {
			if res.HasMatch() {
				sc.Printer.PrintBinaryMatch(path)
				return 0
			}
			return 1
		}
		if sc.Printer.PrintFile(path, res.MatchSet) {
			return 0
		}
	}
	return 1
}

func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func printStats(w io.Writer, s *stats.Stats, elapsed time.Duration) {
	snap := s.Snapshot()
	fmt.Fprintf(w, "searched %d files (%s) in %s, %d matches\n",
		snap.FilesScanned,
		humanize.Bytes(uint64(snap.BytesRead)),
		elapsed.Round(time.Millisecond),
		snap.MatchesFound,
	)
}
