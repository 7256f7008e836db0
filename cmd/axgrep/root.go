package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlathara/axgrep/internal/cli"
	"github.com/mlathara/axgrep/internal/config"
)

var (
	cfg       config.Config
	colorFlag string
	pathFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "axgrep [flags] PATTERN [PATH...]",
	Short: "Recursive, parallel source-code search",
	Long: `axgrep searches files for a pattern, walking directories in
parallel and honoring .gitignore/.hgignore/.agignore/svn:ignore rules
inherited from ancestor directories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Patterns = []string{args[0]}
		cfg.Paths = args[1:]

		switch colorFlag {
		case "always":
			cfg.Color = config.ColorAlways
		case "never":
			cfg.Color = config.ColorNever
		case "auto", "":
			cfg.Color = config.ColorAuto
		default:
			return fmt.Errorf("invalid --color value %q (want auto, always, or never)", colorFlag)
		}

		switch pathFlag {
		case "top", "":
			cfg.PrintPath = config.PathTop
		case "each-line":
			cfg.PrintPath = config.PathEachLine
		case "nothing":
			cfg.PrintPath = config.PathNothing
		default:
			return fmt.Errorf("invalid --path-mode value %q (want top, each-line, or nothing)", pathFlag)
		}

		exitCode = cli.Run(cfg)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: false,
}

// exitCode carries the search's exit status out of RunE, since cobra's
// Execute only reports whether command dispatch itself failed.
var exitCode int

func init() {
	cfg = config.LoadDefaults()

	flags := rootCmd.Flags()

	flags.BoolVarP(&cfg.Fixed, "fixed-strings", "F", cfg.Fixed, "treat pattern as a literal string, not a regex")
	flags.BoolVarP(&cfg.PCRE, "pcre", "P", cfg.PCRE, "use the PCRE2-compatible backend")
	flags.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", cfg.IgnoreCase, "case-insensitive match")
	flags.BoolVarP(&cfg.SmartCase, "smart-case", "S", cfg.SmartCase, "case-insensitive unless the pattern has an uppercase letter")
	flags.BoolVarP(&cfg.Invert, "invert-match", "v", cfg.Invert, "print non-matching lines")
	flags.BoolVarP(&cfg.Multiline, "multiline", "U", cfg.Multiline, "match across line boundaries")

	flags.BoolVarP(&cfg.Recursive, "recursive", "r", cfg.Recursive, "recurse into directories")
	flags.BoolVar(&cfg.NoIgnore, "no-ignore", cfg.NoIgnore, "don't respect ignore files")
	flags.BoolVar(&cfg.Hidden, "hidden", cfg.Hidden, "search hidden files and directories")
	flags.BoolVar(&cfg.FollowSymlinks, "follow", cfg.FollowSymlinks, "follow symbolic links")
	flags.BoolVar(&cfg.OneDev, "one-file-system", cfg.OneDev, "don't cross filesystem (device) boundaries")
	flags.BoolVar(&cfg.SearchAllFiles, "unrestricted", cfg.SearchAllFiles, "search every file, ignoring ignore rules entirely")
	flags.StringVar(&cfg.AgignorePath, "agignore", cfg.AgignorePath, "path to an extra ignore file to apply everywhere")
	flags.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum directory recursion depth (-1 = unlimited)")
	flags.StringSliceVarP(&cfg.Globs, "glob", "g", cfg.Globs, "include (or, prefixed with !, exclude) files matching GLOB")
	flags.StringVarP(&cfg.FileSearchPattern, "file-search-regex", "G", cfg.FileSearchPattern, "only search files whose name matches PATTERN")
	flags.BoolVar(&cfg.MatchFiles, "match-files", cfg.MatchFiles, "print filenames matching --file-search-regex instead of searching their contents")
	flags.StringVar(&cfg.BinaryIgnorePattern, "binary-ignore-regex", cfg.BinaryIgnorePattern, "skip files whose name matches PATTERN without a content-based binary check")
	flags.StringVar(&cfg.AckmateDirPattern, "ackmate-dir-filter-regex", cfg.AckmateDirPattern, "exclude paths matching PATTERN from the search")

	flags.BoolVarP(&cfg.SearchBinaryFiles, "binary", "a", cfg.SearchBinaryFiles, "search binary files as text")
	flags.BoolVarP(&cfg.SearchZipFiles, "search-zip", "Z", cfg.SearchZipFiles, "decompress and search gzip/bzip2/zip files")

	flags.BoolVarP(&cfg.LineNumbers, "line-numbers", "n", cfg.LineNumbers, "print line numbers")
	flags.BoolVar(&cfg.Column, "column", cfg.Column, "print column numbers")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "truncate lines to NUM columns (0 = unlimited)")
	flags.BoolVar(&cfg.PrintBreak, "break", cfg.PrintBreak, "print a blank line between files")
	flags.BoolVarP(&cfg.CountOnly, "count", "c", cfg.CountOnly, "print only a count of matching lines per file")
	flags.BoolVarP(&cfg.FileNamesOnly, "files-with-matches", "l", cfg.FileNamesOnly, "print only filenames containing matches")
	flags.BoolVarP(&cfg.OnlyMatching, "only-matching", "o", cfg.OnlyMatching, "print only the matched text")
	flags.BoolVar(&cfg.Ackmate, "ackmate", cfg.Ackmate, "print results in AckMate-compatible format")
	flags.BoolVar(&cfg.Vimgrep, "vimgrep", cfg.Vimgrep, "print one result per match, vim quickfix style")
	flags.StringVar(&pathFlag, "path-mode", "top", "when to print the file path: top, each-line, or nothing")
	flags.StringVar(&colorFlag, "color", "auto", "when to use color: auto, always, or never")

	flags.IntVar(&cfg.MaxColumns, "max-columns", cfg.MaxColumns, "max columns considered per snippet (-1 = unlimited)")
	flags.IntVarP(&cfg.MaxMatchesPerFile, "max-count", "m", cfg.MaxMatchesPerFile, "stop after NUM matches in one file (0 = unlimited)")
	flags.Int64Var(&cfg.MmapThreshold, "mmap-threshold", cfg.MmapThreshold, "file size in bytes above which reads are memory-mapped")

	flags.BoolVar(&cfg.Stats, "stats", cfg.Stats, "print a summary line after the search completes")
	flags.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "number of worker goroutines (0 = number of CPUs)")

	before := rootCmd.Flags().IntP("before-context", "B", 0, "print NUM lines of leading context")
	after := rootCmd.Flags().IntP("after-context", "A", 0, "print NUM lines of trailing context")
	context := rootCmd.Flags().IntP("context", "C", 0, "print NUM lines of leading and trailing context")
	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		b, a := *before, *after
		if *context > 0 {
			b, a = *context, *context
		}
		cfg.ContextBefore, cfg.ContextAfter = b, a
		return nil
	}
}

// Execute runs the root command and returns the process exit code:
// the search's own exit code (0/1/2) on success, or 2 if cobra itself
// could not parse the command line.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 2
	}
	return exitCode
}
