// Package config holds the search Config struct, its defaults, and its
// validation rules. Flags bound in cmd/axgrep always win; a TOML rc file
// (rcfile.go) supplies the defaults flags are registered against.
package config

import "fmt"

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// PathMode mirrors internal/printer.PathMode without importing it, so
// config stays independent of the output layer; internal/cli converts
// one to the other when building a printer.Options.
type PathMode int

const (
	PathTop      PathMode = iota // print once, before a file's matches
	PathEachLine                 // print before every matched/context line
	PathNothing                  // never print
)

// Config holds all configuration for an axgrep search.
type Config struct {
	Patterns   []string
	Fixed      bool
	PCRE       bool
	IgnoreCase bool
	SmartCase  bool
	Invert     bool
	Multiline  bool

	ContextBefore int
	ContextAfter  int

	Recursive      bool
	NoIgnore       bool
	Hidden         bool
	FollowSymlinks bool
	OneDev         bool
	SearchAllFiles bool
	AgignorePath   string
	MaxDepth       int // -1 means unlimited
	Globs          []string

	FileSearchPattern   string // -G, filename regex restricting which files are searched
	MatchFiles          bool   // --match-files: print filenames matching FileSearchPattern, never search content
	BinaryIgnorePattern string // filenames matching this regex are skipped as binary without a content sniff, unless SearchBinaryFiles
	AckmateDirPattern   string // paths matching this regex are excluded from the search entirely

	SearchBinaryFiles bool
	SearchZipFiles    bool

	LineNumbers   bool
	Column        bool
	Width         int
	PathSep       byte
	PrintPath     PathMode
	PrintBreak    bool
	CountOnly     bool
	FileNamesOnly bool
	OnlyMatching  bool
	Passthrough   bool
	Ackmate       bool
	Vimgrep       bool

	Color ColorMode

	MaxColumns        int
	MaxMatchesPerFile int // 0 means unlimited
	MmapThreshold     int64

	Stats   bool
	Workers int

	Paths []string
}

// Default returns a Config with the baseline defaults every rc file and
// flag set layers on top of.
func Default() Config {
	return Config{
		MaxDepth:            -1,
		MaxColumns:          75,
		MmapThreshold:       512 * 1024,
		LineNumbers:         true,
		PathSep:             ':',
		PrintPath:           PathTop,
		Recursive:           true,
		BinaryIgnorePattern: `\.(?:bmp|png|jpg|jpeg|jp2|gif|ico|tiff|tga|pdf|psd|docx|xlsx|pptx|zip|gz|tgz|bz2|wav|ppm|pgm|mp3|mp4|o|a|dll|lib|jar)$`,
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 {
		return fmt.Errorf("no pattern specified")
	}
	if c.Fixed && c.PCRE {
		return fmt.Errorf("cannot use -F (fixed) and -P (pcre) together")
	}
	if c.ContextBefore < 0 {
		return fmt.Errorf("invalid context before: %d", c.ContextBefore)
	}
	if c.ContextAfter < 0 {
		return fmt.Errorf("invalid context after: %d", c.ContextAfter)
	}
	if c.CountOnly && c.FileNamesOnly {
		return fmt.Errorf("cannot use -c (count) and -l (files-with-matches) together")
	}
	if c.Ackmate && c.Vimgrep {
		return fmt.Errorf("cannot use --ackmate and --vimgrep together")
	}
	if c.MaxDepth < -1 {
		return fmt.Errorf("invalid max search depth: %d", c.MaxDepth)
	}
	if c.MatchFiles && c.FileSearchPattern == "" {
		return fmt.Errorf("--match-files requires --file-search-regex")
	}
	return nil
}
