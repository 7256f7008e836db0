// Package printer serializes search results to an output stream: a
// default colorized format, --ackmate, and --vimgrep, each with
// optional before/after context, column numbers, and line-width
// truncation. A single mutex brackets each file's emission so two
// workers never interleave bytes for different files — per-file
// atomicity, not a strict cross-file ordering guarantee, since
// inter-file output order is explicitly unspecified.
package printer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlathara/axgrep/internal/matcher"
)

const (
	colorReset            = "\033[m\033[K"
	colorResetWithNewline = "\033[m\033[K\n"
	truncateMarker        = " [...]"
)

// PathMode controls when a file's path is printed relative to its matches.
type PathMode int

const (
	PathTop      PathMode = iota // print once, before the file's matches
	PathEachLine                 // print before every matched/context line
	PathNothing                  // never print (counts/filenames-only modes supply their own header)
)

// Options configures a Printer's output format and decoration.
type Options struct {
	LineNumbers  bool
	Column       bool
	Width        int // 0 means unlimited
	Color        bool
	OnlyMatching bool
	PrintBreak   bool // blank line between successive files
	Ackmate      bool
	Vimgrep      bool
	PathMode     PathMode
	PathSep      byte // separator after the path header; ':' or '\n' typically

	ColorMatch      lipgloss.Style
	ColorPath       lipgloss.Style
	ColorLineNumber lipgloss.Style
}

// DefaultOptions returns Options matching the common case: line
// numbers on, path printed once at the top of each file's matches,
// plain text colors (caller should override ColorMatch etc. when
// Color is enabled).
func DefaultOptions() Options {
	return Options{
		LineNumbers: true,
		PathMode:    PathTop,
		PathSep:     ':',
	}
}

// Printer writes formatted search results to w, serializing emission
// per file via mu.
type Printer struct {
	w    io.Writer
	opts Options

	mu        sync.Mutex
	firstFile bool
}

// New returns a Printer writing to w with the given options.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts, firstFile: true}
}

// PrintBinaryMatch reports that a binary file contains a match,
// without printing any of its content.
func (p *Printer) PrintBinaryMatch(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileSeparator()
	fmt.Fprintf(p.w, "Binary file %s matches.\n", normalizePath(path))
}

// PrintFilename prints just a path, for -l/--files-with-matches mode.
func (p *Printer) PrintFilename(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, normalizePath(path))
}

// PrintCount prints "path:count" (or just count, if path is empty),
// for -c/--count mode.
func (p *Printer) PrintCount(path string, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != "" {
		p.writePath(path, ':')
	}
	if p.opts.Color {
		fmt.Fprintf(p.w, "%s\n", p.opts.ColorLineNumber.Render(itoa(count)))
		return
	}
	fmt.Fprintf(p.w, "%d\n", count)
}

// PrintFile formats and writes every line in ms (matches and their
// context lines) for path. Returns false without writing anything if
// ms has no lines to print.
func (p *Printer) PrintFile(path string, ms matcher.MatchSet) bool {
	if ms.Len() == 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.fileSeparator()
	if p.opts.PathMode == PathTop {
		p.writePath(path, p.opts.PathSep)
	}

	for i := range ms.Matches {
		m := &ms.Matches[i]
		if m.IsContext && m.LineNum == 0 {
			fmt.Fprint(p.w, "--\n")
			continue
		}
		switch {
		case p.opts.Ackmate:
			p.printAckmateLine(path, &ms, i)
		case p.opts.Vimgrep:
			p.printVimgrepLine(path, &ms, i)
		default:
			p.printDefaultLine(path, &ms, i)
		}
	}
	return true
}

func (p *Printer) fileSeparator() {
	if !p.firstFile && p.opts.PrintBreak {
		fmt.Fprintln(p.w)
	}
	p.firstFile = false
}

func (p *Printer) writePath(path string, sep byte) {
	norm := normalizePath(path)
	switch {
	case p.opts.Ackmate:
		fmt.Fprintf(p.w, ":%s%c", norm, sep)
	case p.opts.Vimgrep:
		fmt.Fprintf(p.w, "%s%c", norm, sep)
	case p.opts.Color:
		fmt.Fprintf(p.w, "%s%c", p.opts.ColorPath.Render(norm), sep)
	default:
		fmt.Fprintf(p.w, "%s%c", norm, sep)
	}
}

func (p *Printer) printLineNumber(lineNum int, sep byte) {
	if !p.opts.LineNumbers {
		return
	}
	if p.opts.Color {
		fmt.Fprintf(p.w, "%s%c", p.opts.ColorLineNumber.Render(itoa(lineNum)), sep)
		return
	}
	fmt.Fprintf(p.w, "%d%c", lineNum, sep)
}

// printAckmateLine renders one line in ackmate format:
// "<line>;<start> <len>,<start> <len>:<line text>", offsets relative
// to the line start and clamped to 0.
func (p *Printer) printAckmateLine(path string, ms *matcher.MatchSet, i int) {
	m := &ms.Matches[i]
	if m.IsContext {
		return // ackmate carries no context lines, only matched ones
	}
	if p.opts.PathMode == PathEachLine {
		p.writePath(path, ':')
	}
	p.printLineNumber(m.LineNum, ';')

	positions := ms.MatchPositions(i)
	for j, pos := range positions {
		start := pos[0] - m.LineStart
		if start < 0 {
			start = 0
		}
		length := pos[1] - pos[0]
		if j == len(positions)-1 {
			fmt.Fprintf(p.w, "%d %d:", start, length)
		} else {
			fmt.Fprintf(p.w, "%d %d,", start, length)
		}
	}
	p.writeRawLine(ms.LineBytes(i))
}

// printVimgrepLine renders one row per match: "path:line:column:text".
func (p *Printer) printVimgrepLine(path string, ms *matcher.MatchSet, i int) {
	m := &ms.Matches[i]
	if m.IsContext {
		return
	}
	norm := normalizePath(path)
	positions := ms.MatchPositions(i)
	if len(positions) == 0 {
		fmt.Fprintf(p.w, "%s:%d:1:", norm, m.LineNum)
		p.writeRawLine(ms.LineBytes(i))
		return
	}
	for _, pos := range positions {
		column := pos[0] - m.LineStart + 1
		fmt.Fprintf(p.w, "%s:%d:%d:", norm, m.LineNum, column)
		p.writeRawLine(ms.LineBytes(i))
	}
}

// printDefaultLine renders one line in the default format: line
// number, optional column, then the line text with match ranges
// wrapped in color, honoring width truncation and only_matching.
func (p *Printer) printDefaultLine(path string, ms *matcher.MatchSet, i int) {
	m := &ms.Matches[i]
	sep := byte(':')
	if m.IsContext {
		sep = '-'
	}
	if p.opts.PathMode == PathEachLine {
		p.writePath(path, ':')
	}

	line := ms.LineBytes(i)
	positions := ms.MatchPositions(i)

	if p.opts.OnlyMatching && !m.IsContext && len(positions) > 0 {
		for _, pos := range positions {
			p.printLineNumber(m.LineNum, sep)
			if p.opts.Column {
				fmt.Fprintf(p.w, "%d%c", pos[0]-m.LineStart+1, sep)
			}
			seg := line[pos[0]-m.LineStart : pos[1]-m.LineStart]
			if p.opts.Color {
				fmt.Fprint(p.w, p.opts.ColorMatch.Render(string(seg)))
			} else {
				p.w.Write(seg)
			}
			fmt.Fprint(p.w, "\n")
		}
		return
	}

	p.printLineNumber(m.LineNum, sep)
	if p.opts.Column {
		col := 1
		if len(positions) > 0 {
			col = positions[0][0] - m.LineStart + 1
		}
		fmt.Fprintf(p.w, "%d%c", col, sep)
	}
	p.writeHighlightedLine(line, m.LineStart, positions)
}

// writeHighlightedLine writes line, wrapping each highlight span (in
// buffer-absolute coordinates, rebased by lineStart) in color, and
// truncating at p.opts.Width columns from the start of the line.
func (p *Printer) writeHighlightedLine(line []byte, lineStart int, positions [][2]int) {
	width := p.opts.Width
	j := 0
	posIdx := 0
	inMatch := false

	for j < len(line) {
		if width > 0 && j >= width {
			fmt.Fprint(p.w, truncateMarker)
			if inMatch && p.opts.Color {
				fmt.Fprint(p.w, colorResetWithNewline)
				return
			}
			break
		}

		// Determine the next boundary: either a match span's start/end,
		// the width cutoff, or the end of the line, whichever comes first.
		next := len(line)
		if width > 0 && width < next {
			next = width
		}
		if posIdx < len(positions) {
			start := positions[posIdx][0] - lineStart
			finish := positions[posIdx][1] - lineStart
			if !inMatch {
				if start < next {
					next = start
				}
			} else if finish < next {
				next = finish
			}
		}
		if next <= j {
			// A match boundary falls exactly at the current position;
			// flip state and recompute the next boundary before writing.
			if !inMatch {
				inMatch = true
			} else {
				inMatch = false
				posIdx++
			}
			continue
		}

		if inMatch && p.opts.Color {
			fmt.Fprint(p.w, p.opts.ColorMatch.Render(string(line[j:next])))
		} else {
			p.w.Write(line[j:next])
		}
		j = next
	}

	fmt.Fprint(p.w, "\n")
}

func (p *Printer) writeRawLine(line []byte) {
	p.w.Write(line)
	fmt.Fprint(p.w, "\n")
}

// normalizePath strips a leading "./" and collapses a leading "//" to "/".
func normalizePath(path string) string {
	if strings.HasPrefix(path, "./") {
		return path[2:]
	}
	if strings.HasPrefix(path, "//") {
		return path[1:]
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
