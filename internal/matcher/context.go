package matcher

import "bytes"

// ContextMatcher wraps a Matcher and adds before/after context lines plus
// "--" group separators between non-contiguous match groups, reproducing the
// rolling context-line replay described for the printer's context window.
// It operates line-by-line (via the inner matcher's FindLine), so it is only
// meaningful for line-oriented searches, not multi-line mode.
type ContextMatcher struct {
	inner  Matcher
	before int
	after  int
}

// NewContextMatcher wraps an existing matcher to add context lines.
// If both before and after are 0, returns the inner matcher directly —
// there is nothing for the wrapper to add.
func NewContextMatcher(inner Matcher, before, after int) Matcher {
	if before == 0 && after == 0 {
		return inner
	}
	return &ContextMatcher{inner: inner, before: before, after: after}
}

func (m *ContextMatcher) MatchExists(data []byte) bool {
	return m.inner.MatchExists(data)
}

func (m *ContextMatcher) CountAll(data []byte) int {
	return m.inner.CountAll(data)
}

func (m *ContextMatcher) FindLine(line []byte, lineNum int, byteOffset int64) (MatchSet, bool) {
	return m.inner.FindLine(line, lineNum, byteOffset)
}

// FindAll splits data into lines, asks the inner matcher about each one, and
// expands the resulting match lines into their before/after context window.
func (m *ContextMatcher) FindAll(data []byte) MatchSet {
	var lineStarts []int
	var lineLens []int
	var offset int

	remaining := data
	for {
		idx := bytes.IndexByte(remaining, '\n')
		var lineLen int
		if idx >= 0 {
			lineLen = idx
		} else {
			lineLen = len(remaining)
		}
		lineStarts = append(lineStarts, offset)
		lineLens = append(lineLens, lineLen)
		if idx < 0 {
			break
		}
		remaining = remaining[idx+1:]
		offset += lineLen + 1
		if len(remaining) == 0 {
			// Trailing newline with nothing after it — no further line.
			break
		}
	}

	lineMatches := make(map[int]MatchSet, len(lineStarts))
	anyMatch := false
	for i := range lineStarts {
		line := data[lineStarts[i] : lineStarts[i]+lineLens[i]]
		ms, ok := m.inner.FindLine(line, i+1, int64(lineStarts[i]))
		if ok {
			lineMatches[i] = ms
			anyMatch = true
		}
	}
	if !anyMatch {
		return MatchSet{}
	}

	include := make(map[int]bool, len(lineStarts))
	for idx := range lineMatches {
		lo := idx - m.before
		if lo < 0 {
			lo = 0
		}
		hi := idx + m.after
		if hi > len(lineStarts)-1 {
			hi = len(lineStarts) - 1
		}
		for i := lo; i <= hi; i++ {
			include[i] = true
		}
	}

	out := MatchSet{Data: data}
	lastIncluded := -2
	for i := 0; i < len(lineStarts); i++ {
		if !include[i] {
			continue
		}
		if lastIncluded >= 0 && i > lastIncluded+1 {
			out.Matches = append(out.Matches, Match{LineNum: 0, IsContext: true})
		}

		if inner, isMatch := lineMatches[i]; isMatch {
			match := inner.Matches[0]
			if match.PosCount > 0 {
				newIdx := len(out.Positions)
				for _, p := range inner.Positions[match.PosIdx : match.PosIdx+match.PosCount] {
					// FindLine's positions are relative to the line slice it was given;
					// rebase to buffer-absolute offsets to match FindAll's convention.
					out.Positions = append(out.Positions, [2]int{p[0] + lineStarts[i], p[1] + lineStarts[i]})
				}
				match.PosIdx = newIdx
			}
			match.LineStart = lineStarts[i]
			match.LineLen = lineLens[i]
			match.ByteOffset = int64(lineStarts[i])
			match.LineNum = i + 1
			match.IsContext = false
			out.Matches = append(out.Matches, match)
		} else {
			out.Matches = append(out.Matches, Match{
				LineNum:    i + 1,
				LineStart:  lineStarts[i],
				LineLen:    lineLens[i],
				ByteOffset: int64(lineStarts[i]),
				IsContext:  true,
			})
		}

		lastIncluded = i
	}

	return out
}
