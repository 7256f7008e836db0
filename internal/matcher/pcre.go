package matcher

import (
	"bytes"

	"go.elara.ws/pcre"
)

// PCREMatcher matches using PCRE2-compatible regexes via the pure Go pcre package.
// Supports lookahead, lookbehind, backreferences, atomic groups, and all PCRE2 features.
type PCREMatcher struct {
	re           *pcre.Regexp
	ignoreCase   bool
	invert       bool
	multiline    bool
	maxCols      int
	needLineNums bool
}

// NewPCREMatcher creates a PCREMatcher from a PCRE2 pattern string. When
// multiline is set, the "(?s)" inline modifier is added so "." matches a
// newline the same way RegexMatcher's "(?s)" flag does.
func NewPCREMatcher(pattern string, ignoreCase bool, invert bool, multiline bool) (*PCREMatcher, error) {
	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}
	if multiline {
		pattern = "(?s)" + pattern
	}

	re, err := pcre.CompileOpts(pattern, opts)
	if err != nil {
		return nil, err
	}

	return &PCREMatcher{
		re:         re,
		ignoreCase: ignoreCase,
		invert:     invert,
		multiline:  multiline,
	}, nil
}

func (m *PCREMatcher) MatchExists(data []byte) bool {
	if m.invert {
		return len(data) > 0
	}
	return m.re.Match(data)
}

func (m *PCREMatcher) CountAll(data []byte) int {
	if m.invert {
		return countInvert(data, func(line []byte) bool {
			return len(m.re.FindAllIndex(line, -1)) == 0
		})
	}

	locs := toLocs2(m.re.FindAllIndex(data, -1))
	return countLocsUniqueLines(data, locs)
}

func (m *PCREMatcher) FindAll(data []byte) MatchSet {
	if m.invert {
		return m.findAllInvert(data)
	}

	locs := toLocs2(m.re.FindAllIndex(data, -1))
	if len(locs) == 0 {
		return MatchSet{}
	}

	if m.multiline {
		return matchSetFromLocsMultiline(data, locs, m.maxCols, m.needLineNums)
	}
	return matchSetFromLocs(data, locs, m.maxCols, m.needLineNums)
}

func (m *PCREMatcher) findAllInvert(data []byte) MatchSet {
	ms := MatchSet{Data: data}
	var offset int64
	lineNum := 1
	remaining := data

	for len(remaining) > 0 {
		idx := bytes.IndexByte(remaining, '\n')
		var lineLen int
		if idx >= 0 {
			lineLen = idx
		} else {
			lineLen = len(remaining)
		}
		lineStart := int(offset)
		line := remaining[:lineLen]

		locs := m.re.FindAllIndex(line, -1)
		if len(locs) == 0 {
			ms.Matches = append(ms.Matches, Match{
				LineNum:    lineNum,
				LineStart:  lineStart,
				LineLen:    lineLen,
				ByteOffset: offset,
			})
		}

		if idx >= 0 {
			remaining = remaining[idx+1:]
		} else {
			remaining = nil
		}
		offset += int64(lineLen) + 1
		lineNum++
	}

	return ms
}

func (m *PCREMatcher) FindLine(line []byte, lineNum int, byteOffset int64) (MatchSet, bool) {
	locs := m.re.FindAllIndex(line, -1)
	hasMatch := len(locs) > 0

	if m.invert {
		hasMatch = !hasMatch
	}

	if !hasMatch {
		return MatchSet{}, false
	}

	ms := MatchSet{Data: line}
	match := Match{
		LineNum:    lineNum,
		LineStart:  0,
		LineLen:    len(line),
		ByteOffset: byteOffset,
	}
	if !m.invert && len(locs) > 0 {
		match.PosIdx = 0
		match.PosCount = len(locs)
		ms.Positions = make([][2]int, len(locs))
		for i, loc := range locs {
			ms.Positions[i] = [2]int{loc[0], loc[1]}
		}
	}
	ms.Matches = []Match{match}

	return ms, true
}

// Close releases the compiled PCRE regex resources.
func (m *PCREMatcher) Close() {
	if m.re != nil {
		m.re.Close()
	}
}
