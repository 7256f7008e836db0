package matcher

import "bytes"

// toLocs2 converts the [][]int pairs regexp.FindAllIndex returns into the
// fixed-width [2]int pairs the rest of this package shares with MatchSet.Positions.
func toLocs2(locs [][]int) [][2]int {
	if len(locs) == 0 {
		return nil
	}
	out := make([][2]int, len(locs))
	for i, l := range locs {
		out[i] = [2]int{l[0], l[1]}
	}
	return out
}

// matchSetFromLocs groups sorted, non-overlapping [start,end) byte ranges by
// the line that contains them and builds a MatchSet, one Match per line with
// one or more hits, sharing a single Positions backing array.
func matchSetFromLocs(data []byte, locs [][2]int, maxCols int, needLineNums bool) MatchSet {
	ms := MatchSet{Data: data}
	if len(locs) == 0 {
		return ms
	}

	cursor := newLineCursor(data)
	ms.Matches = make([]Match, 0, len(locs))
	ms.Positions = make([][2]int, 0, len(locs))

	i := 0
	for i < len(locs) {
		_, byteOffset, lineNum := cursor.lineFromPos(locs[i][0])
		lineStart := int(byteOffset)
		lineEnd := cursor.lineEnd

		posIdx := len(ms.Positions)
		count := 0
		for i < len(locs) && locs[i][0] < lineEnd {
			ms.Positions = append(ms.Positions, locs[i])
			count++
			i++
		}

		lineLen := lineEnd - lineStart
		if maxCols > 0 && lineLen > maxCols {
			lineLen = maxCols
		}
		if !needLineNums {
			lineNum = 0
		}

		ms.Matches = append(ms.Matches, Match{
			LineNum:    lineNum,
			LineStart:  lineStart,
			LineLen:    lineLen,
			ByteOffset: byteOffset,
			PosIdx:     posIdx,
			PosCount:   count,
		})
	}

	return ms
}

// matchSetFromLocsMultiline builds one Match per [start,end) range without
// grouping by line: each match's snippet is the matched span itself, which
// may carry embedded newlines when the pattern spans multiple lines.
// LineNum still identifies the line the match starts on so the printer can
// label it, but unlike matchSetFromLocs it is never used to clip LineLen.
func matchSetFromLocsMultiline(data []byte, locs [][2]int, maxCols int, needLineNums bool) MatchSet {
	ms := MatchSet{Data: data}
	if len(locs) == 0 {
		return ms
	}

	cursor := newLineCursor(data)
	ms.Matches = make([]Match, 0, len(locs))
	ms.Positions = make([][2]int, 0, len(locs))

	for _, loc := range locs {
		_, _, lineNum := cursor.lineFromPos(loc[0])
		if !needLineNums {
			lineNum = 0
		}

		lineLen := loc[1] - loc[0]
		if maxCols > 0 && lineLen > maxCols {
			lineLen = maxCols
		}

		posIdx := len(ms.Positions)
		ms.Positions = append(ms.Positions, loc)

		ms.Matches = append(ms.Matches, Match{
			LineNum:    lineNum,
			LineStart:  loc[0],
			LineLen:    lineLen,
			ByteOffset: int64(loc[0]),
			PosIdx:     posIdx,
			PosCount:   1,
		})
	}

	return ms
}

// matchSetFromOffsets is matchSetFromLocs specialized for fixed-width hits
// (every occurrence is patLen bytes long), as produced by the Boyer-Moore
// literal matcher.
func matchSetFromOffsets(data []byte, offsets []int, patLen int, maxCols int, needLineNums bool) MatchSet {
	if len(offsets) == 0 {
		return MatchSet{Data: data}
	}
	locs := make([][2]int, len(offsets))
	for i, off := range offsets {
		locs[i] = [2]int{off, off + patLen}
	}
	return matchSetFromLocs(data, locs, maxCols, needLineNums)
}

// countUniqueLines counts the number of distinct lines containing at least
// one of the given sorted match-start offsets.
func countUniqueLines(data []byte, offsets []int) int {
	if len(offsets) == 0 {
		return 0
	}
	count := 0
	lastLineEnd := -1
	for _, off := range offsets {
		lineStart := 0
		if off > 0 {
			if i := bytes.LastIndexByte(data[:off], '\n'); i >= 0 {
				lineStart = i + 1
			}
		}
		if lineStart <= lastLineEnd {
			continue
		}
		lineEnd := len(data)
		if i := bytes.IndexByte(data[off:], '\n'); i >= 0 {
			lineEnd = off + i
		}
		lastLineEnd = lineEnd
		count++
	}
	return count
}

// countLocsUniqueLines is countUniqueLines specialized for [start,end) ranges;
// only the range's start matters for line attribution.
func countLocsUniqueLines(data []byte, locs [][2]int) int {
	if len(locs) == 0 {
		return 0
	}
	offsets := make([]int, len(locs))
	for i, l := range locs {
		offsets[i] = l[0]
	}
	return countUniqueLines(data, offsets)
}

// countInvert counts the lines in data for which isNonMatch reports true,
// implementing the line-complement rule of §4.5's invert-match post-processing.
func countInvert(data []byte, isNonMatch func(line []byte) bool) int {
	count := 0
	remaining := data
	for len(remaining) > 0 {
		idx := bytes.IndexByte(remaining, '\n')
		var line []byte
		if idx >= 0 {
			line = remaining[:idx]
			remaining = remaining[idx+1:]
		} else {
			line = remaining
			remaining = nil
		}
		if isNonMatch(line) {
			count++
		}
	}
	return count
}
