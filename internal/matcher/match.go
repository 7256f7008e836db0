package matcher

// Match is a pointer-free struct representing a single matched (or context) line.
// Line content and positions are resolved via the owning MatchSet's shared backing arrays.
// Because Match contains no pointer types, a []Match does not cause GC scanning.
type Match struct {
	LineNum    int   // 1-based line number (0 = group separator)
	LineStart  int   // byte offset of line snippet start in MatchSet.Data
	LineLen    int   // length of line snippet in bytes
	ByteOffset int64 // byte offset of line start within the original file
	PosIdx     int   // start index into MatchSet.Positions
	PosCount   int   // number of highlight positions for this match
	IsContext  bool
}

// MatchSet holds matches and the shared backing data they reference.
// Only MatchSet contains pointer types — individual Match structs are pointer-free,
// so the GC scans O(1) pointers regardless of match count.
type MatchSet struct {
	Data      []byte   // the file data buffer (matches reference offsets into this)
	Matches   []Match  // pointer-free match structs
	Positions [][2]int // shared positions array; each match indexes a sub-range
}

// Len returns the number of matches.
func (ms *MatchSet) Len() int {
	return len(ms.Matches)
}

// LineBytes returns the line content for match at index i.
func (ms *MatchSet) LineBytes(i int) []byte {
	m := &ms.Matches[i]
	return ms.Data[m.LineStart : m.LineStart+m.LineLen]
}

// MatchPositions returns the highlight positions for match at index i.
func (ms *MatchSet) MatchPositions(i int) [][2]int {
	m := &ms.Matches[i]
	if m.PosCount == 0 {
		return nil
	}
	return ms.Positions[m.PosIdx : m.PosIdx+m.PosCount]
}

// HasMatch returns true if the set contains at least one match.
func (ms *MatchSet) HasMatch() bool {
	return len(ms.Matches) > 0
}

// Matcher finds pattern matches in data.
type Matcher interface {
	// FindAll scans data (full file content) and returns all matches.
	FindAll(data []byte) MatchSet

	// MatchExists returns true if there is at least one match in data.
	MatchExists(data []byte) bool

	// CountAll returns the number of matching lines in data.
	CountAll(data []byte) int

	// FindLine checks a single line for matches.
	// lineNum is 1-based, byteOffset is the offset of the line start in the file.
	FindLine(line []byte, lineNum int, byteOffset int64) (MatchSet, bool)
}
