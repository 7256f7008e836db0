// Package filesearch wires a reader (internal/input), a matcher
// (internal/matcher), and binary detection together into the per-file
// search step that runs on each pool worker: read the file, classify
// it, run the match, and cap runaway match counts.
package filesearch

import (
	"github.com/mlathara/axgrep/internal/archive"
	"github.com/mlathara/axgrep/internal/input"
	"github.com/mlathara/axgrep/internal/matcher"
	"github.com/mlathara/axgrep/internal/stats"
)

// Mode selects how much work FindAll needs to do for a given invocation.
type Mode int

const (
	ModeFull  Mode = iota // extract every match (default output)
	ModeFiles             // stop at the first match (-l / --files-with-matches)
	ModeCount             // count matching lines only (-c)
)

// Result holds the outcome of searching a single file.
type Result struct {
	Path        string
	MatchSet    matcher.MatchSet
	MatchCount  int
	Binary      bool // content classified as binary and not printed
	BinaryMatch bool // a binary file matched; printer emits "Binary file ... matches."
	Err         error
	Closer      func() error
}

// HasMatch reports whether this result represents a match, in whichever
// mode produced it.
func (r Result) HasMatch() bool {
	if r.Err != nil {
		return false
	}
	if r.Binary {
		return r.BinaryMatch
	}
	return r.MatchCount > 0 || r.MatchSet.HasMatch()
}

// Searcher runs the per-file search step: read, classify, match.
type Searcher struct {
	Reader         input.Reader
	Matcher        matcher.Matcher
	SearchBinary   bool // if true, don't skip binary files
	SearchZipFiles bool // if true, transparently decompress archives before matching
	MaxMatchesFile int  // 0 means unlimited
}

// New returns a Searcher reading via r and matching with m.
func New(r input.Reader, m matcher.Matcher) *Searcher {
	return &Searcher{Reader: r, Matcher: m}
}

// Search reads path, classifies it, and runs the matcher in the
// requested mode, updating ws with error/skipped/byte/match/matched-line
// counts. FilesScanned is not updated here.
func (s *Searcher) Search(path string, mode Mode, ws *stats.Stats) Result {
	res := Result{Path: path}

	rr, err := s.Reader.Read(path)
	if err != nil {
		res.Err = err
		ws.Errors.Add(1)
		return res
	}

	closeReader := func() {
		if rr.Closer != nil {
			rr.Closer()
		}
	}

	if rr.Data == nil {
		closeReader()
		return res
	}
	ws.BytesRead.Add(int64(len(rr.Data)))

	data := rr.Data
	if s.SearchZipFiles && archive.Detect(data) {
		expanded, derr := archive.Decompress(data)
		if derr != nil {
			res.Err = derr
			ws.Errors.Add(1)
			closeReader()
			return res
		}
		data = expanded
	}

	if !s.SearchBinary && IsBinary(data) {
		res.Binary = true
		ws.FilesSkipped.Add(1)
		if s.Matcher.MatchExists(data) {
			res.BinaryMatch = true
			ws.MatchesFound.Add(1)
		}
		closeReader()
		return res
	}

	switch mode {
	case ModeFiles:
		if s.Matcher.MatchExists(data) {
			res.MatchSet = matcher.MatchSet{Matches: []matcher.Match{{}}}
			ws.MatchesFound.Add(1)
		}
		closeReader()
	case ModeCount:
		res.MatchCount = s.capMatches(s.Matcher.CountAll(data))
		if res.MatchCount > 0 {
			ws.MatchesFound.Add(int64(res.MatchCount))
		}
		closeReader()
	default:
		ms := s.Matcher.FindAll(data)
		if s.MaxMatchesFile > 0 && ms.Len() > s.MaxMatchesFile {
			ms.Matches = ms.Matches[:s.MaxMatchesFile]
		}
		res.MatchSet = ms
		if ms.HasMatch() {
			ws.MatchesFound.Add(int64(ms.Len()))
			ws.LinesMatched.Add(int64(ms.Len()))
			// ms.Data aliases the buffer searched (rr.Data, or the
			// decompressed copy); keep it alive until the caller is
			// done formatting, then release it.
			res.Closer = closeReader
		} else {
			closeReader()
		}
	}

	return res
}

func (s *Searcher) capMatches(n int) int {
	if s.MaxMatchesFile > 0 && n > s.MaxMatchesFile {
		return s.MaxMatchesFile
	}
	return n
}
