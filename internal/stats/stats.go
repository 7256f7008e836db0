// Package stats tracks per-run search counters: files scanned, files
// skipped (binary/ignored/symlink-loop), bytes read, and matches found.
// One Stats is handed to each pool worker; Merge sums a worker's local
// counts into a shared total at shutdown, avoiding contention on hot
// counters during the search itself.
package stats

import "sync/atomic"

// Stats accumulates counters for a single worker or, after Merge, for
// an entire run. Safe for concurrent use via atomic fields.
type Stats struct {
	FilesScanned  atomic.Int64
	FilesSkipped  atomic.Int64
	FilesIgnored  atomic.Int64
	BytesRead     atomic.Int64
	MatchesFound  atomic.Int64
	LinesMatched  atomic.Int64
	SymlinkLoops  atomic.Int64
	Errors        atomic.Int64
}

// New returns a zeroed Stats.
func New() *Stats {
	return &Stats{}
}

// Merge adds other's counters into s. Used to fold a per-worker Stats
// into the run-wide total once the worker has finished.
func (s *Stats) Merge(other *Stats) {
	s.FilesScanned.Add(other.FilesScanned.Load())
	s.FilesSkipped.Add(other.FilesSkipped.Load())
	s.FilesIgnored.Add(other.FilesIgnored.Load())
	s.BytesRead.Add(other.BytesRead.Load())
	s.MatchesFound.Add(other.MatchesFound.Load())
	s.LinesMatched.Add(other.LinesMatched.Load())
	s.SymlinkLoops.Add(other.SymlinkLoops.Load())
	s.Errors.Add(other.Errors.Load())
}

// Snapshot is a point-in-time, non-atomic copy of Stats suitable for
// formatting or passing across a channel.
type Snapshot struct {
	FilesScanned int64
	FilesSkipped int64
	FilesIgnored int64
	BytesRead    int64
	MatchesFound int64
	LinesMatched int64
	SymlinkLoops int64
	Errors       int64
}

// Snapshot reads all counters into a plain struct.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		FilesScanned: s.FilesScanned.Load(),
		FilesSkipped: s.FilesSkipped.Load(),
		FilesIgnored: s.FilesIgnored.Load(),
		BytesRead:    s.BytesRead.Load(),
		MatchesFound: s.MatchesFound.Load(),
		LinesMatched: s.LinesMatched.Load(),
		SymlinkLoops: s.SymlinkLoops.Load(),
		Errors:       s.Errors.Load(),
	}
}
