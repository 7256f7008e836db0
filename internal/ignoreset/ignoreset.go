// Package ignoreset classifies and matches the ignore rules collected
// for a single directory during a recursive search: file extensions,
// bare names, slash-anchored names, and glob patterns that need real
// matching (plain or slash-anchored). Each directory's IgnoreSet links
// to its parent's, so a file is ignored if it matches any rule from the
// directory it lives in up to the search root.
package ignoreset

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreSet holds the classified ignore rules loaded for one directory.
type IgnoreSet struct {
	extensions   []string // sorted, binary-searched
	names        []string // sorted, binary-searched
	slashNames   []string // sorted, binary-searched
	regexes      []string // glob patterns matched against the bare filename
	slashRegexes []string // glob patterns matched against the path relative to AbsPath

	dirname string
	absPath string // path of this directory relative to the search root

	parent *IgnoreSet

	// unsorted staging area populated by AddPattern, flushed by Finalize.
	rawNames      []string
	rawSlashNames []string
	built         bool
}

// Build constructs an IgnoreSet for dirname whose parent chain starts at
// parent. If parent is non-nil and empty (and itself has a parent),
// Build skips over it — "empty parent compression" — so a lookup never
// has to visit directories that contributed no rules at all.
func Build(parent *IgnoreSet, dirname string) *IgnoreSet {
	ig := &IgnoreSet{dirname: dirname}

	if parent != nil && parent.IsEmpty() && parent.parent != nil {
		ig.parent = parent.parent
	} else {
		ig.parent = parent
	}

	switch {
	case parent != nil && parent.absPath != "":
		ig.absPath = parent.absPath + "/" + dirname
	case dirname == ".":
		ig.absPath = ""
	default:
		ig.absPath = dirname
	}

	return ig
}

// IsEmpty reports whether this directory contributed no ignore rules at all.
func (ig *IgnoreSet) IsEmpty() bool {
	return len(ig.extensions)+len(ig.names)+len(ig.slashNames)+len(ig.regexes)+len(ig.slashRegexes) == 0
}

// isGlobLike reports whether pattern needs real glob matching rather
// than a plain string-equality lookup.
func isGlobLike(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// AddPattern classifies a single ignore-file line into the appropriate
// bucket, mirroring the extension/name/slash-name/regex/slash-regex
// split used during traversal's hot filename_filter path.
func (ig *IgnoreSet) AddPattern(pattern string) {
	pattern = strings.TrimPrefix(pattern, "./")
	pattern = strings.TrimRight(pattern, " \t\r\n")
	if pattern == "" {
		return
	}

	if isGlobLike(pattern) {
		if len(pattern) > 2 && pattern[0] == '*' && pattern[1] == '.' && !isGlobLike(pattern[2:]) {
			ig.extensions = append(ig.extensions, pattern[2:])
			return
		}
		if pattern[0] == '/' {
			ig.slashRegexes = append(ig.slashRegexes, pattern[1:])
			return
		}
		ig.regexes = append(ig.regexes, pattern)
		return
	}

	if pattern[0] == '/' {
		ig.rawSlashNames = append(ig.rawSlashNames, pattern[1:])
		return
	}
	ig.rawNames = append(ig.rawNames, pattern)
}

// Finalize sorts the name buckets for binary search and must be called
// once all patterns have been added and before any PathIgnored lookups.
func (ig *IgnoreSet) Finalize() {
	if ig.built {
		return
	}
	ig.names = append(ig.names, ig.rawNames...)
	ig.slashNames = append(ig.slashNames, ig.rawSlashNames...)
	sort.Strings(ig.extensions)
	sort.Strings(ig.names)
	sort.Strings(ig.slashNames)
	ig.rawNames = nil
	ig.rawSlashNames = nil
	ig.built = true
}

func binarySearch(sorted []string, target string) bool {
	i := sort.SearchStrings(sorted, target)
	return i < len(sorted) && sorted[i] == target
}

// PathIgnored reports whether relPath (the path of an entry relative to
// the search root, without a leading "./") is ignored by this IgnoreSet
// or any of its ancestors. isDir selects whether a trailing slash should
// be considered when checking name-based rules.
func (ig *IgnoreSet) PathIgnored(relPath, filename, extension string, isDir bool) bool {
	for cur := ig; cur != nil; cur = cur.parent {
		if extension != "" && binarySearch(cur.extensions, extension) {
			return true
		}
		if binarySearch(cur.names, filename) {
			return true
		}
		if isDir && binarySearch(cur.names, filename+"/") {
			return true
		}
		if cur.matchesInDir(relPath, filename, isDir) {
			return true
		}
	}
	return false
}

// matchesInDir checks the slash-anchored and regex buckets for one layer.
func (ig *IgnoreSet) matchesInDir(relPath, filename string, isDir bool) bool {
	slashRel := relPath
	if ig.absPath != "" {
		slashRel = strings.TrimPrefix(relPath, ig.absPath)
		slashRel = strings.TrimPrefix(slashRel, "/")
	}

	if binarySearch(ig.slashNames, slashRel) {
		return true
	}
	if isDir && binarySearch(ig.slashNames, slashRel+"/") {
		return true
	}
	for _, pat := range ig.slashRegexes {
		if ok, _ := doublestar.Match(pat, slashRel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(pat, slashRel+"/"); ok {
				return true
			}
		}
	}
	for _, pat := range ig.regexes {
		if ok, _ := doublestar.Match(pat, filename); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(pat, filename+"/"); ok {
				return true
			}
		}
	}
	return false
}
