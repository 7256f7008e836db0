package walker

import (
	"regexp"
	"strings"
	"unsafe"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sys/unix"

	"github.com/mlathara/axgrep/internal/ignoreload"
	"github.com/mlathara/axgrep/internal/ignoreset"
	"github.com/mlathara/axgrep/internal/pool"
	"github.com/mlathara/axgrep/internal/stats"
	"github.com/mlathara/axgrep/internal/symloop"
)

// FileEntry represents a file discovered during directory traversal.
// MatchOnly is set when the entry was admitted through MatchFiles mode:
// the filename itself is the result and its content is never read.
type FileEntry struct {
	Path      string
	MatchOnly bool
}

// WalkOptions configures directory traversal behavior.
type WalkOptions struct {
	Recursive      bool
	NoIgnore       bool     // skip .gitignore/.agignore/.svn processing
	Hidden         bool     // include hidden files and directories
	FollowSymlinks bool     // follow symbolic links
	OneDev         bool     // don't descend into a directory on a different device than its root
	MaxDepth       int      // max directories below a root to descend into; <= 0 (including the unset zero value) means unlimited
	Globs          []string // include/exclude globs (prefix ! to exclude)
	Workers        int      // pool size; <= 0 picks runtime.NumCPU()

	FileSearchPattern   *regexp.Regexp // restrict search to filenames matching this pattern
	MatchFiles          bool           // print filenames matching FileSearchPattern rather than searching their content
	BinaryIgnorePattern *regexp.Regexp // filenames matching this pattern are skipped outright
	AckmateDirPattern   *regexp.Regexp // paths matching this pattern are excluded from the search
}

// Walk traverses directories and sends discovered files on the returned
// channel, dispatching per-directory work onto a pool.Pool so discovered
// subdirectories fan out across the same fixed set of workers that
// processed their parent. It uses raw getdents64 for Linux performance,
// respects ignore files unless NoIgnore is set, and skips hidden entries
// by default. When FollowSymlinks is set, a symloop.Guard prevents a
// symlink cycle from being walked forever.
func Walk(roots []string, opts WalkOptions) (<-chan FileEntry, <-chan error, func() *stats.Stats) {
	fileCh := make(chan FileEntry, 256)
	errCh := make(chan error, 16)
	p := pool.New(opts.Workers)

	if !opts.Recursive {
		go func() {
			defer close(fileCh)
			defer close(errCh)
			for _, root := range roots {
				var st unix.Stat_t
				if err := unix.Stat(root, &st); err != nil {
					errCh <- &WalkError{Path: root, Err: err}
					continue
				}
				if st.Mode&unix.S_IFMT == unix.S_IFREG {
					fileCh <- FileEntry{Path: root}
				}
			}
		}()
		return fileCh, errCh, func() *stats.Stats { return stats.New() }
	}

	w := &walker{
		fileCh:              fileCh,
		errCh:               errCh,
		pool:                p,
		guard:               symloop.NewGuard(),
		hidden:              opts.Hidden,
		noIgnore:            opts.NoIgnore,
		followSymlinks:      opts.FollowSymlinks,
		oneDev:              opts.OneDev,
		maxDepth:            opts.MaxDepth,
		globs:               opts.Globs,
		fileSearchPattern:   opts.FileSearchPattern,
		matchFiles:          opts.MatchFiles,
		binaryIgnorePattern: opts.BinaryIgnorePattern,
		ackmateDirPattern:   opts.AckmateDirPattern,
	}

	for _, root := range roots {
		var ig *ignoreset.IgnoreSet
		if !opts.NoIgnore {
			ig = ignoreset.Build(nil, root)
			ignoreload.LoadDir(ig, root)
			ig.Finalize()
		}
		var rootDev uint64
		if opts.OneDev {
			var st unix.Stat_t
			if err := unix.Stat(root, &st); err == nil {
				rootDev = uint64(st.Dev)
			}
		}
		p.Submit(w.dirTask(root, ig, 0, rootDev))
	}

	var total *stats.Stats
	done := make(chan struct{})
	go func() {
		total = p.Run()
		close(fileCh)
		close(errCh)
		close(done)
	}()

	// wait blocks until every directory task has finished (which happens
	// no later than fileCh/errCh closing) and returns the merged Stats.
	wait := func() *stats.Stats {
		<-done
		return total
	}

	return fileCh, errCh, wait
}

// walker holds the shared state for one recursive Walk invocation.
type walker struct {
	fileCh chan<- FileEntry
	errCh  chan<- error
	pool   *pool.Pool
	guard  *symloop.Guard

	hidden         bool
	noIgnore       bool
	followSymlinks bool
	oneDev         bool
	maxDepth       int // <= 0 means unlimited
	globs          []string

	fileSearchPattern   *regexp.Regexp
	matchFiles          bool
	binaryIgnorePattern *regexp.Regexp
	ackmateDirPattern   *regexp.Regexp
}

// dirTask returns a pool.Task that reads one directory's entries and
// dispatches files to fileCh and subdirectories back onto the pool.
// depth counts directories below the root that owns rootDev; rootDev
// is only meaningful when w.oneDev is set.
func (w *walker) dirTask(path string, ig *ignoreset.IgnoreSet, depth int, rootDev uint64) pool.Task {
	return func(ws *stats.Stats) {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME, 0)
		if err != nil {
			fd, err = unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY, 0)
			if err != nil {
				w.errCh <- &WalkError{Path: path, Err: err}
				ws.Errors.Add(1)
				return
			}
		}
		defer unix.Close(fd)

		buf := make([]byte, 32*1024)
		var dirents []Dirent

		for {
			n, err := unix.Getdents(fd, buf)
			if err != nil {
				w.errCh <- &WalkError{Path: path, Err: err}
				ws.Errors.Add(1)
				break
			}
			if n == 0 {
				break
			}
			dirents = ParseDirents(buf, n, dirents)
			for _, entry := range dirents {
				w.handleEntry(path, entry, ig, ws, depth, rootDev)
			}
		}
	}
}

func (w *walker) handleEntry(dirPath string, entry Dirent, ig *ignoreset.IgnoreSet, ws *stats.Stats, depth int, rootDev uint64) {
	fullPath := joinPath(dirPath, entry.Name)

	switch entry.Type {
	case DT_DIR:
		w.handleDir(fullPath, entry.Name, ig, ws, depth, rootDev, nil)
	case DT_REG:
		w.handleFile(fullPath, entry.Name, ig, ws)
	case DT_LNK:
		if !w.followSymlinks {
			return
		}
		var st unix.Stat_t
		if err := unix.Stat(fullPath, &st); err != nil {
			return // silently skip broken symlinks
		}
		switch st.Mode & unix.S_IFMT {
		case unix.S_IFREG:
			w.handleFile(fullPath, entry.Name, ig, ws)
		case unix.S_IFDIR:
			if !w.enterDir(st) {
				ws.SymlinkLoops.Add(1)
				return
			}
			w.handleDir(fullPath, entry.Name, ig, ws, depth, rootDev, &st)
		}
	case DT_UNKNOWN:
		var st unix.Stat_t
		if err := unix.Stat(fullPath, &st); err != nil {
			w.errCh <- &WalkError{Path: fullPath, Err: err}
			ws.Errors.Add(1)
			return
		}
		switch st.Mode & unix.S_IFMT {
		case unix.S_IFREG:
			w.handleFile(fullPath, entry.Name, ig, ws)
		case unix.S_IFDIR:
			w.handleDir(fullPath, entry.Name, ig, ws, depth, rootDev, &st)
		}
	}
}

// enterDir reports whether a directory reached via a followed symlink
// has not already been visited in this run, guarding against cycles.
func (w *walker) enterDir(st unix.Stat_t) bool {
	return w.guard.Enter(symloop.Key{Dev: uint64(st.Dev), Ino: st.Ino})
}

// handleDir admits or rejects a subdirectory and, if admitted, submits
// its own dirTask. st is the entry's stat info when already known (a
// followed symlink or a DT_UNKNOWN fallback); nil for a plain DT_DIR
// entry, in which case handleDir stats it itself only if w.oneDev needs
// the device number.
func (w *walker) handleDir(fullPath, name string, ig *ignoreset.IgnoreSet, ws *stats.Stats, depth int, rootDev uint64, st *unix.Stat_t) {
	if skipDir(name, w.hidden) {
		return
	}
	if ig != nil && ig.PathIgnored(fullPath, name, "", true) {
		ws.FilesIgnored.Add(1)
		return
	}
	if w.isGlobExcluded(name) {
		return
	}
	if w.ackmateDirPattern != nil && w.ackmateDirPattern.MatchString(fullPath) {
		return
	}
	if w.maxDepth > 0 && depth >= w.maxDepth {
		return
	}
	if w.oneDev {
		dev, ok := dirDevice(fullPath, st)
		if !ok || dev != rootDev {
			return
		}
	}

	var childIg *ignoreset.IgnoreSet
	if !w.noIgnore {
		childIg = ignoreset.Build(ig, name)
		ignoreload.LoadDir(childIg, fullPath)
		childIg.Finalize()
	}
	w.pool.Submit(w.dirTask(fullPath, childIg, depth+1, rootDev))
}

// dirDevice returns fullPath's device number, reusing st if the caller
// already stat'd the entry.
func dirDevice(fullPath string, st *unix.Stat_t) (uint64, bool) {
	if st != nil {
		return uint64(st.Dev), true
	}
	var s unix.Stat_t
	if err := unix.Stat(fullPath, &s); err != nil {
		return 0, false
	}
	return uint64(s.Dev), true
}

func (w *walker) handleFile(fullPath, name string, ig *ignoreset.IgnoreSet, ws *stats.Stats) {
	if !w.hidden && len(name) > 0 && name[0] == '.' {
		return
	}
	ext := fileExtension(name)
	if ig != nil && ig.PathIgnored(fullPath, name, ext, false) {
		ws.FilesIgnored.Add(1)
		return
	}
	if w.isGlobExcluded(name) {
		return
	}
	if w.ackmateDirPattern != nil && w.ackmateDirPattern.MatchString(fullPath) {
		return
	}
	if w.binaryIgnorePattern != nil && w.binaryIgnorePattern.MatchString(name) {
		return
	}
	if w.fileSearchPattern != nil {
		if !w.fileSearchPattern.MatchString(name) {
			return
		}
		if w.matchFiles {
			ws.FilesScanned.Add(1)
			w.fileCh <- FileEntry{Path: fullPath, MatchOnly: true}
			return
		}
	}
	ws.FilesScanned.Add(1)
	w.fileCh <- FileEntry{Path: fullPath}
}

func fileExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

// joinPath concatenates a directory and entry name with a single separator.
// Avoids filepath.Join overhead (no Clean, no validation) since we control
// the inputs: dirPath is always a valid directory path, name is a plain filename.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}

// skipDir returns true for directories that should be skipped.
// VCS directories (.git, .svn, .hg) are always skipped.
// Other hidden directories are skipped unless hidden is true.
func skipDir(name string, hidden bool) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	if !hidden && len(name) > 0 && name[0] == '.' {
		return true
	}
	return false
}

// isGlobExcluded checks if a filename matches any glob exclusion patterns.
// Globs prefixed with ! are exclusion patterns; others are inclusion patterns.
func (w *walker) isGlobExcluded(name string) bool {
	if len(w.globs) == 0 {
		return false
	}

	hasIncludes := false
	included := false
	for _, g := range w.globs {
		if strings.HasPrefix(g, "!") {
			if matchGlob(g[1:], name) {
				return true
			}
			continue
		}
		hasIncludes = true
		if matchGlob(g, name) {
			included = true
		}
	}

	return hasIncludes && !included
}

// matchGlob matches a name against a --glob pattern, delegating to
// doublestar so {a,b,c} alternatives and ** both work the same way
// they do in ignoreset's gitignore-pattern matching.
func matchGlob(pattern, name string) bool {
	matched, _ := doublestar.Match(pattern, name)
	return matched
}

// WalkError represents an error during directory traversal.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
