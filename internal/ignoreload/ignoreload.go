// Package ignoreload reads ignore-pattern files from a directory and
// feeds them into an ignoreset.IgnoreSet. It understands the plain
// line-based format shared by .gitignore/.hgignore/.agignore/
// .git/info/exclude, and the binary key/value record format Subversion
// uses to store the svn:ignore property in .svn/dir-prop-base.
package ignoreload

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mlathara/axgrep/internal/ignoreset"
)

// Filenames lists the ignore-pattern files considered in each directory,
// in the order they are checked.
var Filenames = []string{
	".agignore",
	".gitignore",
	".git/info/exclude",
	".hgignore",
}

// LoadDir loads every recognized ignore file present in dir into ig,
// plus the Subversion dir-prop-base record if dir is under .svn control.
func LoadDir(ig *ignoreset.IgnoreSet, dir string) {
	for _, name := range Filenames {
		LoadFile(ig, filepath.Join(dir, name))
	}
	LoadSvnIgnore(ig, filepath.Join(dir, ".svn"))
}

// LoadFile reads a plain ignore file (one pattern per line, "#" comments,
// blank lines skipped) and adds each pattern to ig. Missing or unreadable
// files are silently skipped, matching the original tool's degrade-quietly
// behavior — an absent .gitignore is the common case, not an error.
func LoadFile(ig *ignoreset.IgnoreSet, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		ig.AddPattern(line)
	}
}

// LoadSvnIgnore reads the svn:ignore property out of a .svn directory's
// dir-prop-base file and adds each line of its value as a pattern.
//
// dir-prop-base stores properties as alternating K/V records:
//
//	K <keylen>\n<key>\nV <vallen>\n<value>\n
//
// repeated until EOF. We scan records looking for the key "svn:ignore";
// its value is a newline-separated list of glob patterns.
func LoadSvnIgnore(ig *ignoreset.IgnoreSet, svnDir string) {
	path := filepath.Join(svnDir, "dir-prop-base")
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		key, ok := readRecord(r, 'K')
		if !ok {
			return
		}
		val, ok := readRecord(r, 'V')
		if !ok {
			return
		}
		if key == "svn:ignore" {
			for _, line := range strings.Split(val, "\n") {
				if line != "" {
					ig.AddPattern(line)
				}
			}
			return
		}
	}
}

// readRecord reads one "<tag> <len>\n<payload>\n" record and returns its
// payload, or ok=false on EOF/malformed input.
func readRecord(r *bufio.Reader, tag byte) (string, bool) {
	header, err := r.ReadString('\n')
	if err != nil {
		return "", false
	}
	header = strings.TrimSuffix(header, "\n")

	prefix := fmt.Sprintf("%c ", tag)
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(header, prefix))
	if err != nil || n < 0 {
		return "", false
	}

	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return "", false
	}
	// Each payload is followed by a trailing newline before the next record.
	if _, err := r.ReadByte(); err != nil {
		return "", false
	}
	return string(buf), true
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
