package printer

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// DefaultStyles returns the lipgloss styles applied when color output
// is enabled: match text in bold red, paths in magenta, line numbers in
// green.
func DefaultStyles() (match, path, lineNumber lipgloss.Style) {
	match = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	path = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	lineNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	return
}

// IsTerminal reports whether fd refers to a terminal, via the same
// TCGETS ioctl the teacher's output package used.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal reports whether os.Stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
