// Package searchctx bundles everything a search task needs instead of
// reaching for process-wide globals: the resolved Config, the root
// ignore set, the symlink-loop guard, the worker pool, the printer,
// and the logger. Tasks receive a *Context at construction and hold it
// for their entire lifetime.
package searchctx

import (
	"github.com/charmbracelet/log"

	"github.com/mlathara/axgrep/internal/config"
	"github.com/mlathara/axgrep/internal/ignoreset"
	"github.com/mlathara/axgrep/internal/matcher"
	"github.com/mlathara/axgrep/internal/pool"
	"github.com/mlathara/axgrep/internal/printer"
	"github.com/mlathara/axgrep/internal/symloop"
)

// Context is the shared, read-only (after construction) state threaded
// through every directory and file task of one search invocation.
type Context struct {
	Config  config.Config
	Matcher matcher.Matcher
	Printer *printer.Printer
	Pool    *pool.Pool
	Guard   *symloop.Guard
	Root    *ignoreset.IgnoreSet
	Logger  *log.Logger
}

// New builds a Context for one invocation of cfg. matcher and printer
// are constructed by the caller (cmd/axgrep or internal/cli), since
// their construction can fail and Context itself never does.
func New(cfg config.Config, m matcher.Matcher, p *printer.Printer, logger *log.Logger) *Context {
	workers := cfg.Workers
	return &Context{
		Config:  cfg,
		Matcher: m,
		Printer: p,
		Pool:    pool.New(workers),
		Guard:   symloop.NewGuard(),
		Logger:  logger,
	}
}
