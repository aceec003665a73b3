// Package ui renders progress and tables for the terminal.
package ui

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

// Progress modes accepted by --progress.
const (
	ModeAuto  = "auto"
	ModeFancy = "fancy"
	ModePlain = "plain"
	ModeNone  = "none"
)

// Modes lists the progress modes, default first.
var Modes = []string{ModeAuto, ModeFancy, ModePlain, ModeNone}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewReporter returns the reporter for mode writing to out.
// ModeAuto picks the interactive view on terminals and plain bars elsewhere.
func NewReporter(mode string, out io.Writer) ports.Reporter {
	if mode == ModeAuto {
		mode = ModePlain
		if IsTerminal(out) {
			mode = ModeFancy
		}
	}
	switch mode {
	case ModeFancy:
		return NewTeaReporter(out)
	case ModePlain:
		return NewBarReporter(out)
	default:
		return NopReporter{}
	}
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Begin(string, int) {}

func (NopReporter) Task(int, string) ports.ProgressTask { return nopTask{} }

func (NopReporter) End() {}

type nopTask struct{}

func (nopTask) Status(string)   {}
func (nopTask) SetTotal(int64)  {}
func (nopTask) Advance(int64)   {}
func (nopTask) Complete(string) {}
func (nopTask) Fail(error)      {}
