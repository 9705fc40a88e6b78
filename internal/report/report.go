// Package report renders a ranked bug list for human or machine
// consumption (spec.md §6/§7), mirroring bin/main.py's print_bugs and
// the teacher's internal/display.TreeFormatter Format switch.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/standardbeagle/apisan/internal/store"
)

// Format selects how a bug list is rendered.
type Format string

const (
	// Text renders the teacher-CLI-banner line-per-bug format.
	Text Format = "text"
	// JSON renders the same bugs as a JSON array, for tooling.
	JSON Format = "json"
)

// Formatter renders bug reports for one checker run.
type Formatter struct {
	Format  Format
	Checker string
}

// NewFormatter returns a Formatter; an empty or unrecognized Format
// falls back to Text, matching TreeFormatter's default case.
func NewFormatter(format Format, checker string) *Formatter {
	if format != JSON {
		format = Text
	}
	return &Formatter{Format: format, Checker: checker}
}

// jsonBug is the wire shape for --json output: score, code, key, context,
// one object per bug, per SPEC_FULL.md §2.4.
type jsonBug struct {
	Score float64 `json:"score"`
	Code  string  `json:"code"`
	Key   string  `json:"key"`
	Ctx   string  `json:"context"`
}

// Write renders bugs to w in the Formatter's configured Format.
func (f *Formatter) Write(w io.Writer, bugs []store.BugReport) error {
	switch f.Format {
	case JSON:
		return f.writeJSON(w, bugs)
	default:
		return f.writeText(w, bugs)
	}
}

func (f *Formatter) writeText(w io.Writer, bugs []store.BugReport) error {
	if len(bugs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("apisan: checker=%s bugs=%d\n", f.Checker, len(bugs)))
	for _, b := range bugs {
		sb.WriteString(fmt.Sprintf("[%.3f] %s\n", b.Score, b.Code))
		if b.Key != "" || b.Ctx != "" {
			sb.WriteString(fmt.Sprintf("    key=%s ctx=%s\n", b.Key, b.Ctx))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *Formatter) writeJSON(w io.Writer, bugs []store.BugReport) error {
	out := make([]jsonBug, len(bugs))
	for i, b := range bugs {
		out[i] = jsonBug{Score: b.Score, Code: b.Code, Key: b.Key, Ctx: b.Ctx}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
