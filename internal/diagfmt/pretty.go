package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hdrgen/internal/diag"
)

type palette struct {
	err, warn, info, code, path, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:  mk(color.FgRed, color.Bold),
		warn: mk(color.FgYellow, color.Bold),
		info: mk(color.FgCyan),
		code: mk(color.Bold),
		path: mk(color.FgWhite, color.Bold),
		note: mk(color.FgBlue),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>: <SEV> <CODE>: <Message>
//	  --> <subject>
//	  = note: <note>
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	path := FormatPath(bag.Unit, opts.PathMode, opts.BaseDir)
	for _, d := range bag.Items() {
		head := fmt.Sprintf("%s: %s %s: ",
			pal.path.Sprint(path),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
		)
		indent := runewidth.StringWidth(path) + 2 + len(d.Severity.String()) + 1 + len(d.Code.ID()) + 2
		if _, err := fmt.Fprintln(w, head+wrap(d.Message, int(opts.Width), indent)); err != nil {
			return err
		}
		if !d.Subject.IsUnit() {
			if _, err := fmt.Fprintf(w, "  --> %s\n", d.Subject); err != nil {
				return err
			}
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("= note:"), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// wrap folds msg so that no line exceeds width display columns once the
// first line is prefixed by indent columns. Continuation lines are indented.
func wrap(msg string, width, indent int) string {
	if width <= 0 || indent+runewidth.StringWidth(msg) <= width {
		return msg
	}
	avail := width - indent
	if avail < 20 {
		avail = 20
	}
	var b strings.Builder
	line := 0
	for i, word := range strings.Fields(msg) {
		ww := runewidth.StringWidth(word)
		if i > 0 {
			if line+1+ww > avail {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(word)
		line += ww
	}
	return b.String()
}

// Short prints one line per diagnostic in the stable golden format.
func Short(w io.Writer, bag *diag.Bag, pathMode PathMode, baseDir string, withNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatShortDiagnostics(FormatPath(bag.Unit, pathMode, baseDir), bag.Items(), withNotes)
	_, err := fmt.Fprintln(w, out)
	return err
}
