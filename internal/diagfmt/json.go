package diagfmt

import (
	"encoding/json"
	"io"

	"hdrgen/internal/diag"
)

// SubjectJSON identifies the item a diagnostic is about.
type SubjectJSON struct {
	Item uint32 `json:"item"`
	Name string `json:"name,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Subject  *SubjectJSON `json:"subject,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Unit        string           `json:"unit"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	if bag == nil {
		return DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	}
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
		}
		if !d.Subject.IsUnit() {
			dj.Subject = &SubjectJSON{Item: uint32(d.Subject.Item), Name: d.Subject.Name}
		}
		if (opts.IncludeNotes || d.Code == diag.ObsTimings) && len(d.Notes) > 0 {
			dj.Notes = make([]string, len(d.Notes))
			for j, n := range d.Notes {
				dj.Notes[j] = n.Msg
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Unit:        FormatPath(bag.Unit, opts.PathMode, opts.BaseDir),
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes the diagnostics of several units as one JSON array, in the
// order given.
func JSON(w io.Writer, bags []*diag.Bag, opts JSONOpts) error {
	output := make([]DiagnosticsOutput, 0, len(bags))
	for _, bag := range bags {
		output = append(output, BuildDiagnosticsOutput(bag, opts))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
