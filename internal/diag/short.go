package diag

import (
	"fmt"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation intended for CLI short output and golden files:
//
//	<severity> <CODE> <unit>: <message> [<subject>]
//
// Entries keep the bag order; call Sort first for a canonical order.
func FormatShortDiagnostics(unit string, diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s: %s", severityLabel(d.Severity), d.Code.ID(), unit, flattenMessage(d.Message))
		if !d.Subject.IsUnit() {
			fmt.Fprintf(&b, " [%s]", d.Subject)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s: %s", d.Code.ID(), unit, flattenMessage(n.Msg))
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	default:
		return strings.ToLower(sev.String())
	}
}

func flattenMessage(msg string) string {
	if msg == "" {
		return ""
	}
	return strings.Join(strings.Fields(msg), " ")
}
