package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for recoverable findings; the item is skipped.
	SevWarning
	// SevError is fatal for the unit.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// IsFatal reports whether the severity stops generation of the unit.
func (s Severity) IsFatal() bool {
	return s >= SevError
}
