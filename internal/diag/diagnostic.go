package diag

import (
	"fmt"

	"hdrgen/internal/ast"
)

// Subject is the item a diagnostic is about. The zero value means the unit
// as a whole.
type Subject struct {
	Item ast.ItemID
	Name string
}

// About builds a Subject for an item.
func About(it *ast.Item) Subject {
	if it == nil {
		return Subject{}
	}
	return Subject{Item: it.ID, Name: it.Name}
}

func (s Subject) IsUnit() bool {
	return !s.Item.IsValid() && s.Name == ""
}

func (s Subject) String() string {
	switch {
	case s.IsUnit():
		return "<unit>"
	case s.Name == "":
		return fmt.Sprintf("item#%d", s.Item)
	default:
		return fmt.Sprintf("%s (item#%d)", s.Name, s.Item)
	}
}

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  Subject
	Notes    []Note
}

func New(sev Severity, code Code, subject Subject, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  msg,
	}
}

func NewError(code Code, subject Subject, msg string) Diagnostic {
	return New(SevError, code, subject, msg)
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg})
	return d
}
