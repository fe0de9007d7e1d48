package ast

// ItemID is the front end's stable identifier for an item. It is the key into
// the export set.
type ItemID uint32

const NoItemID ItemID = 0

func (id ItemID) IsValid() bool { return id != NoItemID }

// ExportSet is the read-only set of items reachable from outside the unit.
type ExportSet map[ItemID]struct{}

// NewExportSet builds a set from a list of ids.
func NewExportSet(ids []ItemID) ExportSet {
	set := make(ExportSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is exported. A nil set exports nothing.
func (s ExportSet) Contains(id ItemID) bool {
	_, ok := s[id]
	return ok
}
