package ast

// Attribute names the header generator understands.
const (
	// AttrUnitName on the unit names the destination header.
	AttrUnitName = "unit_name"
	// AttrExportName overrides the foreign symbol name of a function.
	AttrExportName = "export_name"
	// AttrNoMangle keeps the source identifier as the symbol name.
	AttrNoMangle = "no_mangle"
)

// Attr is a resolved attribute: either a bare marker (`no_mangle`) or a
// name/value pair (`export_name = "foo"`).
type Attr struct {
	Name     string `json:"name" msgpack:"name" yaml:"name"`
	Value    string `json:"value,omitempty" msgpack:"value,omitempty" yaml:"value,omitempty"`
	HasValue bool   `json:"has_value,omitempty" msgpack:"has_value,omitempty" yaml:"has_value,omitempty"`
}

// Marker builds a bare attribute.
func Marker(name string) Attr {
	return Attr{Name: name}
}

// NameValue builds a name = "value" attribute.
func NameValue(name, value string) Attr {
	return Attr{Name: name, Value: value, HasValue: true}
}

// FindValue returns the value of the first name = "value" attribute called name.
func FindValue(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name && a.HasValue {
			return a.Value, true
		}
	}
	return "", false
}

// Contains reports whether any attribute is called name, with or without a value.
func Contains(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
