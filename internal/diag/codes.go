package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Header generation
	HdrInfo                Code = 1000
	HdrUnnameableSymbol    Code = 1001
	HdrUnsupportedShape    Code = 1002
	HdrUnsupportedItemKind Code = 1003
	HdrUnsupportedType     Code = 1004
	HdrMissingUnitName     Code = 1005
	HdrStaleHeader         Code = 1006
	HdrInvalidUnitName     Code = 1007
	HdrRenderError         Code = 1008

	// Input units
	UnitInfo          Code = 2000
	UnitDecodeError   Code = 2001
	UnitInvalidFormat Code = 2002
	UnitMalformed     Code = 2003

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		HdrInfo:                "Header generation information",
		HdrUnnameableSymbol:    "Exported C ABI function has a mangled name",
		HdrUnsupportedShape:    "Exported item has an unsupported shape",
		HdrUnsupportedItemKind: "Exported item kind is not supported",
		HdrUnsupportedType:     "Type has no C ABI representation",
		HdrMissingUnitName:     "Unit has no unit_name attribute",
		HdrStaleHeader:         "Header on disk is out of date",
		HdrInvalidUnitName:     "Unit name cannot be used as a header file name",
		HdrRenderError:         "Header could not be rendered",
		UnitInfo:               "Input unit information",
		UnitDecodeError:        "Input unit could not be decoded",
		UnitInvalidFormat:      "Unknown input unit format",
		UnitMalformed:          "Input unit is malformed",
		IOLoadFileError:        "I/O load file error",
		IOWriteFileError:       "I/O write file error",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("HDR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("UNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
