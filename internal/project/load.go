package project

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"hdrgen/internal/ast"
)

// Format is the serialization of a resolved unit.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatMsgpack
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownFormat is returned for unit files with an unrecognized extension.
	ErrUnknownFormat = errors.New("unknown unit format")
	// ErrDecode wraps every decoder failure.
	ErrDecode = errors.New("cannot decode unit")
	// ErrRead wraps file system failures while loading.
	ErrRead = errors.New("cannot read unit")
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".mp", ".msgpack":
		return FormatMsgpack
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Loaded is a unit read from disk together with the digest of its bytes.
type Loaded struct {
	Unit   *ast.Unit
	Format Format
	Digest Digest
}

// LoadUnit reads, decodes and validates the unit at path.
func LoadUnit(path string) (*Loaded, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnknownFormat, "%s", path),
			"use one of .json, .mp, .msgpack, .yaml, .yml",
		)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrRead)
	}
	u, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	u.Path = path
	if err := Validate(u); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &Loaded{Unit: u, Format: format, Digest: DigestBytes(data)}, nil
}

// Decode parses a unit from data in the given format. It does not validate.
func Decode(data []byte, format Format) (*ast.Unit, error) {
	var u ast.Unit
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&u)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &u)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&u)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %d", format)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s", format), ErrDecode)
	}
	return &u, nil
}

// Encode serializes a unit; the inverse of Decode.
func Encode(u *ast.Unit, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(u, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(u)
	case FormatYAML:
		return yaml.Marshal(u)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %d", format)
	}
}
