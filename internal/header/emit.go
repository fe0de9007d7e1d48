// Package header serializes export declarations into a guarded C header.
package header

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"hdrgen/internal/cabi"
	"hdrgen/internal/export"
	"hdrgen/internal/layout"
)

// DefaultBanner is the comment marking the header as generated.
const DefaultBanner = "auto generated"

const indent = "    "

// Options tune the emitted text. The zero value produces the plain form.
type Options struct {
	// GuardPrefix is prepended to the unit name in the include guard.
	GuardPrefix string
	// Banner replaces DefaultBanner when set.
	Banner string
	// Layout, when set, appends _Static_assert size checks after every
	// struct, computed for Layout.Target.
	Layout *layout.LayoutEngine
}

// Fingerprint identifies the options for header caching: two option sets
// with equal fingerprints render identical text for identical input.
func (o Options) Fingerprint() string {
	triple := ""
	if o.Layout != nil {
		triple = o.Layout.Target.Triple
	}
	return fmt.Sprintf("guard=%q;banner=%q;layout=%q", o.GuardPrefix, o.banner(), triple)
}

func (o Options) banner() string {
	if o.Banner == "" {
		return DefaultBanner
	}
	return o.Banner
}

type emitter struct {
	opts Options
	buf  strings.Builder
}

// Render returns the header text for unitName and decls. Declarations are
// written in the order given.
func Render(unitName string, decls []export.Decl, opts Options) (string, error) {
	e := &emitter{opts: opts}
	e.emitPreamble(unitName)
	for i := range decls {
		if err := e.emitDecl(&decls[i]); err != nil {
			return "", err
		}
	}
	e.emitTrailer()
	return e.buf.String(), nil
}

// Emit renders the header and writes it to w.
func Emit(w io.Writer, unitName string, decls []export.Decl, opts Options) error {
	text, err := Render(unitName, decls, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return errors.Wrap(err, "write header")
	}
	return nil
}

func (e *emitter) emitPreamble(unitName string) {
	guard := GuardName(e.opts.GuardPrefix, unitName)
	fmt.Fprintf(&e.buf, "#ifndef %s\n", guard)
	fmt.Fprintf(&e.buf, "#define %s\n", guard)
	e.buf.WriteString("#include <stdint.h>\n\n")
	fmt.Fprintf(&e.buf, "// %s\n\n", e.opts.banner())
}

func (e *emitter) emitTrailer() {
	e.buf.WriteString("\n#endif\n")
}

func (e *emitter) emitDecl(d *export.Decl) error {
	switch d.Kind {
	case export.DeclFn:
		e.emitFn(d)
		return nil
	case export.DeclStruct:
		return e.emitStruct(d)
	default:
		return errors.Newf("declaration %s has invalid kind %d", d.Name, d.Kind)
	}
}

func (e *emitter) emitFn(d *export.Decl) {
	params := "void"
	if len(d.Params) > 0 {
		parts := make([]string, 0, len(d.Params))
		for _, p := range d.Params {
			parts = append(parts, p.String())
		}
		params = strings.Join(parts, ", ")
	}
	fmt.Fprintf(&e.buf, "%s %s(%s);\n", d.Result, d.Name, params)
}

func (e *emitter) emitStruct(d *export.Decl) error {
	fmt.Fprintf(&e.buf, "struct %s {\n", d.Name)
	for _, f := range d.Fields {
		fmt.Fprintf(&e.buf, "%s%s %s;\n", indent, f.Type, f.Name)
	}
	e.buf.WriteString("};\n")
	if e.opts.Layout == nil {
		return nil
	}

	types := make([]cabi.Type, 0, len(d.Fields))
	for _, f := range d.Fields {
		types = append(types, f.Type)
	}
	l, err := e.opts.Layout.StructLayout(types)
	if err != nil {
		return errors.Wrapf(err, "layout of struct %s", d.Name)
	}
	fmt.Fprintf(&e.buf, "_Static_assert(sizeof(struct %s) == %d, \"struct %s size on %s\");\n",
		d.Name, l.Size, d.Name, e.opts.Layout.Target.Triple)
	return nil
}
