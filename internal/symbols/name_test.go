package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hdrgen/internal/ast"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		attrs []ast.Attr
		want  Symbol
	}{
		{
			name:  "export name",
			attrs: []ast.Attr{ast.NameValue(ast.AttrExportName, "lib_hi")},
			want:  Symbol{Name: "lib_hi", Source: SourceExportName},
		},
		{
			name:  "export name wins over no_mangle",
			attrs: []ast.Attr{ast.Marker(ast.AttrNoMangle), ast.NameValue(ast.AttrExportName, "lib_hi")},
			want:  Symbol{Name: "lib_hi", Source: SourceExportName},
		},
		{
			name:  "export name kept verbatim",
			attrs: []ast.Attr{ast.NameValue(ast.AttrExportName, "Weird$Name")},
			want:  Symbol{Name: "Weird$Name", Source: SourceExportName},
		},
		{
			name:  "no_mangle",
			attrs: []ast.Attr{ast.Marker("inline"), ast.Marker(ast.AttrNoMangle)},
			want:  Symbol{Name: "hi", Source: SourceNoMangle},
		},
		{
			name:  "export_name without value does not count",
			attrs: []ast.Attr{ast.Marker(ast.AttrExportName)},
			want:  Symbol{},
		},
		{
			name: "mangled",
			want: Symbol{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve("hi", tt.attrs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Source != SourceNone, got.Nameable())
		})
	}
}
