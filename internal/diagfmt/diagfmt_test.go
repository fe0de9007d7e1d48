package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrgen/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Unit = "/home/user/project/units/lib.json"
	bag.Add(diag.New(diag.SevWarning, diag.HdrUnsupportedItemKind,
		diag.Subject{Item: 4, Name: "Color"}, "enum Color is not supported").
		WithNote("only functions and structs are exported"))
	bag.Add(diag.NewError(diag.HdrMissingUnitName, diag.Subject{}, "unit has no unit_name attribute"))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	base := "/home/user/project"
	path := "/home/user/project/units/lib.json"
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, path},
		{"relative", PathModeRelative, filepath.Join("units", "lib.json")},
		{"basename", PathModeBasename, "lib.json"},
		{"auto inside base", PathModeAuto, filepath.Join("units", "lib.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPath(path, tt.mode, base))
		})
	}
	assert.Equal(t, "/elsewhere/x.json", FormatPath("/elsewhere/x.json", PathModeAuto, base))
	assert.Equal(t, "<input>", FormatPath("", PathModeAuto, base))
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, ShowNotes: true}))
	want := "lib.json: WARNING HDR1003: enum Color is not supported\n" +
		"  --> Color (item#4)\n" +
		"  = note: only functions and structs are exported\n" +
		"lib.json: ERROR HDR1005: unit has no unit_name attribute\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename}))
	assert.NotContains(t, buf.String(), "note:")

	buf.Reset()
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPrettyWraps(t *testing.T) {
	msg := strings.Repeat("word ", 30)
	out := wrap(strings.TrimSpace(msg), 60, 10)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 1)
	for i, l := range lines {
		limit := 50
		if i > 0 {
			assert.True(t, strings.HasPrefix(l, strings.Repeat(" ", 10)))
			limit = 60
		}
		assert.LessOrEqual(t, len(l), limit)
	}
	assert.Equal(t, "short", wrap("short", 60, 10))
	assert.Equal(t, "no width", wrap("no width", 0, 10))
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, sampleBag(), PathModeBasename, "", false))
	assert.Equal(t,
		"warning HDR1003 lib.json: enum Color is not supported [Color (item#4)]\n"+
			"error HDR1005 lib.json: unit has no unit_name attribute\n",
		buf.String())

	buf.Reset()
	require.NoError(t, Short(&buf, diag.NewBag(1), PathModeBasename, "", false))
	assert.Empty(t, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []*diag.Bag{sampleBag(), nil}, JSONOpts{PathMode: PathModeBasename, Max: 1}))

	var out []DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "lib.json", out[0].Unit)
	require.Equal(t, 1, out[0].Count)
	d := out[0].Diagnostics[0]
	assert.Equal(t, "WARNING", d.Severity)
	assert.Equal(t, "HDR1003", d.Code)
	require.NotNil(t, d.Subject)
	assert.Equal(t, "Color", d.Subject.Name)
	assert.Empty(t, d.Notes)
	assert.Zero(t, out[1].Count)

	full := BuildDiagnosticsOutput(sampleBag(), JSONOpts{IncludeNotes: true})
	assert.Equal(t, []string{"only functions and structs are exported"}, full.Diagnostics[0].Notes)
	assert.Nil(t, full.Diagnostics[1].Subject)
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "hdrgen", ToolVersion: "1.0", InvocationArgs: []string{"gen"}}
	require.NoError(t, Sarif(&buf, []*diag.Bag{sampleBag()}, meta))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "hdrgen", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "HDR1003", run.Tool.Driver.Rules[0].ID)
	require.Len(t, run.Results, 2)
	assert.Equal(t, "warning", run.Results[0].Level)
	assert.Equal(t, "error", run.Results[1].Level)
	assert.Equal(t, "Color", run.Results[0].Locations[0].LogicalLocations[0].Name)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
}
