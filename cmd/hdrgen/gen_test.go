package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrgen/internal/ast"
	"hdrgen/internal/diagfmt"
	"hdrgen/internal/pipeline"
	"hdrgen/internal/project"
	"hdrgen/internal/testkit"
	"hdrgen/internal/types"
)

// testCLI builds a fresh command tree so flag state never leaks between tests.
func testCLI(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	for _, k := range []string{project.EnvOutDir, project.EnvJobs, project.EnvLogJSON} {
		t.Setenv(k, "")
	}
	root := &cobra.Command{Use: "hdrgen", SilenceUsage: true, SilenceErrors: true}
	addPersistentFlags(root)
	var f genFlags
	root.AddCommand(newGenCmd(&f))
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	return root, &stdout, &stderr
}

// workspace writes a config with the cache off and returns its directory.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := project.DefaultConfig()
	cfg.Output.Dir = "include"
	cfg.Run.Cache = false
	require.NoError(t, project.WriteConfig(filepath.Join(dir, project.ConfigFileName), cfg))
	return dir
}

func saveUnit(t *testing.T, dir, file string, u *ast.Unit) string {
	t.Helper()
	data, err := project.Encode(u, project.FormatOf(file))
	require.NoError(t, err)
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func hiBye() *ast.Unit {
	b := testkit.NewUnit("rust_example")
	boolT := b.Prim(types.PrimBool)
	b.Fn("hi").NoMangle().Param("x", b.Prim(types.PrimInt)).Returns(b.Own(boolT)).Add()
	b.Fn("bye").NoMangle().Param("x", b.Ref(boolT)).Add()
	return b.Build()
}

func withEnum() *ast.Unit {
	b := testkit.NewUnit("colors")
	b.Fn("paint").NoMangle().Add()
	b.Enum("Color", true)
	return b.Build()
}

func withString() *ast.Unit {
	b := testkit.NewUnit("strings")
	b.Fn("greet").NoMangle().Param("s", b.Leaf(types.KindStr)).Add()
	return b.Build()
}

func TestGenWritesHeaders(t *testing.T) {
	dir := workspace(t)
	unit := saveUnit(t, dir, "rust_example.json", hiBye())
	root, _, stderr := testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName), "--ui", "off", "--color", "off", unit})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "include", "rust_example.h"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "uint8_t* hi(intptr_t);\nvoid bye(uint8_t*);\n")
	assert.Contains(t, stderr.String(), "1 unit, 1 written, 0 unchanged, 0 warnings, 0 failed")
}

func TestGenFlagsOverrideConfig(t *testing.T) {
	dir := workspace(t)
	unit := saveUnit(t, dir, "u.mp", hiBye())
	out := filepath.Join(dir, "elsewhere")
	root, _, _ := testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName),
		"--ui", "off", "--quiet", "-o", out, "--guard-prefix", "acme_", unit})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(out, "rust_example.h"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#ifndef ACME_RUST_EXAMPLE_H\n"))
}

func TestGenEnvOverridesConfig(t *testing.T) {
	dir := workspace(t)
	unit := saveUnit(t, dir, "u.json", hiBye())
	root, _, _ := testCLI(t)
	out := filepath.Join(dir, "from-env")
	t.Setenv(project.EnvOutDir, out)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName), "--ui", "off", unit})
	require.NoError(t, root.Execute())
	assert.FileExists(t, filepath.Join(out, "rust_example.h"))
}

func TestGenStdout(t *testing.T) {
	dir := workspace(t)
	a := saveUnit(t, dir, "a.json", hiBye())
	b := saveUnit(t, dir, "b.yaml", withEnum())
	root, stdout, stderr := testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName),
		"--stdout", "--format", "short", b, a})
	require.NoError(t, root.Execute())

	out := stdout.String()
	iColors := strings.Index(out, "#ifndef COLORS_H")
	iRust := strings.Index(out, "#ifndef RUST_EXAMPLE_H")
	require.GreaterOrEqual(t, iColors, 0)
	require.GreaterOrEqual(t, iRust, 0)
	assert.Less(t, iColors, iRust, "headers follow input order")
	assert.Contains(t, stderr.String(), "warning HDR1003")
	assert.NoDirExists(t, filepath.Join(dir, "include"))
}

func TestGenFailureExitsNonZero(t *testing.T) {
	dir := workspace(t)
	good := saveUnit(t, dir, "good.json", hiBye())
	bad := saveUnit(t, dir, "bad.json", withString())
	root, stdout, _ := testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName),
		"--ui", "off", "--format", "json", bad, good})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 units failed")
	assert.FileExists(t, filepath.Join(dir, "include", "rust_example.h"))
	assert.NoFileExists(t, filepath.Join(dir, "include", "strings.h"))

	var out []diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "HDR1004", out[0].Diagnostics[0].Code)
}

func TestGenWarnings(t *testing.T) {
	dir := workspace(t)
	unit := saveUnit(t, dir, "colors.json", withEnum())
	cfgPath := filepath.Join(dir, project.ConfigFileName)

	root, _, stderr := testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", "--color", "off", unit})
	require.NoError(t, root.Execute())
	assert.Contains(t, stderr.String(), "WARNING HDR1003")

	root, _, stderr = testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", "--no-warnings", unit})
	require.NoError(t, root.Execute())
	assert.NotContains(t, stderr.String(), "HDR1003")

	root, _, _ = testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", "--warnings-as-errors", unit})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 warning reported")
}

func TestGenCheck(t *testing.T) {
	dir := workspace(t)
	unit := saveUnit(t, dir, "u.json", hiBye())
	cfgPath := filepath.Join(dir, project.ConfigFileName)

	root, _, _ := testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", "--check", unit})
	require.Error(t, root.Execute())

	root, _, _ = testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", unit})
	require.NoError(t, root.Execute())

	root, _, stderr := testCLI(t)
	root.SetArgs([]string{"gen", "--config", cfgPath, "--ui", "off", "--check", unit})
	require.NoError(t, root.Execute())
	assert.Contains(t, stderr.String(), "0 stale")
}

func TestGenLayoutAsserts(t *testing.T) {
	dir := workspace(t)
	b := testkit.NewUnit("shapes")
	b.Struct("Point").Field("x", b.Prim(types.PrimInt32)).Field("p", b.Ptr(b.Prim(types.PrimUint8))).Add()
	unit := saveUnit(t, dir, "shapes.json", b.Build())

	root, stdout, _ := testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName),
		"--stdout", "--layout-asserts", "--target", "i686-linux-gnu", unit})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "_Static_assert(sizeof(struct Point) == 8")

	root, _, _ = testCLI(t)
	root.SetArgs([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName),
		"--stdout", "--target", "pdp11", unit})
	require.Error(t, root.Execute())
}

func TestGenFlagValidation(t *testing.T) {
	cases := map[string][]string{
		"stdout+check": {"--stdout", "--check"},
		"watch+check":  {"--watch", "--check"},
		"bad format":   {"--format", "xml"},
		"bad ui":       {"--ui", "sometimes"},
		"bad color":    {"--color", "rainbow"},
	}
	for name, flags := range cases {
		t.Run(name, func(t *testing.T) {
			dir := workspace(t)
			unit := saveUnit(t, dir, "u.json", hiBye())
			root, _, _ := testCLI(t)
			args := append([]string{"gen", "--config", filepath.Join(dir, project.ConfigFileName)}, flags...)
			root.SetArgs(append(args, unit))
			require.Error(t, root.Execute())
		})
	}
}

func TestGenHelpListsSkippedItems(t *testing.T) {
	root, stdout, _ := testCLI(t)
	root.SetArgs([]string{"gen", "--help"})
	require.NoError(t, root.Execute())
	help := stdout.String()
	assert.Contains(t, help, "structs with no fields (HDR1002)")
	assert.Contains(t, help, "ISO C has no\nempty struct")
	assert.Contains(t, help, "--ui mode")
}

func TestSummaryLine(t *testing.T) {
	report := &pipeline.Report{Units: []pipeline.UnitResult{
		{Written: true},
		{Cached: true},
		{Written: true, Cached: true},
	}}
	assert.Equal(t, "3 units, 2 written, 1 unchanged, 2 cached, 0 warnings, 0 failed",
		summaryLine(report, pipeline.ModeWrite))
	assert.Equal(t, "3 units, 2 cached, 0 warnings, 0 failed", summaryLine(report, pipeline.ModeStdout))
}

func TestUIModeFlag(t *testing.T) {
	var m uiMode
	assert.Equal(t, "auto", m.String())
	for in, want := range map[string]uiMode{"": uiAuto, "AUTO": uiAuto, " on ": uiOn, "off": uiOff} {
		require.NoError(t, m.Set(in))
		assert.Equal(t, want, m)
	}
	require.Error(t, m.Set("maybe"))

	var buf bytes.Buffer
	assert.True(t, uiOn.progressView(pipeline.ModeWrite, 1, &buf))
	assert.False(t, uiOn.progressView(pipeline.ModeStdout, 3, &buf))
	assert.False(t, uiOff.progressView(pipeline.ModeCheck, 10, &buf))
	// auto never draws on something that is not a terminal
	assert.False(t, uiAuto.progressView(pipeline.ModeWrite, 10, &buf))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--format", "json", "--all"})
	require.NoError(t, cmd.Execute())
	var r buildReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, "hdrgen", r.Tool)
	assert.NotEmpty(t, r.Version)
	assert.NotEmpty(t, r.Fingerprint)
	assert.NotEmpty(t, r.Commit)
	assert.Contains(t, r.Targets, "x86_64-linux-gnu")

	buf.Reset()
	r = buildReport{Tool: "hdrgen", Go: "go1.25.1", Targets: []string{"wasm32"}, Fingerprint: "1.2.3+", Built: "2026-01-01"}
	r.writePretty(&buf, "1.2.3")
	assert.Equal(t, "hdrgen 1.2.3 (go1.25.1)\n  targets  wasm32\n  cache    1.2.3+\n  built    2026-01-01\n", buf.String())

	cmd = newVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--format", "xml"})
	require.Error(t, cmd.Execute())
}
