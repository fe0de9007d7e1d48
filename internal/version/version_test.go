package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func override(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })
	Version, GitCommit = v, commit
}

func TestDefaultValues(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotContains(t, Version, "\x1b[", "Version must stay plain for cache keys")
}

func TestColoredPlainWhenDisabled(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	override(t, "1.2.3-rc1", "")
	assert.Equal(t, "1.2.3-rc1", Colored())

	Version = "weird"
	assert.Equal(t, "weird", Colored())
}

func TestColoredWhenEnabled(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })

	override(t, "1.2.3", "")
	out := Colored()
	assert.Contains(t, out, "\x1b[")
	assert.NotEqual(t, "1.2.3", out)
}

func TestFingerprintChangesWithCommit(t *testing.T) {
	override(t, "1.0.0", "abc")
	a := Fingerprint()
	GitCommit = "def"
	assert.NotEqual(t, a, Fingerprint())
}
