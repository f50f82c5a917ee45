package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	SetWriter(&buf)
	defer SetWriter(nil)

	fn()
	return buf.String()
}

func TestSuccess(t *testing.T) {
	got := capture(t, func() { Success("done") })
	assert.Contains(t, got, "done")
	assert.Contains(t, got, "✓")
}

func TestError(t *testing.T) {
	got := capture(t, func() { Error("boom") })
	assert.Contains(t, got, "boom")
	assert.Contains(t, got, "✗")
}

func TestWarn(t *testing.T) {
	got := capture(t, func() { Warn("formatter failed") })
	assert.Contains(t, got, "formatter failed")
}

func TestStepIndents(t *testing.T) {
	got := capture(t, func() { Step("cd myapp") })
	assert.Contains(t, got, "  cd myapp")
}

func TestVerboseRespectsMode(t *testing.T) {
	got := capture(t, func() {
		SetVerbose(false)
		Verbose("hidden")
	})
	assert.Empty(t, got)

	got = capture(t, func() {
		SetVerbose(true)
		defer SetVerbose(false)
		Verbose("shown")
	})
	assert.Contains(t, got, "shown")
}
