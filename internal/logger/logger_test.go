package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("step %d", 3)
	Info("root %.1f", 2.0)
	Warn("slope is zero")

	assert.Equal(t, "[DEBUG] step 3\n[INFO] root 2.0\n[WARN] slope is zero\n", buf.String())
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Solve")

	assert.Equal(t, "\n=== Solve ===\n", buf.String())
}

func TestStep(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Step(0, 0.5, -1.5, 1, 2)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Step(1, 2, 0, 1, 2)
	assert.Equal(t, "[DEBUG] step 1: x=2 f(x)=0.000000e+00 f'(x)=1.000000e+00 -> 2\n", buf.String())
}
