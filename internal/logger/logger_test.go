package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	return &buf
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugAndInfo_Verbose(t *testing.T) {
	buf := capture(t, true)

	Debug("opened %s", "registry.db")
	Info("found %d files", 3)

	assert.Equal(t, "debug: opened registry.db\ninfo: found 3 files\n", buf.String())
}

func TestDebugAndInfo_Quiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("also hidden")

	assert.Zero(t, buf.Len())
}

func TestWarn_AlwaysPrints(t *testing.T) {
	buf := capture(t, false)

	Warn("config unavailable: %v", os.ErrNotExist)

	assert.Equal(t, "warning: config unavailable: file does not exist\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Pipeline Run")

	assert.Equal(t, "\n== Pipeline Run ==\n", buf.String())
}

func TestStage(t *testing.T) {
	buf := capture(t, true)

	Stage("redbook", "chunking")

	assert.Equal(t, "  redbook: chunking\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
