package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevelFiltersLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(1)
	})

	SetLevel(2)
	buf.Reset()
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "[WARNING]")
	assert.False(t, IsDebug())

	SetLevel(0)
	assert.True(t, IsDebug())
	buf.Reset()
	Debugf("topic %s", "abc")
	assert.Contains(t, buf.String(), "topic abc")
}
