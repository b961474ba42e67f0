package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	msg := Message{
		Timestamp: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Tag:       "server",
		Message:   "started",
		LogTypes:  Warn,
	}
	assert.Equal(t, "2026-03-04 05:06:07 [server] WARN: started\n", format(msg))
}

func TestTypes_toString(t *testing.T) {
	assert.Equal(t, "INFO", Info.toString())
	assert.Equal(t, "ERROR", Error.toString())
	assert.Equal(t, "WARN", Warn.toString())
	assert.Equal(t, "FATAL", Fatal.toString())
	assert.Equal(t, "UNKNOWN", Types(42).toString())
}

func TestLogger_DevViewOutput(t *testing.T) {
	var view bytes.Buffer
	l := &Logger{view: &view, tag: "chat", dev: true}

	l.Info("Submit started:", "gpt-4o")
	l.Error("Submit failed:", "boom")

	assert.Equal(t,
		"[green]DEBUG (chat): Submit started: gpt-4o[-]\n[red]DEBUG (chat): Submit failed: boom[-]\n",
		view.String())
}

func TestLogger_SilentWhenNotDev(t *testing.T) {
	var view bytes.Buffer
	l := &Logger{view: &view, tag: "chat"}

	l.Warn("ignored")
	assert.Empty(t, view.String())
}

func TestNewLogger_BeforeInit(t *testing.T) {
	if logManager != nil {
		t.Skip("logger already initialised")
	}
	l := NewLogger("tag")
	assert.NotPanics(t, func() { l.Info("nothing happens") })
	assert.NotPanics(t, Close)
}
