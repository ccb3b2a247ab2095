package tablewriter

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "ERROR"} {
		_, err := parseLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestFlushIsLogged(t *testing.T) {
	var out bytes.Buffer
	l := CreateDefaultLogger()
	l.SetOutput(&out)
	require.NoError(t, l.SetLogLevel("debug"))

	saved := GetLogger()
	SetLogger(l)
	defer SetLogger(saved)

	w, _ := newTestWriter(t, 1024, "A")
	require.NoError(t, w.WriteRow("a"))
	require.NoError(t, w.Flush())

	assert.Contains(t, out.String(), "flushed 1 rows (2 bytes)")
	assert.Contains(t, out.String(), string(WriterIDKey)+"="+w.ID())
	assert.Contains(t, out.String(), string(TableKey)+"=pgwriter")
}

func TestDebugWriterLogsBelowPackageLevel(t *testing.T) {
	var out bytes.Buffer
	l := CreateDefaultLogger()
	l.SetOutput(&out)
	require.NoError(t, l.SetLogLevel("error"))

	saved := GetLogger()
	SetLogger(l)
	defer SetLogger(saved)

	quiet, _ := newTestWriter(t, 1024, "A")
	require.NoError(t, quiet.WriteRow("a"))
	require.NoError(t, quiet.Flush())
	assert.Empty(t, out.String())

	cfg := newTestConfig(1024, "A")
	cfg.Debug = true
	w, err := NewTableWriter(context.Background(), cfg, &recordingCopier{})
	require.NoError(t, err)
	require.NoError(t, w.WriteRow("a"))
	require.NoError(t, w.Flush())
	assert.Contains(t, out.String(), "flushed 1 rows")
	assert.Contains(t, out.String(), string(WriterIDKey)+"="+w.ID())
	assert.NotContains(t, out.String(), quiet.ID())
}

func TestFlushFailureIsLogged(t *testing.T) {
	var out bytes.Buffer
	l := CreateDefaultLogger()
	l.SetOutput(&out)
	require.NoError(t, l.SetLogLevel("error"))

	saved := GetLogger()
	SetLogger(l)
	defer SetLogger(saved)

	w, copier := newTestWriter(t, 1024, "A")
	copier.failures = []error{errors.New("connection reset")}
	require.NoError(t, w.WriteRow("a"))
	require.Error(t, w.Flush())
	assert.Contains(t, out.String(), "level=ERROR")
	assert.Contains(t, out.String(), "connection reset")
}

func TestContextLoggerWithoutKeys(t *testing.T) {
	var out bytes.Buffer
	l := CreateDefaultLogger()
	l.SetOutput(&out)

	l.WithContext(context.Background()).Infoln("hello", "world")
	assert.Contains(t, out.String(), "hello world")
	assert.NotContains(t, out.String(), string(WriterIDKey))
}
