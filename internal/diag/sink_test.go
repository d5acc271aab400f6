package diag_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"bennypowers.dev/tplmin/internal/diag"
	"bennypowers.dev/tplmin/internal/log"
	"github.com/stretchr/testify/assert"
)

func TestCSSMessage(t *testing.T) {
	assert.Equal(t,
		`[tplmin] Could not minify CSS: Ignoring local @import of "missing.css" as resource is missing.`,
		diag.CSSMessage(`Ignoring local @import of "missing.css" as resource is missing.`))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := diag.NewWriterSink(&buf)
	sink.Warn("first")
	sink.Warn("second")
	assert.Equal(t, "first\nsecond\n", buf.String())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	diag.LogSink{}.Warn("100% broken")
	assert.Equal(t, "[tplmin] WARN: 100% broken\n", buf.String())
}

func TestRecorder(t *testing.T) {
	var r diag.Recorder
	assert.Empty(t, r.Last())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Warn("concurrent")
		}()
	}
	wg.Wait()
	r.Warn("last")

	assert.Len(t, r.Messages(), 11)
	assert.Equal(t, "last", r.Last())
}

func TestDiagnosticsShareTheLogName(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	message := diag.CSSMessage("x")
	diag.LogSink{}.Warn("x")
	assert.True(t, strings.HasPrefix(message, "["+log.Name+"] "))
	assert.True(t, strings.HasPrefix(buf.String(), "["+log.Name+"] "))
}
