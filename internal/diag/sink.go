// Package diag carries non-fatal findings out of the transform.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"

	"bennypowers.dev/tplmin/internal/log"
)

// PluginName prefixes every diagnostic message, matching the log prefix
const PluginName = log.Name

// Sink receives diagnostic messages. Implementations must be safe for use
// by concurrent transforms.
type Sink interface {
	Warn(message string)
}

// CSSMessage formats a stylesheet finding reported under logOnError
func CSSMessage(finding string) string {
	return fmt.Sprintf("[%s] Could not minify CSS: %s", PluginName, finding)
}

// WriterSink writes one message per line to an io.Writer
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w, or to stderr when w is nil
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stderr
	}
	return &WriterSink{w: w}
}

func (s *WriterSink) Warn(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, message)
}

// LogSink forwards messages to the package logger at warn level
type LogSink struct{}

func (LogSink) Warn(message string) {
	log.Warn("%s", message)
}

// Discard drops every message
type Discard struct{}

func (Discard) Warn(string) {}

// Recorder keeps messages in memory
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the most recent message, or "" when none was recorded
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
