// ABOUTME: User-facing transient notifications for the terminal client
// ABOUTME: Stands in for the SPA's toast layer; success/error only, never fatal

package notify

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Notifier surfaces transient outcome messages to the user. Every
// backend failure ends here or in an inline prompt error; nothing
// crashes the client.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Terminal writes colored notifications to a writer, usually stdout.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	green *color.Color
	red   *color.Color
}

// NewTerminal creates a Terminal notifier writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:   out,
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
	}
}

// Success prints a green confirmation line.
func (t *Terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.green.Fprintf(t.out, "✓ %s\n", msg)
}

// Error prints a red failure line.
func (t *Terminal) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.red.Fprintf(t.out, "✗ %s\n", msg)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Success records msg.
func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

// Error records msg.
func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Successes returns the recorded success messages in order.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Errors returns the recorded error messages in order.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Success implements Notifier.
func (Discard) Success(string) {}

// Error implements Notifier.
func (Discard) Error(string) {}
