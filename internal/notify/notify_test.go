// ABOUTME: Tests for the terminal notifier and the test recorder
// ABOUTME: Verifies output shape and recorded message ordering

package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_WritesMarkedLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)

	n.Success("Login successful!")
	n.Error("Failed to send message")

	out := buf.String()
	assert.Contains(t, out, "✓ Login successful!")
	assert.Contains(t, out, "✗ Failed to send message")
}

func TestRecorder_KeepsOrder(t *testing.T) {
	r := NewRecorder()

	r.Success("one")
	r.Error("oops")
	r.Success("two")

	assert.Equal(t, []string{"one", "two"}, r.Successes())
	assert.Equal(t, []string{"oops"}, r.Errors())
}
