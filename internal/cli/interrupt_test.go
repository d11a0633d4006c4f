package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptCancelsContext(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		wantHint bool
	}{
		{name: "with hint", hint: "Saved transactions are kept. Re-run the import to continue.", wantHint: true},
		{name: "without hint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &syncBuffer{}
			handler := NewInterruptHandler(output)

			ctx := handler.HandleInterrupts(context.Background(), tt.hint)

			select {
			case <-ctx.Done():
				t.Fatal("Context should not be canceled initially")
			default:
			}

			handler.Interrupt()

			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
				t.Fatal("Context should be canceled after interrupt")
			}

			assert.True(t, handler.WasInterrupted())
			out := output.String()
			assert.Contains(t, out, "Import interrupted!")
			assert.Contains(t, out, "See you later!")
			assert.Equal(t, tt.wantHint, strings.Contains(out, "Re-run the import"))
		})
	}
}

func TestInterruptPrintsOnce(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	handler.HandleInterrupts(context.Background(), "")

	handler.Interrupt()
	handler.Interrupt()

	assert.Equal(t, 1, strings.Count(output.String(), "Import interrupted!"))
}

func TestParentCancelIsNotAnInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "")
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("child context should follow parent")
	}
	require.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
