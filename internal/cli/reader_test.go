package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *lineReader) ([]string, error) {
	t.Helper()
	var lines []string
	for {
		line, err := r.readLine(context.Background())
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

func TestLineReaderLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "trims whitespace", input: "  y  \r\n", want: []string{"y"}},
		{name: "blank line is an answer", input: "\n2\n", want: []string{"", "2"}},
		{name: "unterminated last line", input: "1\nyes", want: []string{"1", "yes"}},
		{name: "empty input", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := readAll(t, newLineReader(strings.NewReader(tt.input)))
			assert.ErrorIs(t, err, io.EOF)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestLineReaderEOFRepeats(t *testing.T) {
	r := newLineReader(strings.NewReader("n"))

	line, err := r.readLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n", line)

	for range 2 {
		_, err = r.readLine(context.Background())
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestLineReaderCancelledBeforeRead(t *testing.T) {
	r := newLineReader(strings.NewReader("y\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.readLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)

	line, err := r.readLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", line, "a canceled call must not consume input")
}

func TestLineReaderKeepsLineAfterTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()

	r := newLineReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.readLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)

	go func() {
		_, _ = io.WriteString(pw, "3\n")
		_ = pw.Close()
	}()

	line, err := r.readLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3", line)

	_, err = r.readLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
