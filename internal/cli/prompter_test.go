package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full word", input: "YES\n", want: true},
		{name: "no", input: "n\n", def: true, want: false},
		{name: "empty uses default true", input: "\n", def: true, want: true},
		{name: "empty uses default false", input: "\n", want: false},
		{name: "eof uses default", input: "", def: true, want: true},
		{name: "retries after garbage", input: "maybe\ny\n", want: true},
		{name: "unterminated answer", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Replace holdings?", tt.def)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Replace holdings?")
		})
	}
}

func TestPrompterConfirmRetryMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\nn\n"), &out)

	got, err := p.Confirm(context.Background(), "Continue?", true)

	require.NoError(t, err)
	assert.False(t, got)
	assert.Contains(t, out.String(), "Please answer y or n")
}

func TestPrompterConfirmCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	defer func() { _ = pw.Close() }()

	p := NewPrompter(pr, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Confirm(ctx, "Continue?", false)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestPrompterChoose(t *testing.T) {
	options := []string{"terminal", "markdown", "json"}

	tests := []struct {
		wantErr error
		name    string
		input   string
		want    int
	}{
		{name: "first", input: "1\n", want: 0},
		{name: "last", input: "3\n", want: 2},
		{name: "retry out of range", input: "0\n4\n2\n", want: 1},
		{name: "retry non-number", input: "json\n3\n", want: 2},
		{name: "eof", input: "9\n", wantErr: ErrNoChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Choose(context.Background(), "Output format", options)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "markdown")
		})
	}
}

func TestPrompterChooseNoOptions(t *testing.T) {
	p := NewPrompter(strings.NewReader("1\n"), &bytes.Buffer{})
	_, err := p.Choose(context.Background(), "Pick", nil)
	assert.ErrorIs(t, err, ErrNoChoice)
}

func TestPrompterSharesInputAcrossQuestions(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\ny\n2"), &out)

	ok, err := p.Confirm(context.Background(), "Replace holdings?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	choice, err := p.Choose(context.Background(), "Output format", []string{"terminal", "markdown"})
	require.NoError(t, err)
	assert.Equal(t, 1, choice)

	_, err = p.Choose(context.Background(), "Again", []string{"a"})
	assert.ErrorIs(t, err, ErrNoChoice)
}
