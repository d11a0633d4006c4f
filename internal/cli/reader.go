package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type lineResult struct {
	err  error
	line string
}

// lineReader feeds prompt answers from a single background goroutine, so a read abandoned on
// cancellation leaves its line queued for the next caller instead of losing it.
type lineReader struct {
	src   *bufio.Reader
	lines chan lineResult
	start sync.Once
}

func newLineReader(src io.Reader) *lineReader {
	return &lineReader{
		src:   bufio.NewReader(src),
		lines: make(chan lineResult, 1),
	}
}

func (r *lineReader) pump() {
	defer close(r.lines)
	for {
		line, err := r.src.ReadString('\n')
		// An unterminated last line still counts as an answer.
		if line != "" {
			r.lines <- lineResult{line: strings.TrimSpace(line)}
		}
		if err != nil {
			r.lines <- lineResult{err: err}
			return
		}
	}
}

// readLine returns the next trimmed line, io.EOF once input is exhausted, or
// ErrInputCancelled when ctx ends first.
func (r *lineReader) readLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}
