package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoChoice is returned when the input ends before a valid answer was given.
var ErrNoChoice = errors.New("no valid answer given")

// Prompter asks yes/no and multiple choice questions on a terminal.
type Prompter struct {
	reader *lineReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: newLineReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. An empty answer returns def.
func (p *Prompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" "+hint)); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := p.reader.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return def, nil
			}
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning("Please answer y or n")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

// Choose lists options and returns the zero-based index of the one picked.
func (p *Prompter) Choose(ctx context.Context, question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%w: no options", ErrNoChoice)
	}

	var b strings.Builder
	b.WriteString(question + "\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "  %s %s\n", SubtleStyle.Render(strconv.Itoa(i+1)+"."), opt)
	}

	if _, err := fmt.Fprint(p.writer, b.String()); err != nil {
		return 0, fmt.Errorf("failed to write prompt: %w", err)
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(fmt.Sprintf("Choice (1-%d)", len(options)))); err != nil {
			return 0, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := p.reader.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrNoChoice
			}
			return 0, err
		}

		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning("Invalid choice: "+answer)); err != nil {
			return 0, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}
