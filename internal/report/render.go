package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Format selects the output document type.
type Format string

// Supported formats.
const (
	FormatTerminal Format = "terminal"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned for formats Write does not support.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTerminal, FormatMarkdown, FormatJSON:
		return f, nil
	case "", "text":
		return FormatTerminal, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Options control rendering.
type Options struct {
	Format Format
	// Style is a glamour style name ("dark", "light", "notty"); empty picks one from the terminal.
	Style string
	Width int
}

// Write renders the report to w.
func Write(w io.Writer, r model.PortfolioInsights, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatTerminal, "":
		out, err := RenderTerminal(Markdown(r), opts.Style, opts.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// RenderTerminal styles markdown for a terminal with glamour.
func RenderTerminal(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
