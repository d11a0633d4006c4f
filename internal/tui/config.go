package tui

import "github.com/Veraticus/rupee-flow/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme themes.Theme
	// Style is the glamour style used for section bodies ("dark", "light", "notty").
	Style    string
	Width    int
	Height   int
	ShowHelp bool
	// AltScreen runs the viewer in the terminal's alternate screen.
	AltScreen bool
}

// DefaultConfig returns the default TUI configuration.
func DefaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Style:     "dark",
		Width:     100,
		Height:    30,
		AltScreen: true,
	}
}

// Option configures the report viewer.
type Option func(*Config)

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithStyle sets the glamour style for section bodies.
func WithStyle(style string) Option {
	return func(c *Config) {
		c.Style = style
	}
}

// WithSize sets the initial size before the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
