// Package tui provides an interactive viewer for portfolio insight reports.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/report"
	"github.com/Veraticus/rupee-flow/internal/tui/themes"
)

const (
	headerHeight = 3
	footerHeight = 2
)

// Model holds the report viewer state.
type Model struct {
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	viewport viewport.Model
	title    string
	style    string
	sections []report.Section
	rendered []string
	width    int
	height   int
	current  int
	quitting bool
}

// NewModel builds a viewer for the given report.
func NewModel(r model.PortfolioInsights, opts ...Option) Model {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	title := "Portfolio Insights"
	if !r.GeneratedAt.IsZero() {
		title += " · " + r.GeneratedAt.Format("2 Jan 2006 15:04")
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     h,
		title:    title,
		style:    cfg.Style,
		sections: report.Sections(r),
	}
	m.resize(cfg.Width, cfg.Height)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextSection):
			m.selectSection(m.current + 1)
			return m, nil
		case key.Matches(msg, m.keymap.PrevSection):
			m.selectSection(m.current - 1)
			return m, nil
		case key.Matches(msg, m.keymap.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.End):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			m.resize(m.width, m.height)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("₹ "+m.title),
		m.tabs(),
	)
	scroll := m.theme.Scroll.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	footer := lipgloss.JoinHorizontal(lipgloss.Top, scroll, "  ", m.theme.Footer.Render(m.help.View(m.keymap)))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.viewport.View(), footer)
}

// CurrentSection returns the title of the section on screen.
func (m Model) CurrentSection() string {
	if len(m.sections) == 0 {
		return ""
	}
	return m.sections[m.current].Title
}

func (m Model) tabs() string {
	tabs := make([]string, 0, len(m.sections))
	for i, s := range m.sections {
		if i == m.current {
			tabs = append(tabs, m.theme.ActiveTab.Render(s.Title))
			continue
		}
		tabs = append(tabs, m.theme.Tab.Render(s.Title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// selectSection wraps around at both ends.
func (m *Model) selectSection(i int) {
	n := len(m.sections)
	if n == 0 {
		return
	}
	m.current = ((i % n) + n) % n
	m.viewport.SetContent(m.rendered[m.current])
	m.viewport.GotoTop()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	helpLines := 1
	if m.help.ShowAll {
		helpLines = len(m.keymap.FullHelp()[0])
	}
	vpHeight := max(height-headerHeight-footerHeight-helpLines+1, 1)

	m.viewport = viewport.New(width, vpHeight)
	m.rendered = m.renderSections(width)
	if len(m.rendered) > 0 {
		m.viewport.SetContent(m.rendered[m.current])
	}
}

func (m Model) renderSections(width int) []string {
	out := make([]string, len(m.sections))
	for i, s := range m.sections {
		md := fmt.Sprintf("## %s\n\n%s", s.Title, s.Body)
		rendered, err := report.RenderTerminal(md, m.style, width)
		if err != nil {
			slog.Warn("Failed to render section", "section", s.Title, "error", err)
			rendered = md
		}
		out[i] = strings.TrimRight(rendered, "\n")
	}
	return out
}
