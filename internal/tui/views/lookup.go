// Package views provides the individual views of the TUI.
package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/f3rmion/pokedex/internal/clipboard"
	"github.com/f3rmion/pokedex/internal/lookup"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokedex"
	"github.com/f3rmion/pokedex/internal/tui/spriteart"
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	buttonActiveStyle = buttonStyle.
				Foreground(lipgloss.Color("#1a1a2e")).
				Background(lipgloss.Color("#ffe66d")).
				BorderForeground(lipgloss.Color("#ffe66d")).
				Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(0, 1)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ecdc4")).
			Padding(1, 2).
			MarginTop(1)
)

// Message types
type lookupResultMsg struct {
	seq    uint64
	result pokedex.LookupResult
	err    error
}

type spriteMsg struct {
	seq uint64
	art string
	err error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

type focusArea int

const (
	focusInput focusArea = iota
	focusButton
)

// LookupOptions configures the lookup view.
type LookupOptions struct {
	KeepWhitespace bool
	Sprite         bool
	SpriteWidth    int
	SpriteHeight   int
	SpriteCache    *spriteart.Cache
	Clipboard      clipboard.Writer
	Logger         zerolog.Logger
}

// LookupModel is the Pokémon lookup view model.
type LookupModel struct {
	ctx     context.Context
	fetcher lookup.Fetcher
	sprites lookup.SpriteFetcher
	opts    LookupOptions

	input   textinput.Model
	spinner spinner.Model
	focus   focusArea

	flow   lookup.Flow
	cancel context.CancelFunc

	art     string
	copied  bool
	copyErr error

	width  int
	height int
}

// NewLookupModel creates a new lookup view model. sprites may be nil to
// disable sprite art.
func NewLookupModel(ctx context.Context, fetcher lookup.Fetcher, sprites lookup.SpriteFetcher, opts LookupOptions) LookupModel {
	ti := textinput.New()
	ti.Placeholder = "Enter Pokémon name"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 30
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = loadingStyle

	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.Write
	}
	if opts.SpriteWidth <= 0 {
		opts.SpriteWidth = 40
	}
	if opts.SpriteHeight <= 0 {
		opts.SpriteHeight = 20
	}

	return LookupModel{
		ctx:     ctx,
		fetcher: fetcher,
		sprites: sprites,
		opts:    opts,
		input:   ti,
		spinner: sp,
		flow:    lookup.Flow{KeepWhitespace: opts.KeepWhitespace},
	}
}

// SetSize updates the view dimensions.
func (m *LookupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the current lookup state.
func (m LookupModel) State() lookup.State {
	return m.flow.State()
}

// Value returns the current input text.
func (m LookupModel) Value() string {
	return m.input.Value()
}

// Update handles messages.
func (m LookupModel) Update(msg tea.Msg) (LookupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.search()
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+y":
			return m, m.copyResult()
		case " ":
			if m.focus == focusButton {
				return m, m.search()
			}
		}

	case lookupResultMsg:
		return m, m.resolve(msg)

	case spriteMsg:
		if msg.seq != m.flow.Seq() || m.flow.State().Status != lookup.StatusSuccess {
			return m, nil
		}
		if msg.err != nil {
			m.opts.Logger.Debug().Err(msg.err).Msg("sprite unavailable")
			return m, nil
		}
		m.art = msg.art
		return m, nil

	case spinner.TickMsg:
		if !m.flow.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearCopiedMsg:
		m.copied = false
		m.copyErr = nil
		return m, nil
	}

	if m.focus != focusInput {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LookupModel) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusButton
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

// search runs the trigger: validation, cancellation of the previous
// request, and the fetch command.
func (m *LookupModel) search() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.art = ""
	m.copied = false
	m.copyErr = nil

	req, ok := m.flow.Trigger(m.input.Value())
	if !ok {
		return nil
	}

	m.opts.Logger.Debug().Uint64("seq", req.Seq).Str("query", req.Name).Msg("lookup started")

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	fetcher := m.fetcher

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := fetcher.Fetch(ctx, req.Name)
		return lookupResultMsg{seq: req.Seq, result: result, err: err}
	})
}

func (m *LookupModel) resolve(msg lookupResultMsg) tea.Cmd {
	if !m.flow.Resolve(msg.seq, msg.result, msg.err) {
		m.opts.Logger.Debug().
			Uint64("seq", msg.seq).
			Uint64("latest", m.flow.Seq()).
			Msg("dropping stale lookup response")
		return nil
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		if pokeapi.KindOf(msg.err) != pokeapi.KindNotFound {
			m.opts.Logger.Warn().Err(msg.err).Msg("lookup error")
		}
		return nil
	}

	return m.loadSprite(msg.seq, msg.result)
}

func (m *LookupModel) loadSprite(seq uint64, r pokedex.LookupResult) tea.Cmd {
	if !m.opts.Sprite || m.sprites == nil || !r.HasImage() {
		return nil
	}

	cols, rows := m.spriteSize()
	if art, ok := m.opts.SpriteCache.Get(r.Image, cols, rows); ok {
		m.art = art
		return nil
	}

	ctx := m.ctx
	sprites := m.sprites
	cache := m.opts.SpriteCache
	url := r.Image

	return func() tea.Msg {
		data, err := sprites.GetSprite(ctx, url)
		if err != nil {
			return spriteMsg{seq: seq, err: err}
		}
		art, err := spriteart.Render(data, cols, rows)
		if err != nil {
			return spriteMsg{seq: seq, err: err}
		}
		cache.Put(url, cols, rows, art)
		return spriteMsg{seq: seq, art: art}
	}
}

// spriteSize shrinks the configured art to fit narrow terminals.
func (m LookupModel) spriteSize() (int, int) {
	cols, rows := m.opts.SpriteWidth, m.opts.SpriteHeight
	if m.width > 0 && m.width-8 < cols {
		cols = max(m.width-8, 4)
	}
	return cols, rows
}

func (m *LookupModel) copyResult() tea.Cmd {
	st := m.flow.State()
	if st.Status != lookup.StatusSuccess || st.Result == nil {
		return nil
	}
	if err := m.opts.Clipboard(st.Result.Summary()); err != nil {
		m.copyErr = err
		return clearCopiedAfter(2 * time.Second)
	}
	m.copied = true
	return clearCopiedAfter(2 * time.Second)
}

// View renders the lookup view.
func (m LookupModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderInputRow())
	b.WriteString("\n")

	st := m.flow.State()
	switch st.Status {
	case lookup.StatusLoading:
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + loadingStyle.Render("Loading..."))
		b.WriteString("\n")
	case lookup.StatusFailed:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(st.Message))
		b.WriteString("\n")
	case lookup.StatusSuccess:
		if st.Result != nil {
			b.WriteString(m.renderResult(*st.Result))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m LookupModel) renderInputRow() string {
	input := inputBoxStyle.Render(m.input.View())

	button := buttonStyle.Render("Search")
	if m.focus == focusButton {
		button = buttonActiveStyle.Render("Search")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button)
}

func (m LookupModel) renderResult(r pokedex.LookupResult) string {
	var lines []string

	lines = append(lines, nameStyle.Render(cases.Title(language.English).String(r.Name)))

	if m.art != "" {
		lines = append(lines, "", m.art)
	}

	width := 60
	if m.width > 0 && m.width-12 < width {
		width = max(m.width-12, 20)
	}

	lines = append(lines, "")
	lines = append(lines, m.renderRow("Abilities", r.AbilityList(), width))
	lines = append(lines, m.renderRow("Types", r.TypeList(), width))

	if m.copied {
		lines = append(lines, "", copiedStyle.Render("Copied!"))
	} else if m.copyErr != nil {
		lines = append(lines, "", errorStyle.Render("Copy failed: "+m.copyErr.Error()))
	}

	return resultBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m LookupModel) renderRow(label, value string, width int) string {
	prefix := label + ": "
	wrapped := wordWrap(value, width-runewidth.StringWidth(prefix))
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	wrapped = strings.ReplaceAll(wrapped, "\n", "\n"+indent)
	return labelStyle.Render(prefix) + valueStyle.Render(wrapped)
}

func (m LookupModel) renderHelp() string {
	parts := []string{"enter: search", "tab: focus button"}
	if m.focus == focusButton {
		parts[1] = "tab: focus input"
	}
	if m.flow.State().Status == lookup.StatusSuccess {
		parts = append(parts, "ctrl+y: copy")
	}
	parts = append(parts, "f1: help", "esc: quit")
	return helpStyle.Render(strings.Join(parts, " • "))
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	words := strings.Fields(s)
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}
