package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/pokedex/internal/tui/banner"
	"github.com/f3rmion/pokedex/internal/tui/views"
)

// Title is the page heading.
const Title = "Pokémon Info"

// AppModel is the root TUI model: heading, lookup view and help overlay.
type AppModel struct {
	lookupView views.LookupModel
	showBanner bool

	width  int
	height int
	ready  bool

	showHelp bool
}

// NewApp creates the TUI application around a lookup view.
func NewApp(lookupView views.LookupModel, showBanner bool) AppModel {
	return AppModel{
		lookupView: lookupView,
		showBanner: showBanner,
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			m.showHelp = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.lookupView.SetSize(m.width-4, m.height-2)
		return m, nil
	}

	var cmd tea.Cmd
	m.lookupView, cmd = m.lookupView.Update(msg)
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		"",
		m.lookupView.View(),
	)

	return ContentStyle.
		Width(m.width).
		Render(content)
}

// renderTitle draws the heading as block letters when they fit.
func (m AppModel) renderTitle() string {
	if m.showBanner {
		if art := banner.Render(Title, m.width-4); art != "" {
			return BannerStyle.Render(art)
		}
	}
	return TitleStyle.Render(Title)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	helpText := HelpTitleStyle.Render(Title) + "\n\n"

	helpText += HelpSectionStyle.Render("Search") + "\n"
	helpText += HelpKeyStyle.Render("enter") + HelpDescStyle.Render("Search for the typed name") + "\n"
	helpText += HelpKeyStyle.Render("tab") + HelpDescStyle.Render("Switch input / button") + "\n"
	helpText += HelpKeyStyle.Render("space") + HelpDescStyle.Render("Press the focused button") + "\n"
	helpText += HelpKeyStyle.Render("ctrl+y") + HelpDescStyle.Render("Copy result to clipboard") + "\n"

	helpText += HelpSectionStyle.Render("Global") + "\n"
	helpText += HelpKeyStyle.Render("f1") + HelpDescStyle.Render("Show this help") + "\n"
	helpText += HelpKeyStyle.Render("esc") + HelpDescStyle.Render("Quit") + "\n"

	helpText += "\n" + HelpFooterStyle.Render("Press any key to close")

	helpBox := HelpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
