package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chaindocs/internal/config"
	"github.com/diogo/chaindocs/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewStyleSelect
	viewThemeSelect
)

// configItem is one row of the main settings menu
type configItem struct {
	label string
	// toggle flips a boolean setting; nil for items that open a view
	toggle func(*config.Config) bool
	// value renders the current setting
	value func(config.Config) string
	view  configView
	exit  bool
}

var configItems = []configItem{
	{
		label:  "Verbose Logging",
		toggle: func(c *config.Config) bool { c.Verbose = !c.Verbose; return c.Verbose },
		value:  func(c config.Config) string { return renderBoolValue(c.Verbose) },
	},
	{
		label:  "Copy to Clipboard",
		toggle: func(c *config.Config) bool { c.CopyToClipboard = !c.CopyToClipboard; return c.CopyToClipboard },
		value:  func(c config.Config) string { return renderBoolValue(c.CopyToClipboard) },
	},
	{
		label: "Emoji Shortcodes",
		toggle: func(c *config.Config) bool {
			c.Markdown.EnableEmoji = !c.Markdown.EnableEmoji
			return c.Markdown.EnableEmoji
		},
		value: func(c config.Config) string { return renderBoolValue(c.Markdown.EnableEmoji) },
	},
	{
		label: "Markdown Style",
		value: func(c config.Config) string { return configValueStyle.Render(markdownStyleName(c)) },
		view:  viewStyleSelect,
	},
	{
		label: "TUI Theme",
		value: func(c config.Config) string { return configValueStyle.Render(themeName(c)) },
		view:  viewThemeSelect,
	},
	{label: "Exit", exit: true},
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	logsDir    string
	save       func(config.Config) error

	view        configView
	cursor      int
	styleCursor int
	themeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings menu for cfg
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logsDir, _ := config.GetLogsDir()

	styleCursor := 0
	for i, s := range render.AvailableStyles() {
		if s.Name == markdownStyleName(cfg) {
			styleCursor = i
			break
		}
	}

	themeCursor := 0
	for i, name := range render.PaletteNames() {
		if name == themeName(cfg) {
			themeCursor = i
			break
		}
	}

	if render.SetPalette(themeName(cfg)) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logsDir:         logsDir,
		save:            config.SaveConfig,
		styleCursor:     styleCursor,
		themeCursor:     themeCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

func markdownStyleName(c config.Config) string {
	if c.Markdown.Style == "" {
		return render.StyleDark
	}
	return c.Markdown.Style
}

func themeName(c config.Config) string {
	if c.TUITheme == "" {
		return render.DefaultPaletteName
	}
	return c.TUITheme
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// optionCount returns the number of rows in the current view
func (m ConfigModel) optionCount() int {
	switch m.view {
	case viewStyleSelect:
		return len(render.AvailableStyles())
	case viewThemeSelect:
		return len(render.PaletteNames())
	default:
		return len(configItems)
	}
}

// activeCursor returns the cursor of the current view
func (m *ConfigModel) activeCursor() *int {
	switch m.view {
	case viewStyleSelect:
		return &m.styleCursor
	case viewThemeSelect:
		return &m.themeCursor
	default:
		return &m.cursor
	}
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			cursor := m.activeCursor()
			*cursor--
			if *cursor < 0 {
				*cursor = m.optionCount() - 1
			}

		case "down", "j":
			cursor := m.activeCursor()
			*cursor++
			if *cursor >= m.optionCount() {
				*cursor = 0
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewStyleSelect:
		m.config.Markdown.Style = render.AvailableStyles()[m.styleCursor].Name
		m.view = viewMain
		return m.persist(fmt.Sprintf("Markdown style set to %s", m.config.Markdown.Style))

	case viewThemeSelect:
		selected := render.PaletteNames()[m.themeCursor]
		m.config.TUITheme = selected
		render.SetPalette(selected)
		UpdateTheme()
		m.view = viewMain
		return m.persist(fmt.Sprintf("TUI theme set to %s", selected))
	}

	item := configItems[m.cursor]
	switch {
	case item.exit:
		return m, tea.Quit
	case item.toggle != nil:
		state := "disabled"
		if item.toggle(&m.config) {
			state = "enabled"
		}
		return m.persist(fmt.Sprintf("%s %s", item.label, state))
	default:
		m.view = item.view
		return m, nil
	}
}

// persist saves the config and reports the outcome
func (m ConfigModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))
	sections = append(sections, header)

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Server & Paths"),
		fmt.Sprintf("   Host:    %s", configValueStyle.Render(m.config.Host)),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Logs:    %s", configPathStyle.Render(m.logsDir)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	var settingsContent string
	switch m.view {
	case viewStyleSelect:
		settingsContent = m.renderStyleSelect()
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	default:
		settingsContent = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one selectable row
func menuLine(selected bool, text string) string {
	if selected {
		return configCursorStyle.Render("▸ ") + configMenuSelectedStyle.Render(text)
	}
	return "  " + configMenuItemStyle.Render(text)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	lines := []string{configSectionTitleStyle.Render("Settings"), ""}

	for i, item := range configItems {
		if item.exit {
			lines = append(lines, "")
		}
		line := menuLine(m.cursor == i, item.label)
		if item.value != nil {
			line += strings.Repeat(" ", 20-len(item.label)) + item.value(m.config)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStyleSelect renders the markdown style sub-menu
func (m ConfigModel) renderStyleSelect() string {
	lines := []string{configSectionTitleStyle.Render("Select Markdown Style"), ""}

	current := markdownStyleName(m.config)
	for i, style := range render.AvailableStyles() {
		line := menuLine(m.styleCursor == i, fmt.Sprintf("%s - %s", style.Name, style.Description))
		if style.Name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderThemeSelect renders the TUI color theme sub-menu
func (m ConfigModel) renderThemeSelect() string {
	lines := []string{configSectionTitleStyle.Render("Select TUI Theme"), ""}

	current := themeName(m.config)
	for i, name := range render.PaletteNames() {
		palette, _ := render.PaletteByName(name)
		line := menuLine(m.themeCursor == i, palette.Description)
		if name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBoolValue renders a boolean value with appropriate styling
func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	escDesc := "Exit"
	if m.view != viewMain {
		escDesc = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", escDesc},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(
		NewConfigModel(cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
