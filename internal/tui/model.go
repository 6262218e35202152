package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/chaindocs/internal/render"
	"github.com/diogo/chaindocs/internal/widget"
)

// Animation tick message
type animationTickMsg time.Time

// replyMsg carries a finished exchange back to the UI loop
type replyMsg struct {
	reply widget.Reply
}

// Options configures the chat model
type Options struct {
	// Host is shown in the header
	Host string
	// Timeout bounds each exchange; zero leaves it to the client
	Timeout time.Duration
	// Render configures assistant markdown
	Render render.Options
	// CopyToClipboard copies every successful answer
	CopyToClipboard bool
}

// Model represents the TUI state
type Model struct {
	chat *widget.Controller
	opts Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	notice         string
	animationFrame int

	// writeClipboard is swapped out in tests
	writeClipboard func(string) error

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model around chat
func NewChatModel(chat *widget.Controller, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about the indexed docs..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		chat:           chat,
		opts:           opts,
		textarea:       ta,
		spinner:        s,
		writeClipboard: clipboard.WriteAll,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// isExitCommand reports whether input asks to leave the chat
func isExitCommand(input string) bool {
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.loading {
				return m, tea.Quit
			}
			return m, nil

		case "enter":
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case replyMsg:
		m.chat.Resolve(msg.reply)
		m.loading = m.chat.Pending() > 0
		if !msg.reply.Failed() && m.opts.CopyToClipboard {
			m.copyLastAnswer()
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles Enter while idle
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	if isExitCommand(input) {
		return m, tea.Quit
	}

	if input == "/copy" {
		m.textarea.Reset()
		m.copyLastAnswer()
		return m, nil
	}

	ex, ok := m.chat.Submit(input)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	m.loading = true
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.fetchReply(ex),
		m.spinner.Tick,
		animationTick(),
	)
}

// fetchReply runs the network exchange off the UI loop
func (m Model) fetchReply(ex widget.Exchange) tea.Cmd {
	chat := m.chat
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return replyMsg{reply: chat.FetchReply(ctx, ex)}
	}
}

// copyLastAnswer puts the latest answer on the clipboard as markdown
func (m *Model) copyLastAnswer() {
	b, ok := m.chat.LastAnswer()
	if !ok {
		m.notice = "Nothing to copy yet"
		return
	}

	text, err := render.HTMLToMarkdown(b.Content)
	if err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	if err := m.writeClipboard(text); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.notice = "Answer copied to clipboard"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ ChainDocs"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.Host),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.chat.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to ChainDocs")
	subtitle := welcomeStyle.Width(width).Render("Ask a question about the indexed smart contract docs")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
	}
	for i := numDots; i < 3; i++ {
		dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Searching the docs ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(noticeStyle.Render(m.notice))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/copy", "Copy answer"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled bubbles
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, b := range m.chat.Bubbles() {
		if i > 0 {
			content.WriteString("\n")
		}

		if b.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(b.Content)
			content.WriteString(label + "\n" + bubble)
			content.WriteString("\n")
			continue
		}

		content.WriteString(assistantLabelStyle.Render("✦ ChainDocs") + "\n")

		switch b.State {
		case widget.StatePending:
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(
				m.spinner.View() + hintStyle.Render(" waiting for reply"),
			))
		case widget.StateFailed:
			content.WriteString(failedBubbleStyle.Width(bubbleWidth).Render(b.Content))
		default:
			rendered := render.Terminal(b.Content, m.opts.Render.WithWidth(bubbleWidth-4))
			if len(b.Sources) > 0 {
				rendered += "\n\n" + renderSources(b.Sources, bubbleWidth-4)
			}
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderSources lists cited sources, one per line, truncated to width cells
func renderSources(sources []string, width int) string {
	lines := []string{sourcesHeaderStyle.Render("Sources")}
	for i, src := range sources {
		prefix := fmt.Sprintf("%d. ", i+1)
		avail := width - runewidth.StringWidth(prefix)
		if avail > 1 {
			src = runewidth.Truncate(src, avail, "…")
		}
		lines = append(lines, sourceStyle.Render(prefix+src))
	}
	return strings.Join(lines, "\n")
}

// RunChat starts the chat TUI
func RunChat(chat *widget.Controller, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(chat, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
