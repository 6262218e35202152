package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/render"
	"github.com/diogo/chaindocs/internal/tui"
	"github.com/diogo/chaindocs/internal/widget"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	palette := render.CurrentPalette()
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(palette.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(palette.Text).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done
	fmt.Fprintln(s.out, successLine(message))
}

// stopWithError stops the spinner
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

func successLine(message string) string {
	style := lipgloss.NewStyle().Foreground(render.CurrentPalette().Secondary)
	return style.Bold(true).Render("✓") + " " + style.Render(message)
}

func warningLine(message string) string {
	return lipgloss.NewStyle().Foreground(render.CurrentPalette().Error).Render("⚠ " + message)
}

// runQuery asks a single question through the chat widget and prints the answer.
// With --raw only the answer markdown is printed, without decoration.
func (c *cli) runQuery(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuery
	}

	client, err := c.client()
	if err != nil {
		return err
	}
	chat := c.newController(client)

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	ex, _ := chat.Submit(question)

	var spin *spinner
	if !c.rawFlag {
		spin = newSpinner(stderr, "Searching the docs")
		spin.start()
	}

	reply := chat.FetchReply(cmd.Context(), ex)
	chat.Resolve(reply)

	if reply.Failed() {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(stderr, tui.FormatError(reply.Err))
		} else {
			fmt.Fprintln(stderr, reply.Content)
		}
		return errReported
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	bubble, _ := chat.Bubble(ex.ID)
	answer, err := render.HTMLToMarkdown(bubble.Content)
	if err != nil {
		return fmt.Errorf("failed to convert answer: %w", err)
	}

	if c.rawFlag {
		if c.outputFlag != "" {
			return writeAnswer(c.outputFlag, answer)
		}
		fmt.Fprintln(stdout, answer)
		return nil
	}

	fmt.Fprintln(stderr)

	if c.cfg.CopyToClipboard && c.deps.Clipboard != nil {
		if err := c.deps.Clipboard(answer); err != nil {
			fmt.Fprintln(stderr, warningLine(fmt.Sprintf("Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(stderr, successLine("Copied to clipboard"))
		}
	}

	if c.outputFlag != "" {
		if err := writeAnswer(c.outputFlag, answer); err != nil {
			return err
		}
		fmt.Fprintln(stderr, successLine(fmt.Sprintf("Answer saved to %s", c.outputFlag)))
		return nil
	}

	printBubble(stdout, bubble, render.OptionsFromConfig(c.cfg))
	return nil
}

// writeAnswer saves answer to path
func writeAnswer(path, answer string) error {
	if err := os.WriteFile(path, []byte(answer+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// printBubble prints an assistant bubble the way the chat widget draws it,
// followed by the cited sources
func printBubble(w io.Writer, b widget.Bubble, opts render.Options) {
	palette := render.CurrentPalette()

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	labelStyle := lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.Primary).
		Foreground(palette.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)

	rendered := render.Terminal(b.Content, opts.WithWidth(contentWidth))

	fmt.Fprintln(w, labelStyle.Render("✦ ChainDocs"))
	fmt.Fprintln(w, bubbleStyle.Width(bubbleWidth).Render(rendered))

	if len(b.Sources) == 0 {
		return
	}
	headerStyle := lipgloss.NewStyle().Foreground(palette.TextDim).Bold(true)
	sourceStyle := lipgloss.NewStyle().Foreground(palette.Accent)
	fmt.Fprintln(w, headerStyle.Render("Sources:"))
	for _, src := range b.Sources {
		fmt.Fprintln(w, sourceStyle.Render("  - "+src))
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
