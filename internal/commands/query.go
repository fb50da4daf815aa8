package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"privateai/internal/models"
	"privateai/internal/render"
)

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	spinnerColors = []lipgloss.Color{
		lipgloss.Color("#ff6b6b"),
		lipgloss.Color("#feca57"),
		lipgloss.Color("#48dbfb"),
		lipgloss.Color("#54a0ff"),
		lipgloss.Color("#1dd1a1"),
	}
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator on stderr.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
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

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	idx := s.frame % len(chars)
	color := spinnerColors[s.frame%len(spinnerColors)]
	char := lipgloss.NewStyle().Foreground(color).Bold(true).Render(chars[idx])
	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(os.Stderr, "\r\033[K%s %s", char, msg)
}

// stopOnce closes the stop channel only once.
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", check, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery executes a single one-shot exchange and prints the reply.
func runQuery(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rawOutput := !isStdoutTTY()

	a.orc.CreateNewSession()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Thinking")
		spin.start()
	}

	a.orc.Send(context.Background(), prompt)

	reply, ok := lastAssistantMessage(a.orc.Messages())
	if !ok {
		if !rawOutput {
			spin.stopWithError()
		}
		return fmt.Errorf("no response received")
	}
	if strings.HasPrefix(reply, "Error: ") {
		if !rawOutput {
			spin.stopWithError()
		}
		return fmt.Errorf("%s", strings.TrimPrefix(reply, "Error: "))
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", outputFlag))
			fmt.Fprintln(os.Stderr, msg)
		}
		return nil
	}

	if rawOutput {
		fmt.Print(reply)
		return nil
	}

	printReply(reply, a.cfg.Appearance)
	return nil
}

// lastAssistantMessage returns the text of the newest assistant message.
func lastAssistantMessage(msgs []models.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			return msgs[i].Text, true
		}
	}
	return "", false
}

// printReply renders the assistant reply as markdown in a bubble,
// matching the chat TUI's look.
func printReply(text, appearance string) {
	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Println(assistantLabelStyle.Render("✦ Assistant"))

	opts := render.DefaultOptions().
		WithStyle(render.StyleForAppearance(appearance)).
		WithWidth(bubbleWidth - 4)
	rendered, err := render.Markdown(text, opts)
	if err != nil {
		rendered = text
	}
	rendered = strings.TrimRight(rendered, "\n")

	fmt.Println(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
