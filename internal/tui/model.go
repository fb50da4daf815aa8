package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"privateai/internal/models"
	"privateai/internal/render"
)

// turnDoneMsg is sent when a send or attachment turn has finished and
// the transcript should be re-read from the controller.
type turnDoneMsg struct{}

// Controller is the conversation surface the TUI drives. It is
// satisfied by *chat.Orchestrator.
type Controller interface {
	Send(ctx context.Context, text string)
	HandleAudio(ctx context.Context, path string)
	HandlePDF(ctx context.Context, path string)
	Messages() []models.Message
	IsTyping() bool
	Sessions() []*models.Session
	CurrentSession() (*models.Session, bool)
	CreateNewSession() *models.Session
	SelectSession(id string) bool
	DeleteCurrentSession()
}

// Model represents the TUI state.
type Model struct {
	ctrl      Controller
	modelName string
	mdStyle   string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading  bool
	ready    bool
	feedback string

	// Session selector state
	selecting bool
	cursor    int
	filter    string

	// Dimensions
	width  int
	height int
}

// NewModel creates a new chat TUI model. The appearance setting picks
// the markdown rendering style.
func NewModel(ctrl Controller, modelName, appearance string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
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
		ctrl:      ctrl,
		modelName: modelName,
		mdStyle:   render.StyleForAppearance(appearance),
		textarea:  ta,
		spinner:   s,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selecting {
		return m.updateSelector(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight
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
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.loading {
				return m, tea.Quit
			}

		case "enter":
			if !m.loading {
				if input := strings.TrimSpace(m.textarea.Value()); input != "" {
					return m.handleInput(input)
				}
			}
		}

	case turnDoneMsg:
		m.loading = false
		m.refreshViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

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

// handleInput routes a submitted line: slash commands act on the
// session collection, anything else is sent as a message. Empty input
// never reaches the controller.
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	if input == "" {
		return m, nil
	}

	m.feedback = ""
	m.textarea.Reset()

	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit

	case input == "/new":
		m.ctrl.CreateNewSession()
		m.refreshViewport()
		m.feedback = "Started a new chat"
		return m, nil

	case input == "/sessions":
		m.selecting = true
		m.cursor = 0
		m.filter = ""
		return m, nil

	case input == "/delete":
		m.ctrl.DeleteCurrentSession()
		m.refreshViewport()
		m.feedback = "Chat deleted"
		return m, nil

	case input == "/copy":
		m.feedback = m.copyLastReply()
		return m, nil

	case strings.HasPrefix(input, "/audio "):
		path := strings.TrimSpace(strings.TrimPrefix(input, "/audio "))
		return m.startTurn(func(ctx context.Context) { m.ctrl.HandleAudio(ctx, path) })

	case strings.HasPrefix(input, "/pdf "):
		path := strings.TrimSpace(strings.TrimPrefix(input, "/pdf "))
		return m.startTurn(func(ctx context.Context) { m.ctrl.HandlePDF(ctx, path) })
	}

	text := input
	return m.startTurn(func(ctx context.Context) { m.ctrl.Send(ctx, text) })
}

// startTurn runs a conversation turn off the update loop and reports
// completion with turnDoneMsg.
func (m Model) startTurn(turn func(ctx context.Context)) (tea.Model, tea.Cmd) {
	m.loading = true
	m.refreshViewport()
	m.viewport.GotoBottom()

	cmd := func() tea.Msg {
		turn(context.Background())
		return turnDoneMsg{}
	}
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// copyLastReply copies the most recent assistant message to the
// clipboard and returns a feedback line.
func (m Model) copyLastReply() string {
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			if err := clipboard.WriteAll(msgs[i].Text); err != nil {
				return fmt.Sprintf("Copy failed: %v", err)
			}
			return "Copied last reply to clipboard"
		}
	}
	return "Nothing to copy yet"
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selecting {
		return m.renderSelector()
	}

	var sections []string
	contentWidth := m.width - 4

	sessionTitle := models.PlaceholderTitle
	if cur, ok := m.ctrl.CurrentSession(); ok {
		sessionTitle = cur.Title
	}
	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ PrivateAI"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(sessionTitle),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	var messagesContent string
	if len(m.ctrl.Messages()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" Thinking...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to PrivateAI"),
		"",
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
		"",
		welcomeStyle.Width(width).Render("/new  /sessions  /audio <file>  /pdf <file>  /copy"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/sessions", "Switch chat"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// refreshViewport rebuilds the viewport content from the controller's
// transcript.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			if strings.HasPrefix(msg.Text, "Error: ") {
				bubble := errorBubbleStyle.Width(bubbleWidth).Render(msg.Text)
				content.WriteString(label + "\n" + bubble)
			} else {
				rendered, err := render.Markdown(msg.Text, render.DefaultOptions().
					WithStyle(m.mdStyle).
					WithWidth(bubbleWidth-4))
				if err != nil {
					rendered = msg.Text
				}
				rendered = strings.TrimRight(rendered, "\n")

				bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
				content.WriteString(label + "\n" + bubble)
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// Run starts the chat TUI.
func Run(ctrl Controller, modelName, appearance string) error {
	p := tea.NewProgram(
		NewModel(ctrl, modelName, appearance),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
