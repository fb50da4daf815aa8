package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"privateai/internal/models"
)

// updateSelector handles updates while the session selector is open.
func (m Model) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.selecting = false
			m.cursor = 0
			m.filter = ""

		case "up", "ctrl+k":
			if n := len(m.filteredSessions()); n > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = n - 1
				}
			}

		case "down", "ctrl+j":
			if n := len(m.filteredSessions()); n > 0 {
				m.cursor++
				if m.cursor >= n {
					m.cursor = 0
				}
			}

		case "enter":
			filtered := m.filteredSessions()
			if len(filtered) > 0 && m.cursor < len(filtered) {
				m.ctrl.SelectSession(filtered[m.cursor].ID)
				m.selecting = false
				m.cursor = 0
				m.filter = ""
				m.refreshViewport()
				m.viewport.GotoBottom()
			}

		case "backspace":
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
				m.cursor = 0
			}

		default:
			// Printable characters narrow the filter.
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					m.filter += msg.String()
					m.cursor = 0
				}
			}
		}
	}

	return m, nil
}

// filteredSessions returns the sessions whose title matches the filter.
func (m Model) filteredSessions() []*models.Session {
	sessions := m.ctrl.Sessions()
	if m.filter == "" {
		return sessions
	}

	filter := strings.ToLower(m.filter)
	var filtered []*models.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.Title), filter) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// renderSelector renders the session selection overlay.
func (m Model) renderSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	content.WriteString(selectorTitleStyle.Render("Your chats"))
	content.WriteString("\n\n")

	if m.filter != "" {
		content.WriteString(inputLabelStyle.Render("Filter ") + m.filter + "_")
		content.WriteString("\n\n")
	}

	sessions := m.ctrl.Sessions()
	if len(sessions) == 0 {
		content.WriteString(hintStyle.Render("  No chats yet. Press Esc and start typing."))
		content.WriteString("\n")
	} else {
		filtered := m.filteredSessions()
		if len(filtered) == 0 {
			content.WriteString(hintStyle.Render("  No chats match the filter"))
			content.WriteString("\n")
		} else {
			maxItems := 10
			startIdx := 0
			if m.cursor >= maxItems {
				startIdx = m.cursor - maxItems + 1
			}
			endIdx := startIdx + maxItems
			if endIdx > len(filtered) {
				endIdx = len(filtered)
			}

			if startIdx > 0 {
				content.WriteString(hintStyle.Render("  ↑ more above"))
				content.WriteString("\n")
			}

			currentID := ""
			if cur, ok := m.ctrl.CurrentSession(); ok {
				currentID = cur.ID
			}

			for i := startIdx; i < endIdx; i++ {
				s := filtered[i]
				cursor := "  "
				nameStyle := selectorItemStyle
				if i == m.cursor {
					cursor = selectorCursorStyle.Render("▸ ")
					nameStyle = selectorSelectedStyle
				}

				marker := " "
				if s.ID == currentID {
					marker = selectorCursorStyle.Render("●")
				}

				meta := selectorMetaStyle.Render(fmt.Sprintf(" %s · %d messages",
					s.CreatedAt.Format("Jan 2 15:04"), len(s.Messages)))

				content.WriteString(fmt.Sprintf("%s%s %s%s\n",
					cursor, marker, nameStyle.Render(s.Title), meta))
			}

			if endIdx < len(filtered) {
				content.WriteString(hintStyle.Render("  ↓ more below"))
				content.WriteString("\n")
			}
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Open"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}
