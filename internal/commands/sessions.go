package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"privateai/internal/models"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored chat sessions",
	Long:  `List, delete, or clear the locally stored chat sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsList()
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more sessions by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsDelete(args)
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionsClear()
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}

func runSessionsList() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sessions := a.orc.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No stored sessions. Start one with 'privateai chat'.")
		return nil
	}

	currentID := a.orc.CurrentSessionID()
	for _, s := range sessions {
		fmt.Println(formatSessionLine(s, s.ID == currentID))
	}
	return nil
}

// formatSessionLine renders one session for the list output.
func formatSessionLine(s *models.Session, current bool) string {
	idStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	titleStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	marker := "  "
	if current {
		marker = lipgloss.NewStyle().Foreground(colorPrimary).Render("● ")
	}

	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}

	return fmt.Sprintf("%s%s  %s  %s",
		marker,
		idStyle.Render(id),
		titleStyle.Render(s.Title),
		metaStyle.Render(fmt.Sprintf("%s · %d messages",
			s.CreatedAt.Format("2006-01-02 15:04"), len(s.Messages))),
	)
}

func runSessionsDelete(prefixes []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Accept the short ids the list prints.
	var ids []string
	for _, p := range prefixes {
		for _, s := range a.orc.Sessions() {
			if s.ID == p || (len(p) >= 8 && len(s.ID) >= len(p) && s.ID[:len(p)] == p) {
				ids = append(ids, s.ID)
			}
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no sessions match the given ids")
	}

	a.orc.Delete(ids)
	fmt.Printf("Deleted %d session(s)\n", len(ids))
	return nil
}

func runSessionsClear() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	n := len(a.orc.Sessions())
	a.orc.DeleteAllSessions()
	fmt.Printf("Deleted %d session(s)\n", n)
	return nil
}
