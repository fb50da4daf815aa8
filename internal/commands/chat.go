package commands

import (
	"github.com/spf13/cobra"

	"privateai/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

Chats persist across runs; use /sessions inside the chat to switch
between them. Type 'exit', 'quit', or press Ctrl+C to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// The TUI always has a session to type into.
	if _, ok := a.orc.CurrentSession(); !ok {
		a.orc.CreateNewSession()
	}

	return tui.Run(a.orc, getModel(a.cfg), a.cfg.Appearance)
}
