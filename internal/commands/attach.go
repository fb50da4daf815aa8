package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"privateai/internal/models"
)

var audioCmd = &cobra.Command{
	Use:   "audio <file>",
	Short: "Transcribe an audio file into the current chat",
	Long: `Attach an audio file to the current chat and transcribe it.
The transcript is stored in the session; no reply is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAttachment(args[0], "Transcribing", func(ctx context.Context, a *app, path string) {
			a.orc.HandleAudio(ctx, path)
		})
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Discuss a PDF document in the current chat",
	Long: `Attach a PDF file to the current chat. Its text is extracted,
added to the conversation, and the model replies to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAttachment(args[0], "Reading document", func(ctx context.Context, a *app, path string) {
			a.orc.HandlePDF(ctx, path)
		})
	},
}

// runAttachment feeds a file into the current session and prints the
// messages the turn produced.
func runAttachment(path, activity string, handle func(ctx context.Context, a *app, path string)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, ok := a.orc.CurrentSession(); !ok {
		a.orc.CreateNewSession()
	}
	before := len(a.orc.Messages())

	rawOutput := !isStdoutTTY()
	var spin *spinner
	if !rawOutput {
		spin = newSpinner(activity)
		spin.start()
	}

	handle(context.Background(), a, path)

	appended := a.orc.Messages()[before:]
	failed := turnFailed(appended)
	if !rawOutput {
		if failed {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	for _, msg := range appended {
		if msg.Role == models.RoleUser {
			continue
		}
		if rawOutput {
			fmt.Println(msg.Text)
		} else {
			printReply(msg.Text, a.cfg.Appearance)
		}
	}

	if failed {
		return fmt.Errorf("attachment failed")
	}
	return nil
}

// turnFailed reports whether the turn surfaced an error message.
func turnFailed(appended []models.Message) bool {
	for _, msg := range appended {
		if msg.Role == models.RoleAssistant && strings.HasPrefix(msg.Text, "Error: ") {
			return true
		}
	}
	return false
}
