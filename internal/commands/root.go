// Package commands provides the CLI commands for privateai.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"privateai/internal/config"
)

var (
	// Global flags
	modelFlag   string
	outputFlag  string
	fileFlag    string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "privateai [prompt]",
	Short: "Local-first CLI for conversational AI",
	Long: `privateai is a local-first conversational client. Chats are stored
on your machine and sent to the model provider only when you submit
a message.

Examples:
  privateai chat                      Start interactive chat
  privateai "What is Go?"             Send a single query
  privateai -f prompt.md              Read prompt from file
  cat prompt.md | privateai           Read prompt from stdin
  privateai "Hello" -o response.md    Save response to file
  privateai audio voice.m4a           Transcribe an audio file into the chat
  privateai pdf report.pdf            Discuss a PDF document`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("privateai %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data))
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data))
		}

		if len(args) > 0 {
			return runQuery(args[0])
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g. gemini-1.5-pro-latest)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging to the console")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(pdfCmd)
}

// getModel returns the model to use (from flag or config)
func getModel(cfg config.Config) string {
	if modelFlag != "" {
		return modelFlag
	}
	return cfg.EffectiveModel()
}
