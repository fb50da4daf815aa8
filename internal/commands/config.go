package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"privateai/internal/config"
	"privateai/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:

  model        Model id (e.g. gemini-1.5-pro-latest)
  language     Speech recognition locale (e.g. pt-BR, en-US)
  appearance   system, light, or dark
  api-key      Custom API key (empty string reverts to the default)
  openai-key   Transcription engine credential`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Warning:", err)
	}

	fmt.Printf("model:       %s\n", cfg.EffectiveModel())
	fmt.Printf("language:    %s\n", cfg.Locale())
	fmt.Printf("appearance:  %s\n", cfg.Appearance)
	fmt.Printf("api-key:     %s\n", keyStatus(cfg.CustomAPIKey))
	fmt.Printf("openai-key:  %s\n", keyStatus(cfg.OpenAIKey))
	return nil
}

// keyStatus reports whether a credential override is set without
// printing it.
func keyStatus(key string) string {
	if key == "" {
		return "(default)"
	}
	return "(custom, set)"
}

func runConfigSet(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Warning:", err)
	}

	switch key {
	case "model":
		if !validModel(value) {
			return fmt.Errorf("unknown model %q, known models: %v", value, models.AllModels())
		}
		cfg.ModelID = value
	case "language":
		cfg.Language = value
	case "appearance":
		if value != "system" && value != "light" && value != "dark" {
			return fmt.Errorf("appearance must be system, light, or dark")
		}
		cfg.Appearance = value
	case "api-key":
		cfg.CustomAPIKey = value
	case "openai-key":
		cfg.OpenAIKey = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s\n", key)
	return nil
}

func validModel(id string) bool {
	for _, m := range models.AllModels() {
		if m == id {
			return true
		}
	}
	return false
}
