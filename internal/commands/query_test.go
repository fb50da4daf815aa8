package commands

import (
	"strings"
	"testing"

	"privateai/internal/models"
)

func TestRunQueryRejectsEmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		err := runQuery(prompt)
		if err == nil {
			t.Errorf("runQuery(%q) accepted an empty prompt", prompt)
			continue
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("runQuery(%q) error = %v", prompt, err)
		}
	}
}

func TestLastAssistantMessage(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(models.RoleUser, "hi"),
		models.NewMessage(models.RoleAssistant, "hello"),
		models.NewMessage(models.RoleUser, "more"),
		models.NewMessage(models.RoleAssistant, "final answer"),
	}

	got, ok := lastAssistantMessage(msgs)
	if !ok || got != "final answer" {
		t.Errorf("lastAssistantMessage = %q, %v", got, ok)
	}

	if _, ok := lastAssistantMessage(nil); ok {
		t.Error("lastAssistantMessage found a reply in an empty transcript")
	}
	if _, ok := lastAssistantMessage([]models.Message{models.NewMessage(models.RoleUser, "hi")}); ok {
		t.Error("lastAssistantMessage returned a user message")
	}
}
