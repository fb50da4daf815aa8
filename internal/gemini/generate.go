package gemini

import (
	"context"
	"fmt"
	"strings"

	"privateai/internal/models"
)

// FallbackTitle is used when summarization yields an empty result.
const FallbackTitle = "Chat"

// Generate sends the full ordered message history to the model and
// returns the reply text of the first candidate.
func (c *Client) Generate(ctx context.Context, history []models.Message, apiKey, modelID string) (string, error) {
	contents := make([]content, 0, len(history))
	for _, m := range history {
		contents = append(contents, content{
			Role:  apiRole(m.Role),
			Parts: []part{{Text: m.Text}},
		})
	}
	return c.do(ctx, contents, models.GenerateConfig(), apiKey, modelID)
}

// Summarize asks the model for a short conversation title based on the
// first two messages. The result is trimmed of whitespace and
// surrounding quotes; an empty result falls back to FallbackTitle.
func (c *Client) Summarize(ctx context.Context, history []models.Message, apiKey, modelID string) (string, error) {
	if len(history) > 2 {
		history = history[:2]
	}

	var snippet []string
	for _, m := range history {
		snippet = append(snippet, fmt.Sprintf("%s: %s", displayRole(m.Role), m.Text))
	}

	prompt := fmt.Sprintf(`Generate a short, concise title (max 5 words) for the conversation.
Do not use quotes.

CONVERSATION:
%s

CONCISE TITLE:`, strings.Join(snippet, "\n\n"))

	contents := []content{{Role: "user", Parts: []part{{Text: prompt}}}}

	title, err := c.do(ctx, contents, models.SummarizeConfig(), apiKey, modelID)
	if err != nil {
		return "", err
	}

	title = strings.TrimSpace(title)
	title = strings.Trim(title, "\"'“”‘’")
	title = strings.TrimSpace(title)
	if title == "" {
		return FallbackTitle, nil
	}
	return title, nil
}

func displayRole(r models.Role) string {
	if r == models.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
