package chat

import (
	"context"
	"fmt"
	"path/filepath"

	apierrors "privateai/internal/errors"
	"privateai/internal/models"
)

// Fixed headers for attachment-derived messages.
const (
	transcriptHeader = "Transcription:\n\n"
	pdfHeader        = "PDF content (excerpt):\n\n"
)

// pdfExcerptLimit caps the extracted document text offered to the
// model, in characters.
const pdfExcerptLimit = 8000

// authErrorMessage is the conversation-visible text for credential failures.
const authErrorMessage = "Error: API key invalid or not configured. Check Settings."

// Send appends the user's message to the current session and runs the
// reply pipeline. Without a configured credential it routes straight
// to the error path: no user message is appended and no network call
// is attempted.
func (o *Orchestrator) Send(ctx context.Context, text string) {
	o.mu.Lock()
	if o.settings.EffectiveAPIKey() == "" {
		o.appendErrorLocked(o.currentID, apierrors.NewAuthError("no credential configured"))
		o.mu.Unlock()
		return
	}

	sessionID := o.currentID
	if sessionID == "" {
		o.mu.Unlock()
		return
	}
	o.appendLocked(sessionID, models.RoleUser, text)
	o.mu.Unlock()

	o.reply(ctx, sessionID)
}

// HandleAudio appends a notice naming the attached file, transcribes
// it, and appends either the transcript or an error message. The
// reply pipeline is not invoked for audio.
func (o *Orchestrator) HandleAudio(ctx context.Context, path string) {
	o.mu.Lock()
	sessionID := o.currentID
	if sessionID == "" {
		o.mu.Unlock()
		return
	}
	o.appendLocked(sessionID, models.RoleUser, fmt.Sprintf("[Audio attached: %s]", filepath.Base(path)))
	o.mu.Unlock()

	text, err := o.transcriber.Transcribe(ctx, path)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.appendErrorLocked(sessionID, err)
		return
	}
	o.appendLocked(sessionID, models.RoleAssistant, transcriptHeader+text)
}

// HandlePDF appends a notice naming the attached file, extracts its
// text, appends the first 8000 characters as a further user message,
// and runs the reply pipeline so the model responds to the document.
// On extraction failure an error message is appended and the pipeline
// is not invoked.
func (o *Orchestrator) HandlePDF(ctx context.Context, path string) {
	o.mu.Lock()
	sessionID := o.currentID
	if sessionID == "" {
		o.mu.Unlock()
		return
	}
	o.appendLocked(sessionID, models.RoleUser, fmt.Sprintf("[PDF attached: %s]", filepath.Base(path)))
	o.mu.Unlock()

	text, err := o.extractor.ExtractText(path)

	o.mu.Lock()
	if err != nil {
		o.appendErrorLocked(sessionID, err)
		o.mu.Unlock()
		return
	}
	appended := o.appendLocked(sessionID, models.RoleUser, pdfHeader+excerpt(text, pdfExcerptLimit))
	o.mu.Unlock()

	if appended {
		o.reply(ctx, sessionID)
	}
}

// reply is the pipeline turning the session's history into a model
// reply. It sets the typing flag for its duration, appends the reply
// (or the classified error) to the session, and kicks off detached
// title generation after the first user/assistant exchange.
func (o *Orchestrator) reply(ctx context.Context, sessionID string) {
	o.mu.Lock()
	o.typing = true
	history := o.historyLocked(sessionID)
	apiKey := o.settings.EffectiveAPIKey()
	modelID := o.settings.EffectiveModel()
	o.mu.Unlock()

	if history == nil {
		o.setTyping(false)
		return
	}

	replyText, err := o.llm.Generate(ctx, history, apiKey, modelID)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.typing = false

	if err != nil {
		o.appendErrorLocked(sessionID, err)
		return
	}
	if !o.appendLocked(sessionID, models.RoleAssistant, replyText) {
		return
	}
	if s, ok := o.findLocked(sessionID); ok && len(s.Messages) == 2 {
		o.generateTitleLocked(s, apiKey, modelID)
	}
}

// appendErrorLocked converts a failure into a persisted assistant
// message: the transcript is a complete record including failures.
// Caller holds the mutex.
func (o *Orchestrator) appendErrorLocked(sessionID string, err error) {
	var text string
	if apierrors.IsAuthError(err) {
		text = authErrorMessage
	} else {
		text = "Error: " + err.Error()
	}

	o.logger.Warn().Err(err).Str("session", sessionID).Msg("Operation failed")
	o.appendLocked(sessionID, models.RoleAssistant, text)
}

func (o *Orchestrator) setTyping(v bool) {
	o.mu.Lock()
	o.typing = v
	o.mu.Unlock()
}

// excerpt returns the first limit characters of text. Character here
// means rune: truncation must not split multi-byte sequences.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
