package chat

import (
	"context"

	"privateai/internal/models"
)

// generateTitleLocked spawns detached title generation for a session,
// keyed by its id. It snapshots the first two messages now; when the
// summary arrives, the title is written back only if the session still
// exists in the collection. Failures are logged and swallowed; there
// is no retry. Caller holds the mutex.
func (o *Orchestrator) generateTitleLocked(s *models.Session, apiKey, modelID string) {
	if len(s.Messages) < 2 {
		return
	}

	sessionID := s.ID
	history := make([]models.Message, 2)
	copy(history, s.Messages[:2])

	o.jobs.Add(1)
	go func() {
		defer o.jobs.Done()

		title, err := o.llm.Summarize(context.Background(), history, apiKey, modelID)
		if err != nil {
			o.logger.Warn().Err(err).Str("session", sessionID).Msg("Title generation failed")
			return
		}

		o.mu.Lock()
		defer o.mu.Unlock()
		if target, ok := o.findLocked(sessionID); ok {
			target.Title = title
			o.markDirtyLocked()
		}
	}()
}
