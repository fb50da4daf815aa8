// Package chat implements the conversation orchestration engine: it
// owns the in-memory session collection and the active-session
// selection, and it is the sole writer of the session store and the
// sole caller of the model, transcription, and extraction services.
package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"privateai/internal/models"
)

// Generator is the LLM client surface used by the orchestrator.
type Generator interface {
	Generate(ctx context.Context, history []models.Message, apiKey, modelID string) (string, error)
	Summarize(ctx context.Context, history []models.Message, apiKey, modelID string) (string, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Extractor converts a document file to plain text.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// Store loads the persisted session collection.
type Store interface {
	Load() []*models.Session
}

// Saver receives collection snapshots for asynchronous persistence.
type Saver interface {
	MarkDirty(snapshot []*models.Session)
}

// Settings supplies the configuration values the orchestrator reads
// but does not own.
type Settings interface {
	EffectiveAPIKey() string
	EffectiveModel() string
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Store       Store
	Saver       Saver
	LLM         Generator
	Transcriber Transcriber
	Extractor   Extractor
	Settings    Settings
}

// Orchestrator coordinates sessions, messages, and the services that
// produce them. All shared state lives behind one mutex: every
// mutation of the collection, the current-session id, and the typing
// flag happens under it, while service calls run outside it and
// re-acquire it to apply their results.
type Orchestrator struct {
	mu        sync.Mutex
	sessions  []*models.Session
	currentID string
	typing    bool

	store       Store
	saver       Saver
	llm         Generator
	transcriber Transcriber
	extractor   Extractor
	settings    Settings
	logger      zerolog.Logger

	jobs sync.WaitGroup
}

// New creates an Orchestrator with an empty collection. Call
// LoadSessions to populate it from the store.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		sessions:    []*models.Session{},
		store:       deps.Store,
		saver:       deps.Saver,
		llm:         deps.LLM,
		transcriber: deps.Transcriber,
		extractor:   deps.Extractor,
		settings:    deps.Settings,
		logger:      log.With().Str("component", "chat").Logger(),
	}
}

// LoadSessions reads the full collection from the store. When no
// session is current yet, the first (newest) session becomes current.
// Idempotent; safe to call once at start-up.
func (o *Orchestrator) LoadSessions() {
	sessions := o.store.Load()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions = sessions
	if o.currentID == "" && len(sessions) > 0 {
		o.currentID = sessions[0].ID
	}
}

// CreateNewSession prepends a fresh session with a placeholder title
// and makes it current.
func (o *Orchestrator) CreateNewSession() *models.Session {
	s := models.NewSession()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions = append([]*models.Session{s}, o.sessions...)
	o.currentID = s.ID
	o.markDirtyLocked()
	return s.Clone()
}

// Delete removes every session whose id is in ids. If the current
// session was removed, the first remaining session becomes current, or
// none if the collection is empty. The removal is atomic with respect
// to the in-memory collection.
func (o *Orchestrator) Delete(ids []string) {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.sessions[:0]
	for _, s := range o.sessions {
		if !doomed[s.ID] {
			kept = append(kept, s)
		}
	}
	o.sessions = kept

	if doomed[o.currentID] {
		o.currentID = ""
		if len(o.sessions) > 0 {
			o.currentID = o.sessions[0].ID
		}
	}
	o.markDirtyLocked()
}

// DeleteCurrentSession deletes the current session if one exists.
func (o *Orchestrator) DeleteCurrentSession() {
	o.mu.Lock()
	id := o.currentID
	o.mu.Unlock()

	if id == "" {
		return
	}
	o.Delete([]string{id})
}

// DeleteAllSessions clears the collection and unsets the current session.
func (o *Orchestrator) DeleteAllSessions() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions = []*models.Session{}
	o.currentID = ""
	o.markDirtyLocked()
}

// SelectSession makes the session with the given id current. Returns
// false when no such session exists.
func (o *Orchestrator) SelectSession(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.findLocked(id); !ok {
		return false
	}
	o.currentID = id
	return true
}

// Sessions returns a deep copy of the collection in order.
func (o *Orchestrator) Sessions() []*models.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return models.CloneSessions(o.sessions)
}

// CurrentSession returns a copy of the current session, if any.
func (o *Orchestrator) CurrentSession() (*models.Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.findLocked(o.currentID)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// CurrentSessionID returns the current session id, or empty.
func (o *Orchestrator) CurrentSessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentID
}

// Messages returns a copy of the current session's messages.
func (o *Orchestrator) Messages() []models.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.historyLocked(o.currentID)
}

// IsTyping reports whether a reply pipeline is in flight. The flag is
// orchestrator-global, not per-session.
func (o *Orchestrator) IsTyping() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.typing
}

// Wait blocks until detached background work (title generation) has
// completed. Call before shutting down the saver.
func (o *Orchestrator) Wait() {
	o.jobs.Wait()
}

// findLocked locates a session by id. Caller holds the mutex.
func (o *Orchestrator) findLocked(id string) (*models.Session, bool) {
	if id == "" {
		return nil, false
	}
	for _, s := range o.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// historyLocked snapshots a session's messages. Returns nil when the
// session does not exist. Caller holds the mutex.
func (o *Orchestrator) historyLocked(id string) []models.Message {
	s, ok := o.findLocked(id)
	if !ok {
		return nil
	}
	history := make([]models.Message, len(s.Messages))
	copy(history, s.Messages)
	return history
}

// appendLocked appends a message to the session with the given id and
// marks the collection dirty. Returns false when the session no longer
// exists, in which case the message is discarded: results arriving for
// a deleted session must not resurrect it. Caller holds the mutex.
func (o *Orchestrator) appendLocked(sessionID string, role models.Role, text string) bool {
	s, ok := o.findLocked(sessionID)
	if !ok {
		o.logger.Debug().Str("session", sessionID).Msg("Discarding message for deleted session")
		return false
	}
	s.Messages = append(s.Messages, models.NewMessage(role, text))
	o.markDirtyLocked()
	return true
}

// markDirtyLocked hands the saver a deep snapshot of the collection.
// Caller holds the mutex.
func (o *Orchestrator) markDirtyLocked() {
	if o.saver != nil {
		o.saver.MarkDirty(models.CloneSessions(o.sessions))
	}
}
