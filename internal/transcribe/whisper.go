package transcribe

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperEngine recognizes speech through the OpenAI Whisper API. It
// produces a single final result per file.
type WhisperEngine struct {
	client *openai.Client
}

// NewWhisperEngine creates an engine backed by the given API key. An
// empty key yields an engine that reports itself unavailable.
func NewWhisperEngine(apiKey string) *WhisperEngine {
	if apiKey == "" {
		return &WhisperEngine{}
	}
	return &WhisperEngine{client: openai.NewClient(apiKey)}
}

// Available reports whether the engine has a credential. Whisper is
// multilingual, so any locale is accepted once configured.
func (e *WhisperEngine) Available(string) bool {
	return e.client != nil
}

// Transcribe runs one recognition request and emits its final result.
func (e *WhisperEngine) Transcribe(ctx context.Context, path string, emit func(Result)) {
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		emit(Result{Err: err})
		return
	}
	emit(Result{Text: strings.TrimSpace(resp.Text), Final: true})
}
