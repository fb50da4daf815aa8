// Package transcribe converts audio recordings to text through a
// speech-recognition engine.
package transcribe

import (
	"context"

	"github.com/rs/zerolog/log"

	apierrors "privateai/internal/errors"
)

// Result is one recognition event. Engines that produce partial
// hypotheses emit several results; only the final one counts.
type Result struct {
	Text  string
	Final bool
	Err   error
}

// Engine is a callback-based recognizer. Implementations may invoke
// emit any number of times (partial results, duplicate finals); the
// service guarantees its caller sees exactly one resolution.
type Engine interface {
	// Available reports whether the engine can recognize speech for
	// the given locale.
	Available(locale string) bool
	// Transcribe drives recognition of the file at path, emitting
	// results as they become available.
	Transcribe(ctx context.Context, path string, emit func(Result))
}

// Service exposes single-shot transcription over an Engine.
type Service struct {
	engine Engine
	locale string
}

// NewService creates a transcription service for the given locale.
func NewService(engine Engine, locale string) *Service {
	return &Service{engine: engine, locale: locale}
}

// Transcribe resolves exactly once per call: with the final transcript,
// or with an error. Partial results and anything emitted after the
// first resolution are ignored.
func (s *Service) Transcribe(ctx context.Context, path string) (string, error) {
	if s.engine == nil || !s.engine.Available(s.locale) {
		return "", apierrors.NewUnavailableError(s.locale)
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go s.engine.Transcribe(ctx, path, func(r Result) {
		if r.Err == nil && !r.Final {
			return // partial hypothesis
		}
		select {
		case done <- outcome{text: r.Text, err: r.Err}:
		default:
			// Already resolved; the engine fired again.
			log.Debug().Str("path", path).Msg("Ignoring duplicate recognition result")
		}
	})

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
