package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apierrors "privateai/internal/errors"
	"privateai/internal/models"
)

func TestSendAppendsUserAndReplyInOrder(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")
	o.Send(context.Background(), "how are you")
	o.Wait()

	msgs := o.Messages()
	if len(msgs) != 4 {
		t.Fatalf("have %d messages, want 4", len(msgs))
	}
	wantRoles := []models.Role{models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleAssistant}
	for i, want := range wantRoles {
		if msgs[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, msgs[i].Role, want)
		}
	}
	if msgs[0].Text != "hello" || msgs[2].Text != "how are you" {
		t.Error("user messages out of order")
	}

	llm.mu.Lock()
	last := llm.lastHistory
	llm.mu.Unlock()
	if len(last) != 3 || last[2].Text != "how are you" {
		t.Errorf("second generate saw history %v, want it ending in the sent message", last)
	}
}

func TestSendWithoutCredential(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{LLM: llm, Settings: fakeSettings{apiKey: ""}})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")

	msgs := o.Messages()
	if len(msgs) != 1 {
		t.Fatalf("have %d messages, want only the error message", len(msgs))
	}
	if msgs[0].Role != models.RoleAssistant || msgs[0].Text != authErrorMessage {
		t.Errorf("message = %+v, want assistant %q", msgs[0], authErrorMessage)
	}
	if gen, _ := llm.calls(); gen != 0 {
		t.Errorf("generate called %d times, want 0", gen)
	}
}

func TestSendWithoutSessionIsNoop(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{LLM: llm})

	o.Send(context.Background(), "hello")

	if gen, _ := llm.calls(); gen != 0 {
		t.Errorf("generate called %d times, want 0", gen)
	}
}

func TestGenerateFailureBecomesAssistantMessage(t *testing.T) {
	llm := &fakeLLM{generateFn: func([]models.Message) (string, error) {
		return "", apierrors.NewServerError(429, "/v1beta/models", "quota exceeded")
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")

	msgs := o.Messages()
	if len(msgs) != 2 {
		t.Fatalf("have %d messages, want user + error", len(msgs))
	}
	last := msgs[1]
	if last.Role != models.RoleAssistant || !strings.HasPrefix(last.Text, "Error: ") {
		t.Errorf("error message = %+v", last)
	}
	if o.IsTyping() {
		t.Error("typing flag left set after failure")
	}
}

func TestAuthFailureFromGenerateUsesFixedMessage(t *testing.T) {
	llm := &fakeLLM{generateFn: func([]models.Message) (string, error) {
		return "", apierrors.NewAuthError("key rejected")
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")

	msgs := o.Messages()
	if msgs[len(msgs)-1].Text != authErrorMessage {
		t.Errorf("auth failure surfaced as %q, want %q", msgs[len(msgs)-1].Text, authErrorMessage)
	}
}

func TestHandleAudioAppendsTranscript(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{
		LLM:         llm,
		Transcriber: &fakeTranscriber{text: "olá mundo"},
	})
	o.CreateNewSession()

	o.HandleAudio(context.Background(), "/tmp/recordings/clip.wav")

	msgs := o.Messages()
	if len(msgs) != 2 {
		t.Fatalf("have %d messages, want notice + transcript", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Text != "[Audio attached: clip.wav]" {
		t.Errorf("notice = %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Text != transcriptHeader+"olá mundo" {
		t.Errorf("transcript = %+v", msgs[1])
	}
	if gen, _ := llm.calls(); gen != 0 {
		t.Errorf("audio triggered the reply pipeline, generate called %d times", gen)
	}
}

func TestHandleAudioFailure(t *testing.T) {
	o := newTestOrchestrator(t, Deps{
		Transcriber: &fakeTranscriber{err: apierrors.NewUnavailableError("pt-BR")},
	})
	o.CreateNewSession()

	o.HandleAudio(context.Background(), "clip.wav")

	msgs := o.Messages()
	if len(msgs) != 2 {
		t.Fatalf("have %d messages, want notice + error", len(msgs))
	}
	if msgs[1].Role != models.RoleAssistant || !strings.HasPrefix(msgs[1].Text, "Error: ") {
		t.Errorf("error message = %+v", msgs[1])
	}
}

func TestHandlePDFRunsReplyPipeline(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{
		LLM:       llm,
		Extractor: &fakeExtractor{text: "page one\npage two\n"},
	})
	o.CreateNewSession()

	o.HandlePDF(context.Background(), "/docs/report.pdf")
	o.Wait()

	msgs := o.Messages()
	if len(msgs) != 3 {
		t.Fatalf("have %d messages, want notice + content + reply", len(msgs))
	}
	if msgs[0].Text != "[PDF attached: report.pdf]" {
		t.Errorf("notice = %q", msgs[0].Text)
	}
	if msgs[1].Role != models.RoleUser || msgs[1].Text != pdfHeader+"page one\npage two\n" {
		t.Errorf("content message = %+v", msgs[1])
	}
	if msgs[2].Role != models.RoleAssistant {
		t.Errorf("reply = %+v", msgs[2])
	}
	if gen, _ := llm.calls(); gen != 1 {
		t.Errorf("generate called %d times, want 1", gen)
	}
}

func TestHandlePDFTruncatesLongDocuments(t *testing.T) {
	long := strings.Repeat("ã", pdfExcerptLimit+500)
	o := newTestOrchestrator(t, Deps{Extractor: &fakeExtractor{text: long}})
	o.CreateNewSession()

	o.HandlePDF(context.Background(), "big.pdf")
	o.Wait()

	content := o.Messages()[1].Text
	body := strings.TrimPrefix(content, pdfHeader)
	if got := len([]rune(body)); got != pdfExcerptLimit {
		t.Errorf("excerpt is %d characters, want %d", got, pdfExcerptLimit)
	}
	if strings.ContainsRune(body, '�') {
		t.Error("truncation split a multi-byte character")
	}
}

func TestHandlePDFOpenFailure(t *testing.T) {
	llm := &fakeLLM{}
	o := newTestOrchestrator(t, Deps{
		LLM:       llm,
		Extractor: &fakeExtractor{err: apierrors.NewOpenError("bad.pdf", errors.New("not a PDF"))},
	})
	o.CreateNewSession()

	o.HandlePDF(context.Background(), "bad.pdf")

	msgs := o.Messages()
	if len(msgs) != 2 {
		t.Fatalf("have %d messages, want notice + error only", len(msgs))
	}
	if msgs[1].Role != models.RoleAssistant || !strings.HasPrefix(msgs[1].Text, "Error: ") {
		t.Errorf("error message = %+v", msgs[1])
	}
	if gen, _ := llm.calls(); gen != 0 {
		t.Errorf("failed extraction still triggered generate %d times", gen)
	}
}

func TestTitleGeneratedAfterFirstExchange(t *testing.T) {
	llm := &fakeLLM{summarizeFn: func([]models.Message) (string, error) {
		return "Greeting Chat", nil
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")
	o.Wait()

	cur, ok := o.CurrentSession()
	if !ok {
		t.Fatal("current session vanished")
	}
	if cur.Title != "Greeting Chat" {
		t.Errorf("title = %q, want the generated one", cur.Title)
	}

	// Further exchanges must not regenerate the title.
	o.Send(context.Background(), "more")
	o.Wait()
	if _, sum := llm.calls(); sum != 1 {
		t.Errorf("summarize called %d times, want 1", sum)
	}
}

func TestTitleFailureKeepsPlaceholder(t *testing.T) {
	llm := &fakeLLM{summarizeFn: func([]models.Message) (string, error) {
		return "", apierrors.NewServerError(500, "/v1beta/models", "boom")
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")
	o.Wait()

	cur, _ := o.CurrentSession()
	if cur.Title != models.PlaceholderTitle {
		t.Errorf("title = %q, want placeholder kept on failure", cur.Title)
	}
	if len(cur.Messages) != 2 {
		t.Errorf("title failure altered the transcript: %d messages", len(cur.Messages))
	}
}

func TestTitleForDeletedSessionIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	llm := &fakeLLM{summarizeFn: func([]models.Message) (string, error) {
		<-release
		return "Stale Title", nil
	}}
	saver := &recordingSaver{}
	o := newTestOrchestrator(t, Deps{LLM: llm, Saver: saver})
	o.CreateNewSession()

	o.Send(context.Background(), "hello")
	o.DeleteCurrentSession()
	before := len(saver.snapshots)
	close(release)
	o.Wait()

	if len(o.Sessions()) != 0 {
		t.Error("stale title result resurrected a deleted session")
	}
	saver.mu.Lock()
	after := len(saver.snapshots)
	saver.mu.Unlock()
	if after != before {
		t.Error("discarded title result still marked the collection dirty")
	}
}

func TestStaleReplyIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	llm := &fakeLLM{generateFn: func([]models.Message) (string, error) {
		close(started)
		<-release
		return "late reply", nil
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	done := make(chan struct{})
	go func() {
		o.Send(context.Background(), "hello")
		close(done)
	}()

	<-started
	o.DeleteCurrentSession()
	close(release)
	<-done
	o.Wait()

	if n := len(o.Sessions()); n != 0 {
		t.Errorf("have %d sessions, want 0: a late reply must not resurrect one", n)
	}
}

func TestIsTypingTracksReply(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	llm := &fakeLLM{generateFn: func([]models.Message) (string, error) {
		close(started)
		<-release
		return "reply", nil
	}}
	o := newTestOrchestrator(t, Deps{LLM: llm})
	o.CreateNewSession()

	if o.IsTyping() {
		t.Fatal("typing set before any reply")
	}

	done := make(chan struct{})
	go func() {
		o.Send(context.Background(), "hello")
		close(done)
	}()

	<-started
	if !o.IsTyping() {
		t.Error("typing not set while a reply is in flight")
	}
	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("send did not finish")
	}
	if o.IsTyping() {
		t.Error("typing still set after the reply landed")
	}
	o.Wait()
}

func TestExcerptRuneSafe(t *testing.T) {
	if got := excerpt("short", 10); got != "short" {
		t.Errorf("excerpt(short) = %q", got)
	}
	if got := excerpt("ação é", 4); got != "ação" {
		t.Errorf("excerpt = %q, want %q", got, "ação")
	}
}
