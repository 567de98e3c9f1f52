package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/angelmondragon/marketdesk/pkg/ai"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

type stubCompleter struct {
	answers  []string
	errs     []error
	calls    int
	messages []ai.Message
	opts     ai.Options
}

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	i := s.calls
	s.calls++
	s.messages = messages
	s.opts = opts
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.answers) {
		return s.answers[i], nil
	}
	return "", errors.New("no answer")
}

func newTestService(t *testing.T, completer Completer, opts Options) *Service {
	t.Helper()
	svc, err := NewService(completer, logger.New(logger.Options{Output: io.Discard}), opts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestReplyBuildsConversation(t *testing.T) {
	completer := &stubCompleter{answers: []string{"Hi there"}}
	svc := newTestService(t, completer, Options{MaxTokens: 256})

	history := []Turn{
		{Role: ai.RoleUser, Content: "hello"},
		{Role: ai.RoleAssistant, Content: "hello, how can I help?"},
	}
	reply, err := svc.Reply(context.Background(), history, "  what sells best?  ", "")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Content != "Hi there" || reply.Role != ai.RoleAssistant || reply.Failed {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if len(completer.messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(completer.messages))
	}
	if completer.messages[0].Role != ai.RoleSystem || completer.messages[0].Text != SystemPrompt {
		t.Fatalf("expected system prompt first")
	}
	if completer.messages[3].Text != "what sells best?" {
		t.Fatalf("unexpected user turn %+v", completer.messages[3])
	}
	if completer.opts.MaxTokens != 256 {
		t.Fatalf("expected max tokens forwarded, got %d", completer.opts.MaxTokens)
	}
}

func TestReplyImageOnlyTurn(t *testing.T) {
	completer := &stubCompleter{answers: []string{"A lamp"}}
	svc := newTestService(t, completer, Options{})

	if _, err := svc.Reply(context.Background(), nil, "", "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	last := completer.messages[len(completer.messages)-1]
	if len(last.Parts) != 2 {
		t.Fatalf("expected text and image parts, got %+v", last)
	}
	if last.Parts[0].Text != "Analyze this image" {
		t.Fatalf("unexpected default prompt %q", last.Parts[0].Text)
	}
	if last.Parts[1].Type != ai.PartImageURL || last.Parts[1].ImageURL.URL != "data:image/png;base64,AAAA" {
		t.Fatalf("unexpected image part %+v", last.Parts[1])
	}
}

func TestReplyFailureReturnsApology(t *testing.T) {
	completer := &stubCompleter{errs: []error{errors.New("down")}}
	svc := newTestService(t, completer, Options{})

	reply, err := svc.Reply(context.Background(), nil, "hi", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply.Content != ApologyReply || !reply.Failed {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestReplyRetriesWhenConfigured(t *testing.T) {
	completer := &stubCompleter{errs: []error{errors.New("flaky")}, answers: []string{"", "second try"}}
	svc := newTestService(t, completer, Options{Attempts: 2})

	reply, err := svc.Reply(context.Background(), nil, "hi", "")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Content != "second try" || completer.calls != 2 {
		t.Fatalf("unexpected reply %+v after %d calls", reply, completer.calls)
	}
}

func TestReplyRequiresInput(t *testing.T) {
	svc := newTestService(t, &stubCompleter{}, Options{})
	if _, err := svc.Reply(context.Background(), nil, "  ", ""); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
