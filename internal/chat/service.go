package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/marketdesk/pkg/ai"
	pkgerrors "github.com/angelmondragon/marketdesk/pkg/errors"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

const (
	// ApologyReply is returned in place of a model answer when the completion fails.
	ApologyReply = "Sorry, something went wrong. Please try again."

	imageOnlyPrompt = "Analyze this image"
)

// SystemPrompt frames the assistant for the marketplace admin dashboard.
const SystemPrompt = `You are the assistant of a marketplace admin dashboard.
The dashboard manages four collections: categories, sellers, products and orders.
Products belong to a category and a seller. Orders reference a product and move through the statuses new, processing, shipped and delivered, or are cancelled.
Answer concisely. When the user shares an image or document, describe what is relevant for managing the marketplace.`

// Turn is one message of the conversation as the widget sends it.
type Turn struct {
	Role    ai.Role `json:"role" validate:"required,oneof=user assistant"`
	Content string  `json:"content" validate:"max=20000"`
	Image   string  `json:"image,omitempty"`
}

// Reply is the assistant answer appended to the conversation.
type Reply struct {
	Role    ai.Role `json:"role"`
	Content string  `json:"content"`
	Failed  bool    `json:"failed,omitempty"`
}

// Completer sends messages to the completion endpoint.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error)
}

type Options struct {
	Attempts  int
	Backoff   time.Duration
	MaxTokens int
}

// Service answers chat messages.
type Service struct {
	completer Completer
	logg      *logger.Logger
	opts      Options
}

func NewService(completer Completer, logg *logger.Logger, opts Options) (*Service, error) {
	if completer == nil {
		return nil, errors.New("completer required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Service{completer: completer, logg: logg, opts: opts}, nil
}

// Reply sends the system prompt, the prior turns and the new user turn to the model.
// A failed completion yields ApologyReply instead of an error.
func (s *Service) Reply(ctx context.Context, history []Turn, message, image string) (Reply, error) {
	text := strings.TrimSpace(message)
	image = strings.TrimSpace(image)
	if text == "" && image == "" {
		return Reply{}, pkgerrors.New(pkgerrors.CodeValidation, "message or image is required")
	}
	if text == "" {
		text = imageOnlyPrompt
	}

	turns := make([]Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, Turn{Role: ai.RoleUser, Content: text, Image: image})
	messages := BuildMessages(turns)
	answer, err := ai.WithRetry(ctx, s.opts.Attempts, s.opts.Backoff, func(ctx context.Context) (string, error) {
		return s.completer.Complete(ctx, messages, ai.Options{MaxTokens: s.opts.MaxTokens})
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "turns", len(history)+1), "chat.completion_failed", err)
		return Reply{Role: ai.RoleAssistant, Content: ApologyReply, Failed: true}, nil
	}
	return Reply{Role: ai.RoleAssistant, Content: answer}, nil
}

// BuildMessages prefixes the system prompt and turns image turns into text plus image parts.
func BuildMessages(turns []Turn) []ai.Message {
	messages := make([]ai.Message, 0, len(turns)+1)
	messages = append(messages, ai.SystemMessage(SystemPrompt))
	for _, turn := range turns {
		if turn.Image != "" {
			messages = append(messages, ai.Message{
				Role:  turn.Role,
				Parts: []ai.Part{ai.TextPart(turn.Content), ai.ImagePart(turn.Image)},
			})
			continue
		}
		messages = append(messages, ai.Message{Role: turn.Role, Text: turn.Content})
	}
	return messages
}
