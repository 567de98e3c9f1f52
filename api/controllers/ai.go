package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/api/validators"
	"github.com/angelmondragon/marketdesk/pkg/ai"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

// TextAssistant exposes the text helpers of the AI client.
type TextAssistant interface {
	Summarize(ctx context.Context, text string, opts ai.SummarizeOptions) (string, error)
	Translate(ctx context.Context, text, target, source string) (string, error)
	Classify(ctx context.Context, text string, categories []string) (ai.Classification, error)
}

type summarizeRequest struct {
	Text         string `json:"text" validate:"required,max=50000"`
	MaxSentences int    `json:"max_sentences" validate:"omitempty,min=1,max=20"`
	Language     string `json:"language" validate:"max=64"`
}

type translateRequest struct {
	Text   string `json:"text" validate:"required,max=50000"`
	Target string `json:"target" validate:"required,max=64"`
	Source string `json:"source" validate:"max=64"`
}

type classifyRequest struct {
	Text       string   `json:"text" validate:"required,max=50000"`
	Categories []string `json:"categories" validate:"required,min=1,max=50,dive,required,max=200"`
}

func Summarize(svc TextAssistant, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req summarizeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		summary, err := svc.Summarize(ctx, req.Text, ai.SummarizeOptions{MaxSentences: req.MaxSentences, Language: req.Language})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"summary": summary})
	}
}

func Translate(svc TextAssistant, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req translateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		translation, err := svc.Translate(ctx, req.Text, req.Target, req.Source)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"translation": translation})
	}
}

func Classify(svc TextAssistant, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req classifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Classify(ctx, req.Text, req.Categories)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
