package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketdesk/api/responses"
	"github.com/angelmondragon/marketdesk/api/validators"
	"github.com/angelmondragon/marketdesk/internal/chat"
	"github.com/angelmondragon/marketdesk/pkg/logger"
)

type ChatService interface {
	Reply(ctx context.Context, history []chat.Turn, message, image string) (chat.Reply, error)
}

type chatRequest struct {
	History []chat.Turn `json:"history" validate:"max=100,dive"`
	Message string      `json:"message" validate:"max=20000"`
	Image   string      `json:"image,omitempty"`
}

// Chat answers one turn. The body is capped at maxBytes since images travel inline as data URIs.
func Chat(svc ChatService, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		var req chatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		reply, err := svc.Reply(ctx, req.History, req.Message, req.Image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, reply)
	}
}
