package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/api/middleware"
	"github.com/cwabot/cwabot/internal/api/response"
	"github.com/cwabot/cwabot/internal/bot"
)

// Dispatcher turns a text token into bot replies.
type Dispatcher interface {
	Dispatch(ctx context.Context, token string) []bot.Message
}

// Responder delivers replies against a reply token.
type Responder interface {
	Reply(ctx context.Context, replyToken string, msgs []bot.Message) error
}

// CallbackHandler serves the LINE webhook.
type CallbackHandler struct {
	channelSecret string
	dispatcher    Dispatcher
	responder     Responder
	logger        zerolog.Logger
}

// NewCallbackHandler creates a CallbackHandler.
func NewCallbackHandler(channelSecret string, dispatcher Dispatcher, responder Responder, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		channelSecret: channelSecret,
		dispatcher:    dispatcher,
		responder:     responder,
		logger:        logger,
	}
}

// Callback handles POST /callback. Text messages are dispatched and replied
// to; every other event is ignored. Reply failures are logged but still
// answered with 200 so LINE does not redeliver.
func (h *CallbackHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn().
				Str("request_id", middleware.GetRequestID(r.Context())).
				Msg("webhook signature rejected")
			response.InvalidSignature(w, r)
			return
		}
		h.logger.Warn().Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("webhook body rejected")
		response.BadRequest(w, r, "request body is not a webhook payload")
		return
	}

	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		h.handleText(r.Context(), e.ReplyToken, text.Text)
	}

	response.OK(w, r)
}

func (h *CallbackHandler) handleText(ctx context.Context, replyToken, text string) {
	msgs := h.dispatcher.Dispatch(ctx, text)
	if err := h.responder.Reply(ctx, replyToken, msgs); err != nil {
		h.logger.Error().Err(err).
			Str("request_id", middleware.GetRequestID(ctx)).
			Int("messages", len(msgs)).
			Msg("reply failed")
	}
}
