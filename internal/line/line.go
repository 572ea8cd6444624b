// Package line adapts bot replies to the LINE Messaging API.
package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/bot"
)

// LINE Messaging API limits.
const (
	MaxMessagesPerReply   = 5
	MaxQuickReplyItems    = 13
	MaxTextLength         = 5000
	MaxQuickReplyLabelLen = 20
)

// Replier sends a reply. *messaging_api.MessagingApiAPI satisfies it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// NewReplier creates a Messaging API client for the channel access token.
func NewReplier(channelAccessToken string) (*messaging_api.MessagingApiAPI, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating messaging api client: %w", err)
	}
	return api, nil
}

// Responder delivers bot replies through a Replier.
type Responder struct {
	replier Replier
	logger  zerolog.Logger
}

// NewResponder creates a Responder.
func NewResponder(replier Replier, logger zerolog.Logger) *Responder {
	return &Responder{replier: replier, logger: logger}
}

// Reply sends msgs against replyToken.
func (r *Responder) Reply(ctx context.Context, replyToken string, msgs []bot.Message) error {
	req := &messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   ToMessages(msgs),
	}
	if len(req.Messages) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("replying: %w", err)
	}

	resp, err := r.replier.ReplyMessage(req)
	if err != nil {
		return fmt.Errorf("replying: %w", err)
	}

	ev := r.logger.Debug().Int("messages", len(req.Messages))
	if resp != nil {
		ev = ev.Int("sent", len(resp.SentMessages))
	}
	ev.Msg("reply sent")
	return nil
}

// ToMessages converts bot replies to Messaging API messages, keeping the
// first MaxMessagesPerReply.
func ToMessages(msgs []bot.Message) []messaging_api.MessageInterface {
	if len(msgs) > MaxMessagesPerReply {
		msgs = msgs[:MaxMessagesPerReply]
	}

	out := make([]messaging_api.MessageInterface, 0, len(msgs))
	for _, m := range msgs {
		switch m := m.(type) {
		case bot.Text:
			out = append(out, toTextMessage(m))
		case bot.Image:
			out = append(out, messaging_api.ImageMessage{
				OriginalContentUrl: m.OriginalURL,
				PreviewImageUrl:    m.PreviewURL,
			})
		}
	}
	return out
}

func toTextMessage(m bot.Text) messaging_api.TextMessage {
	msg := messaging_api.TextMessage{Text: truncate(m.Text, MaxTextLength)}
	if len(m.QuickReplies) == 0 {
		return msg
	}

	replies := m.QuickReplies
	if len(replies) > MaxQuickReplyItems {
		replies = replies[:MaxQuickReplyItems]
	}

	items := make([]messaging_api.QuickReplyItem, 0, len(replies))
	for _, qr := range replies {
		items = append(items, messaging_api.QuickReplyItem{
			Type: "action",
			Action: &messaging_api.MessageAction{
				Label: truncate(qr.Label, MaxQuickReplyLabelLen),
				Text:  qr.Text,
			},
		})
	}
	msg.QuickReply = &messaging_api.QuickReply{Items: items}
	return msg
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
