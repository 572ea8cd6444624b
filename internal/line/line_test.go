package line_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwabot/cwabot/internal/bot"
	"github.com/cwabot/cwabot/internal/line"
)

type fakeReplier struct {
	requests []*messaging_api.ReplyMessageRequest
	err      error
}

func (f *fakeReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func TestToMessages_Text(t *testing.T) {
	out := line.ToMessages([]bot.Message{bot.Text{Text: "hi"}})

	require.Len(t, out, 1)
	msg, ok := out[0].(messaging_api.TextMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text)
	assert.Nil(t, msg.QuickReply)
}

func TestToMessages_QuickReplies(t *testing.T) {
	out := line.ToMessages([]bot.Message{bot.Text{
		Text:         "請選擇區域：",
		QuickReplies: []bot.QuickReply{{Label: "北部", Text: "北部"}, {Label: "中部", Text: "中部"}},
	}})

	msg := out[0].(messaging_api.TextMessage)
	require.NotNil(t, msg.QuickReply)
	require.Len(t, msg.QuickReply.Items, 2)

	item := msg.QuickReply.Items[1]
	assert.Equal(t, "action", item.Type)
	action, ok := item.Action.(*messaging_api.MessageAction)
	require.True(t, ok)
	assert.Equal(t, "中部", action.Label)
	assert.Equal(t, "中部", action.Text)
}

func TestToMessages_Image(t *testing.T) {
	out := line.ToMessages([]bot.Message{bot.Image{OriginalURL: "https://a/o.png", PreviewURL: "https://a/p.png"}})

	assert.Equal(t, []messaging_api.MessageInterface{
		messaging_api.ImageMessage{OriginalContentUrl: "https://a/o.png", PreviewImageUrl: "https://a/p.png"},
	}, out)
}

func TestToMessages_Caps(t *testing.T) {
	var msgs []bot.Message
	for i := 0; i < 7; i++ {
		msgs = append(msgs, bot.Text{Text: fmt.Sprint(i)})
	}
	var replies []bot.QuickReply
	for i := 0; i < 20; i++ {
		replies = append(replies, bot.QuickReply{Label: fmt.Sprint(i), Text: fmt.Sprint(i)})
	}
	msgs[0] = bot.Text{Text: "menu", QuickReplies: replies}

	out := line.ToMessages(msgs)

	assert.Len(t, out, line.MaxMessagesPerReply)
	assert.Len(t, out[0].(messaging_api.TextMessage).QuickReply.Items, line.MaxQuickReplyItems)
}

func TestToMessages_TruncatesLongText(t *testing.T) {
	out := line.ToMessages([]bot.Message{bot.Text{Text: strings.Repeat("空", line.MaxTextLength+10)}})

	assert.Equal(t, line.MaxTextLength, utf8.RuneCountInString(out[0].(messaging_api.TextMessage).Text))
}

func TestResponder_Reply(t *testing.T) {
	replier := &fakeReplier{}
	responder := line.NewResponder(replier, zerolog.Nop())

	err := responder.Reply(context.Background(), "reply-token", []bot.Message{
		bot.Text{Text: "quake"},
		bot.Image{OriginalURL: "https://x/y.png", PreviewURL: "https://x/y.png"},
	})
	require.NoError(t, err)

	require.Len(t, replier.requests, 1)
	assert.Equal(t, "reply-token", replier.requests[0].ReplyToken)
	assert.Len(t, replier.requests[0].Messages, 2)
}

func TestResponder_ReplyError(t *testing.T) {
	replier := &fakeReplier{err: assert.AnError}
	responder := line.NewResponder(replier, zerolog.Nop())

	err := responder.Reply(context.Background(), "t", []bot.Message{bot.Text{Text: "x"}})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestResponder_ReplyNothing(t *testing.T) {
	replier := &fakeReplier{}

	err := line.NewResponder(replier, zerolog.Nop()).Reply(context.Background(), "t", nil)

	assert.NoError(t, err)
	assert.Empty(t, replier.requests)
}
