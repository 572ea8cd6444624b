package handler_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwabot/cwabot/internal/api/handler"
	"github.com/cwabot/cwabot/internal/api/models"
	"github.com/cwabot/cwabot/internal/bot"
)

const testChannelSecret = "test-channel-secret"

type echoDispatcher struct {
	mu     sync.Mutex
	tokens []string
}

func (d *echoDispatcher) Dispatch(_ context.Context, token string) []bot.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens = append(d.tokens, token)
	return []bot.Message{bot.Text{Text: "echo:" + token}}
}

type reply struct {
	token string
	msgs  []bot.Message
}

type recordingResponder struct {
	mu      sync.Mutex
	replies []reply
	err     error
}

func (r *recordingResponder) Reply(_ context.Context, replyToken string, msgs []bot.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply{token: replyToken, msgs: msgs})
	return r.err
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func textEvent(replyToken, text string) string {
	return `{"type":"message","mode":"active","timestamp":1719792000000,` +
		`"source":{"type":"user","userId":"U0123"},"webhookEventId":"01J1` + replyToken + `",` +
		`"deliveryContext":{"isRedelivery":false},"replyToken":"` + replyToken + `",` +
		`"message":{"type":"text","id":"5001","quoteToken":"q","text":"` + text + `"}}`
}

func callbackBody(events ...string) []byte {
	body := `{"destination":"Ubot","events":[`
	for i, e := range events {
		if i > 0 {
			body += ","
		}
		body += e
	}
	return []byte(body + "]}")
}

func newCallbackRequest(body []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)
	return req
}

func TestCallback_DispatchesTextMessages(t *testing.T) {
	dispatcher := &echoDispatcher{}
	responder := &recordingResponder{}
	h := handler.NewCallbackHandler(testChannelSecret, dispatcher, responder, zerolog.Nop())

	body := callbackBody(textEvent("rt-1", "W"), textEvent("rt-2", "北部地區"))
	rec := httptest.NewRecorder()
	h.Callback(rec, newCallbackRequest(body, sign(testChannelSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"W", "北部地區"}, dispatcher.tokens)
	require.Len(t, responder.replies, 2)
	assert.Equal(t, "rt-1", responder.replies[0].token)
	assert.Equal(t, []bot.Message{bot.Text{Text: "echo:W"}}, responder.replies[0].msgs)
	assert.Equal(t, "rt-2", responder.replies[1].token)
}

func TestCallback_IgnoresOtherEvents(t *testing.T) {
	dispatcher := &echoDispatcher{}
	responder := &recordingResponder{}
	h := handler.NewCallbackHandler(testChannelSecret, dispatcher, responder, zerolog.Nop())

	follow := `{"type":"follow","mode":"active","timestamp":1719792000000,` +
		`"source":{"type":"user","userId":"U0123"},"webhookEventId":"01J1F",` +
		`"deliveryContext":{"isRedelivery":false},"replyToken":"rt-f","follow":{"isUnblocked":false}}`
	sticker := `{"type":"message","mode":"active","timestamp":1719792000000,` +
		`"source":{"type":"user","userId":"U0123"},"webhookEventId":"01J1S",` +
		`"deliveryContext":{"isRedelivery":false},"replyToken":"rt-s",` +
		`"message":{"type":"sticker","id":"5002","quoteToken":"q","packageId":"1","stickerId":"1","stickerResourceType":"STATIC"}}`

	body := callbackBody(follow, sticker)
	rec := httptest.NewRecorder()
	h.Callback(rec, newCallbackRequest(body, sign(testChannelSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, dispatcher.tokens)
	assert.Empty(t, responder.replies)
}

func TestCallback_EmptyEventsVerification(t *testing.T) {
	responder := &recordingResponder{}
	h := handler.NewCallbackHandler(testChannelSecret, &echoDispatcher{}, responder, zerolog.Nop())

	body := callbackBody()
	rec := httptest.NewRecorder()
	h.Callback(rec, newCallbackRequest(body, sign(testChannelSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, responder.replies)
}

func TestCallback_InvalidSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
	}{
		{"wrong secret", sign("another-secret", callbackBody(textEvent("rt-1", "W")))},
		{"missing", ""},
		{"not base64", "%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &echoDispatcher{}
			responder := &recordingResponder{}
			h := handler.NewCallbackHandler(testChannelSecret, dispatcher, responder, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Callback(rec, newCallbackRequest(callbackBody(textEvent("rt-1", "W")), tt.signature))

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, models.ProblemTypeInvalidSignature, problem.Type)
			assert.Equal(t, "/callback", problem.Instance)
			assert.Empty(t, dispatcher.tokens)
			assert.Empty(t, responder.replies)
		})
	}
}

func TestCallback_MalformedBody(t *testing.T) {
	responder := &recordingResponder{}
	h := handler.NewCallbackHandler(testChannelSecret, &echoDispatcher{}, responder, zerolog.Nop())

	body := []byte(`{"events":`)
	rec := httptest.NewRecorder()
	h.Callback(rec, newCallbackRequest(body, sign(testChannelSecret, body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.Empty(t, responder.replies)
}

func TestCallback_ReplyFailureStillOK(t *testing.T) {
	var logs bytes.Buffer
	responder := &recordingResponder{err: errors.New("invalid reply token")}
	h := handler.NewCallbackHandler(testChannelSecret, &echoDispatcher{}, responder, zerolog.New(&logs))

	body := callbackBody(textEvent("rt-1", "E"))
	rec := httptest.NewRecorder()
	h.Callback(rec, newCallbackRequest(body, sign(testChannelSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, responder.replies, 1)
	assert.Contains(t, logs.String(), "reply failed")
	assert.Contains(t, logs.String(), "invalid reply token")
}
