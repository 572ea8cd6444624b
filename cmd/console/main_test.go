package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwabot/cwabot/internal/bot"
)

type scriptedDispatcher map[string][]bot.Message

func (d scriptedDispatcher) Dispatch(_ context.Context, token string) []bot.Message {
	return d[token]
}

func TestRepl(t *testing.T) {
	d := scriptedDispatcher{
		"W": {bot.Text{Text: "請選擇區域：", QuickReplies: []bot.QuickReply{{Label: "北部", Text: "北部"}, {Label: "中部", Text: "中部"}}}},
		"R": {bot.Image{OriginalURL: "https://radar.example.org/echo.png?1", PreviewURL: "https://radar.example.org/echo.png?1"}},
	}

	var out bytes.Buffer
	require.NoError(t, repl(context.Background(), d, strings.NewReader("W\nR\n"), &out))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, bot.HelpText+"\n"))
	assert.Contains(t, got, "> 請選擇區域：\n[北部] [中部]\n")
	assert.Contains(t, got, "> 🖼 https://radar.example.org/echo.png?1\n")
}

func TestRepl_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	d := dispatchFunc(func(context.Context, string) []bot.Message {
		calls++
		return nil
	})

	require.NoError(t, repl(ctx, d, strings.NewReader("W\nE\n"), &bytes.Buffer{}))
	assert.Zero(t, calls)
}

type dispatchFunc func(context.Context, string) []bot.Message

func (f dispatchFunc) Dispatch(ctx context.Context, token string) []bot.Message {
	return f(ctx, token)
}
