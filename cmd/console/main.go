// Package main provides a console front end for trying the bot without LINE.
// Each input line is dispatched as if it were a text message.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/cwabot/cwabot/internal/app"
	"github.com/cwabot/cwabot/internal/bot"
	"github.com/cwabot/cwabot/internal/config"
	"github.com/cwabot/cwabot/internal/telemetry"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	log := telemetry.NewLogger(os.Stderr, telemetry.LoggerConfig{
		ServiceName:    "cwabot-console",
		ServiceVersion: Version,
		Level:          zerolog.WarnLevel,
		Console:        true,
	})

	cfg, err := config.LoadConsole()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, app.Options{Logger: log})
	if err := repl(ctx, a.Dispatcher, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("console stopped")
		os.Exit(1) //nolint:gocritic // stop is best-effort
	}
}

type dispatcher interface {
	Dispatch(ctx context.Context, token string) []bot.Message
}

func repl(ctx context.Context, d dispatcher, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, bot.HelpText)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		for _, m := range d.Dispatch(ctx, scanner.Text()) {
			fmt.Fprintln(out, render(m))
		}
	}
}

func render(m bot.Message) string {
	switch m := m.(type) {
	case bot.Text:
		if len(m.QuickReplies) == 0 {
			return m.Text
		}
		labels := make([]string, 0, len(m.QuickReplies))
		for _, qr := range m.QuickReplies {
			labels = append(labels, "["+qr.Label+"]")
		}
		return m.Text + "\n" + strings.Join(labels, " ")
	case bot.Image:
		return "🖼 " + m.OriginalURL
	default:
		return fmt.Sprintf("%v", m)
	}
}
