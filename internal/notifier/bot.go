package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"PivotDesk/internal/analyst"
	"PivotDesk/internal/model"
)

// Analyzer runs one analysis per user request.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, horizon string) (*analyst.Report, error)
}

// Bot answers Telegram commands with analyses.
type Bot struct {
	Analyzer Analyzer
	Narrator *Narrator
	Notifier *TelegramNotifier
}

func NewBot(a Analyzer, n *Narrator, tn *TelegramNotifier) *Bot {
	return &Bot{Analyzer: a, Narrator: n, Notifier: tn}
}

const helpText = `PivotDesk commands:
/analyze SYMBOL [horizon] - trading plan
/diag SYMBOL [horizon] - plan with the numbers behind it
/help - this message`

func horizonHelp() string {
	var b strings.Builder
	b.WriteString("Horizons:")
	for _, h := range model.Horizons {
		fmt.Fprintf(&b, "\n  %s - %s", h, h.Label())
	}
	return b.String()
}

// HandleCommand turns one message into a reply; empty means no reply.
func (b *Bot) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	// Group chats address commands as /analyze@BotName.
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch cmd {
	case "/start", "/help":
		return helpText + "\n\n" + horizonHelp()
	case "/analyze", "/a", "/diag":
		if len(args) == 0 {
			return fmt.Sprintf("Usage: %s SYMBOL [short|mid|long]", cmd)
		}
		horizon := ""
		if len(args) > 1 {
			horizon = args[1]
		}
		rep, err := b.Analyzer.Analyze(ctx, args[0], horizon)
		if err != nil {
			return b.errorReply(err)
		}
		reply := b.Narrator.Summary(rep.Symbol, rep.Decision)
		if cmd == "/diag" {
			reply += "\n\n<pre>" + html.EscapeString(FormatDiagnostics(rep.Symbol, rep.Decision)) + "</pre>"
		}
		return reply
	default:
		return "Unknown command. Try /help"
	}
}

func (b *Bot) errorReply(err error) string {
	switch {
	case errors.Is(err, analyst.ErrBadHorizon):
		return "⚠️ Unknown horizon.\n" + horizonHelp()
	case errors.Is(err, analyst.ErrNoSymbol):
		return "⚠️ Please give a symbol, e.g. /analyze AAPL"
	default:
		return "⚠️ " + b.Narrator.escape(err.Error())
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI, pollTimeout int) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)
	log.Info().Str("bot", api.Self.UserName).Msg("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			log.Info().Msg("telegram polling stopped")
			return
		case up, ok := <-updates:
			if !ok {
				return
			}
			if up.Message == nil || up.Message.Text == "" {
				continue
			}
			chatID := up.Message.Chat.ID
			logger := log.With().Int64("chat_id", chatID).Logger()
			logger.Info().Str("text", up.Message.Text).Msg("received command")

			reply := b.HandleCommand(logger.WithContext(ctx), up.Message.Text)
			if reply == "" {
				continue
			}
			if err := b.Notifier.Send(chatID, reply); err != nil {
				logger.Error().Err(err).Msg("send reply")
			}
		}
	}
}
