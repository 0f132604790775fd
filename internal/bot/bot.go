package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/cinema-bot/internal/dialog"
	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/recommend"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	log        *slog.Logger
	states     *dialog.Repo
	prefs      *prefs.Repo
	translator *recommend.Translator
	topN       int
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	statesRepo *dialog.Repo, prefsRepo *prefs.Repo,
	translator *recommend.Translator, topN int) *Bot {

	return &Bot{
		api: api, log: log, states: statesRepo, prefs: prefsRepo,
		translator: translator, topN: topN,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}
