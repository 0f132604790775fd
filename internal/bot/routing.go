package bot

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/cinema-bot/internal/dialog"
	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/recommend"
)

// Тексты вопросов анкеты. Порядок задаётся dialog.QuizOrder,
// ключи — prefs.Keys (индексы совпадают).
var questions = map[string]string{
	prefs.KeyGenre:      "🎭 What genre are you in the mood for? (e.g. comedy, drama, horror)",
	prefs.KeyMood:       "🙂 What mood should the movie match? (e.g. lighthearted, tense, thoughtful)",
	prefs.KeyDecade:     "📅 Which decade should it be from? (e.g. 1990s or 90s)",
	prefs.KeyPopularity: "🌟 Popular hits or hidden gems?",
	prefs.KeyRuntime:    "⏳ How long should it be? (e.g. <90, 90-120 or >120 minutes)",
	prefs.KeyRegion:     "🌍 Two-letter country code for streaming availability (e.g. US)",
}

func quizKey(st dialog.State) string {
	for i, s := range dialog.QuizOrder {
		if s == st {
			return prefs.Keys[i]
		}
	}
	return ""
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		saved, err := b.prefs.Recall(ctx, userID(chatID))
		if err != nil {
			b.log.Error("recall preferences failed", "chat_id", chatID, "err", err)
		}
		if saved != nil && saved.Complete() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitMode, dialog.Payload{})
			m := tgbotapi.NewMessage(chatID, "Welcome back! I still remember your taste. Reuse saved preferences or start over?")
			m.ReplyMarkup = modeKeyboard()
			b.send(m)
			return
		}
		b.startQuiz(ctx, chatID)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Commands:\n/start — get movie recommendations\n/help — this message"))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Try /help"))
	}
}

// startQuiz сбрасывает контекст и задаёт первый вопрос анкеты.
func (b *Bot) startQuiz(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.QuizOrder[0], dialog.Payload{})
	b.send(tgbotapi.NewMessage(chatID, "Let's find you a movie! A few quick questions."))
	b.askQuestion(chatID, prefs.Keys[0])
}

func (b *Bot) askQuestion(chatID int64, key string) {
	m := tgbotapi.NewMessage(chatID, questions[key])
	m.ReplyMarkup = navKeyboard()
	b.send(m)
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, _ := b.states.Get(ctx, chatID)

	key := quizKey(st.State)
	if key == "" {
		// вне анкеты текст не ждём
		b.send(tgbotapi.NewMessage(chatID, "Send /start to get movie recommendations."))
		return
	}

	value, err := b.translator.Validate(key, msg.Text)
	if err != nil {
		var verr *recommend.ValidationError
		if errors.As(err, &verr) {
			// шаг не продвигается, переспрашиваем с подсказкой
			b.send(tgbotapi.NewMessage(chatID, verr.Hint))
			return
		}
		b.log.Error("validate failed", "key", key, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
		return
	}

	p := st.Payload
	p[key] = value

	set := payloadToSet(p)
	next := set.NextKey()
	if next != "" {
		_ = b.states.Set(ctx, chatID, quizState(next), p)
		b.askQuestion(chatID, next)
		return
	}

	// анкета заполнена: запоминаем и сразу отдаём подборку
	if err := b.prefs.Save(ctx, userID(chatID), set); err != nil {
		b.log.Error("save preferences failed", "chat_id", chatID, "err", err)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateIdle, dialog.Payload{})
	b.sendRecommendations(ctx, chatID, set)
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case "nav:cancel":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Cancelled. Send /start when you're ready.")
		b.answerCallback(cb, "Cancelled")

	case "mode:prev":
		saved, err := b.prefs.Recall(ctx, userID(chatID))
		if err != nil || saved == nil || !saved.Complete() {
			// сохранённые предпочтения потерялись — начинаем заново
			b.answerCallback(cb, "")
			b.editTextAndClear(chatID, cb.Message.MessageID, "I couldn't load your saved preferences, let's start over.")
			b.startQuiz(ctx, chatID)
			return
		}
		b.answerCallback(cb, "")
		b.editTextAndClear(chatID, cb.Message.MessageID, "Using your saved preferences.")
		_ = b.states.Set(ctx, chatID, dialog.StateIdle, dialog.Payload{})
		b.sendRecommendations(ctx, chatID, saved)

	case "mode:new":
		b.answerCallback(cb, "")
		b.editTextAndClear(chatID, cb.Message.MessageID, "Starting a fresh questionnaire.")
		b.startQuiz(ctx, chatID)

	default:
		b.answerCallback(cb, "")
	}
}

// sendRecommendations: сводка анкеты, затем по сообщению на фильм.
func (b *Bot) sendRecommendations(ctx context.Context, chatID int64, set prefs.Set) {
	b.send(tgbotapi.NewMessage(chatID, "Here's what I'm looking for:\n"+b.translator.Summary(set)))
	for _, block := range b.translator.Recommend(ctx, set, b.topN) {
		b.send(tgbotapi.NewMessage(chatID, block))
	}
}

func quizState(key string) dialog.State {
	for i, k := range prefs.Keys {
		if k == key {
			return dialog.QuizOrder[i]
		}
	}
	return dialog.StateIdle
}

// payloadToSet: payload хранится через JSON, значения приходят как any.
func payloadToSet(p dialog.Payload) prefs.Set {
	set := prefs.Set{}
	for _, k := range prefs.Keys {
		if v, ok := dialog.GetString(p, k); ok {
			set[k] = v
		}
	}
	return set
}

func userID(chatID int64) string { return strconv.FormatInt(chatID, 10) }
