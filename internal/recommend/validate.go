package recommend

import (
	"regexp"
	"strings"

	"github.com/Spok95/cinema-bot/internal/domain/prefs"
)

// ValidationError — отказ валидатора с подсказкой для пользователя.
// Вопрос анкеты при этом не продвигается, бот переспрашивает.
type ValidationError struct {
	Hint string
}

func (e *ValidationError) Error() string { return e.Hint }

var (
	decadeRe  = regexp.MustCompile(`\b(\d{2,4})s?\b`)
	runtimeRe = regexp.MustCompile(`^[<>]?\s*\d+(-\d+)?`)
	regionRe  = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// Validate нормализует ответ на вопрос анкеты или отклоняет его.
// mood и popularity — свободный текст, принимаются как есть.
func (t *Translator) Validate(key, raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))

	switch key {
	case prefs.KeyGenre:
		if _, ok := t.genreIDs[value]; !ok {
			return "", &ValidationError{Hint: "'" + value + "' is not a recognized genre. Please try again."}
		}
		return value, nil

	case prefs.KeyDecade:
		m := decadeRe.FindStringSubmatch(value)
		if m == nil {
			return "", &ValidationError{Hint: "Please specify a decade like '1990s' or '80s'"}
		}
		return normalizeDecade(m[1]), nil

	case prefs.KeyRuntime:
		if !runtimeRe.MatchString(value) {
			return "", &ValidationError{Hint: "Please use formats like '<90', '90-120', or '>120'"}
		}
		return value, nil

	case prefs.KeyRegion:
		if !regionRe.MatchString(value) {
			return "", &ValidationError{Hint: "Please give a two-letter country code like 'US' or 'GB'"}
		}
		return strings.ToUpper(value), nil
	}

	return value, nil
}

// normalizeDecade приводит токен к канонической форме "YYY0s".
// Для двух цифр век угадывается эвристикой: ведущая "9" -> 19xx, иначе 20xx.
// Эвристика заведомо лживая для "05"=2005 и т.п., оставлена намеренно,
// см. DESIGN.md.
func normalizeDecade(tok string) string {
	if len(tok) == 2 {
		century := "20"
		if tok[0] == '9' {
			century = "19"
		}
		return century + tok[:1] + "0s"
	}
	return tok[:len(tok)-1] + "0s"
}
