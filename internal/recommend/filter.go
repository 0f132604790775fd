package recommend

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/vectorstore"
)

// ErrUnknownGenre — жанр не резолвится в известный id. Жёсткий стоп:
// поиск не выполняется, пользователь получает сообщение.
var ErrUnknownGenre = errors.New("recommend: unknown genre")

// Filter — конъюнкция условий поверх метаданных фильма. Пустой фильтр
// (ни одного условия) пропускает всё — это не ошибка.
type Filter struct {
	GenreID    int64 // 0 — нет условия
	YearFrom   int   // 0 — нет нижней границы
	YearTo     int
	RuntimeMin *int
	RuntimeMax *int
}

// BuildFilter переводит предпочтения в условия: декада -> включительный
// диапазон лет [Y, Y+9], runtime -> границы, жанр -> id. Кривой runtime
// молча не даёт границы; неизвестный жанр — ErrUnknownGenre.
func (t *Translator) BuildFilter(p prefs.Set) (Filter, error) {
	var f Filter

	gid, ok := t.genreIDs[strings.ToLower(strings.TrimSpace(p[prefs.KeyGenre]))]
	if !ok {
		return Filter{}, ErrUnknownGenre
	}
	f.GenreID = gid

	dec := strings.ToLower(strings.TrimSpace(p[prefs.KeyDecade]))
	if strings.HasSuffix(dec, "s") {
		if ys, err := strconv.Atoi(strings.TrimSuffix(dec, "s")); err == nil {
			f.YearFrom, f.YearTo = ys, ys+9
		}
	}

	f.RuntimeMin, f.RuntimeMax = parseRuntime(p[prefs.KeyRuntime])
	return f, nil
}

// parseRuntime разбирает формы "<N", ">N", "N-M" (пробелы и суффикс "min"
// игнорируются). Всё прочее — нет границ.
func parseRuntime(raw string) (min, max *int) {
	rt := strings.NewReplacer(" ", "", "mins", "", "min", "").Replace(strings.ToLower(raw))
	switch {
	case strings.Contains(rt, "<"):
		if n, err := strconv.Atoi(rt[strings.LastIndex(rt, "<")+1:]); err == nil {
			max = &n
		}
	case strings.Contains(rt, ">"):
		if n, err := strconv.Atoi(rt[strings.LastIndex(rt, ">")+1:]); err == nil {
			min = &n
		}
	case strings.Contains(rt, "-"):
		parts := strings.SplitN(rt, "-", 2)
		lo, err1 := strconv.Atoi(parts[0])
		hi, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			min, max = &lo, &hi
		}
	}
	return min, max
}

// Matches проверяет метаданные документа против всех условий (AND).
func (f Filter) Matches(m vectorstore.Meta) bool {
	if f.GenreID != 0 {
		found := false
		for _, g := range m.GenreIDs {
			if g == f.GenreID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.YearFrom != 0 && m.ReleaseYear < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && m.ReleaseYear > f.YearTo {
		return false
	}
	if f.RuntimeMin != nil && m.Runtime < *f.RuntimeMin {
		return false
	}
	if f.RuntimeMax != nil && m.Runtime > *f.RuntimeMax {
		return false
	}
	return true
}
