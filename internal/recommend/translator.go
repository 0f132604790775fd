package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Spok95/cinema-bot/internal/domain/prefs"
	"github.com/Spok95/cinema-bot/internal/tmdb"
	"github.com/Spok95/cinema-bot/internal/vectorstore"
)

const (
	// Тексты пользователю — контракт, на них завязаны тесты.
	MsgUnknownGenre      = "I couldn’t find that genre—please try again."
	MsgNoRecommendations = "No recommendations found."

	defaultTopN = 5
)

// SimilaritySearcher — путь семантического поиска (вектор-индекс).
type SimilaritySearcher interface {
	Search(ctx context.Context, query string, topN int, where func(vectorstore.Meta) bool) ([]int64, error)
}

// MetadataAPI — прямой путь через discover + карточки фильмов.
// *tmdb.Client реализует интерфейс целиком.
type MetadataAPI interface {
	Discover(ctx context.Context, p tmdb.DiscoverParams) ([]tmdb.Movie, error)
	Details(ctx context.Context, id int64) (*tmdb.Movie, error)
	WatchProviders(ctx context.Context, id int64, region string) ([]string, error)
}

// Translator превращает заполненную анкету в подборку фильмов:
// валидация ответов, сборка фильтра, выбор пути извлечения
// (семантический поиск, при нуле результатов — discover), нормализация
// и рендер результата.
type Translator struct {
	genreIDs   map[string]int64
	genreNames map[int64]string
	store      SimilaritySearcher
	api        MetadataAPI
	log        *slog.Logger
}

func NewTranslator(genres []tmdb.Genre, store SimilaritySearcher, api MetadataAPI, log *slog.Logger) *Translator {
	byName := make(map[string]int64, len(genres))
	byID := make(map[int64]string, len(genres))
	for _, g := range genres {
		byName[strings.ToLower(g.Name)] = g.ID
		byID[g.ID] = g.Name
	}
	return &Translator{genreIDs: byName, genreNames: byID, store: store, api: api, log: log}
}

// Recommend возвращает готовые текстовые блоки, по одному на фильм.
// Никогда не возвращает пустой срез: нет результатов — одно сообщение
// MsgNoRecommendations. Ошибки коллабораторов деградируют до меньшей
// выборки (см. DESIGN.md), наружу не выходят.
func (t *Translator) Recommend(ctx context.Context, p prefs.Set, topN int) []string {
	if topN < 1 {
		topN = defaultTopN
	}

	filter, err := t.BuildFilter(p)
	if err != nil {
		// неизвестный жанр — жёсткий стоп до любого похода за данными
		return []string{MsgUnknownGenre}
	}

	ids := t.searchPath(ctx, p, topN, filter)
	if len(ids) == 0 {
		ids = t.discoverPath(ctx, p, topN, filter)
	}

	region := p[prefs.KeyRegion]
	var blocks []string
	for _, id := range ids {
		details, err := t.api.Details(ctx, id)
		if err != nil || details == nil {
			// промах по одному фильму просто выкидывает его из выдачи
			t.log.Debug("details lookup failed", "movie_id", id, "err", err)
			continue
		}

		var providers []string
		if region != "" {
			providers, err = t.api.WatchProviders(ctx, id, region)
			if err != nil {
				t.log.Debug("providers lookup failed", "movie_id", id, "err", err)
				continue
			}
		}
		blocks = append(blocks, t.renderMovie(*details, region != "", providers))
	}

	if len(blocks) == 0 {
		return []string{MsgNoRecommendations}
	}
	return blocks
}

// searchPath — первый путь: семантический запрос к вектор-индексу
// с фильтром по метаданным. Любая ошибка здесь — просто ноль результатов,
// дальше сработает fallback.
func (t *Translator) searchPath(ctx context.Context, p prefs.Set, topN int, filter Filter) []int64 {
	query := buildQuery(p)
	ids, err := t.store.Search(ctx, query, topN, filter.Matches)
	if err != nil {
		t.log.Warn("similarity search failed, falling back to discover", "err", err)
		return nil
	}
	return ids
}

// discoverPath — запасной путь: нативный запрос discover. API местами
// нестрого фильтрует по жанру, поэтому пережимаем результат на клиенте
// до усечения по topN.
func (t *Translator) discoverPath(ctx context.Context, p prefs.Set, topN int, filter Filter) []int64 {
	params := tmdb.DiscoverParams{
		GenreID:    filter.GenreID,
		RuntimeGTE: filter.RuntimeMin,
		RuntimeLTE: filter.RuntimeMax,
		SortBy:     discoverSort(p[prefs.KeyPopularity]),
	}
	if filter.YearFrom != 0 {
		params.ReleaseFrom = yearDate(filter.YearFrom, "01-01")
		params.ReleaseTo = yearDate(filter.YearTo, "12-31")
	}

	raw, err := t.api.Discover(ctx, params)
	if err != nil {
		t.log.Warn("discover failed", "err", err)
		return nil
	}

	var ids []int64
	for _, m := range raw {
		if filter.GenreID != 0 && !m.HasGenre(filter.GenreID) {
			continue
		}
		ids = append(ids, m.ID)
		if len(ids) == topN {
			break
		}
	}
	return ids
}

// discoverSort: «hidden gems» — сперва лучшие по оценке, иначе по популярности.
func discoverSort(popularity string) string {
	pop := strings.ToLower(popularity)
	if strings.Contains(pop, "hidden") || strings.Contains(pop, "gem") {
		return "vote_average.desc"
	}
	return "popularity.desc"
}

// buildQuery синтезирует текст семантического запроса из полной анкеты.
// Детерминированный шаблон: LLM-рантайм за рамками ядра.
func buildQuery(p prefs.Set) string {
	var sb strings.Builder
	if mood := p[prefs.KeyMood]; mood != "" {
		sb.WriteString(mood)
		sb.WriteString(" ")
	}
	sb.WriteString(p[prefs.KeyGenre])
	sb.WriteString(" movie")
	if dec := p[prefs.KeyDecade]; dec != "" {
		sb.WriteString(" from the ")
		sb.WriteString(dec)
	}
	if pop := p[prefs.KeyPopularity]; pop != "" {
		if strings.Contains(strings.ToLower(pop), "hidden") || strings.Contains(strings.ToLower(pop), "gem") {
			sb.WriteString(", a hidden gem")
		} else {
			sb.WriteString(", a popular hit")
		}
	}
	if rt := p[prefs.KeyRuntime]; rt != "" {
		sb.WriteString(", runtime ")
		sb.WriteString(rt)
	}
	return sb.String()
}

// Summary — краткая сводка анкеты для подтверждения перед подборкой.
func (t *Translator) Summary(p prefs.Set) string {
	labels := map[string]string{
		prefs.KeyGenre:      "Genre",
		prefs.KeyMood:       "Mood",
		prefs.KeyDecade:     "Decade",
		prefs.KeyPopularity: "Popularity",
		prefs.KeyRuntime:    "Runtime",
		prefs.KeyRegion:     "Region",
	}
	var lines []string
	for _, k := range prefs.Keys {
		if v, ok := p[k]; ok {
			lines = append(lines, labels[k]+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func yearDate(year int, suffix string) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%s", year, suffix)
}
