package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client — тонкий адаптер над REST API TMDb. Одна попытка на запрос,
// без ретраев: промах по одному фильму — не ошибка всего запроса.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
}

func NewClient(baseURL, apiKey, language string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
		httpc:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb %s: status %s: %s", path, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var resp struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

func (c *Client) Discover(ctx context.Context, p DiscoverParams) ([]Movie, error) {
	params := url.Values{}
	if p.SortBy != "" {
		params.Set("sort_by", p.SortBy)
	}
	if p.GenreID != 0 {
		params.Set("with_genres", strconv.FormatInt(p.GenreID, 10))
	}
	if p.ReleaseFrom != "" {
		params.Set("primary_release_date.gte", p.ReleaseFrom)
	}
	if p.ReleaseTo != "" {
		params.Set("primary_release_date.lte", p.ReleaseTo)
	}
	if p.RuntimeGTE != nil {
		params.Set("with_runtime.gte", strconv.Itoa(*p.RuntimeGTE))
	}
	if p.RuntimeLTE != nil {
		params.Set("with_runtime.lte", strconv.Itoa(*p.RuntimeLTE))
	}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}

	var resp struct {
		Results []Movie `json:"results"`
	}
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Details возвращает полную карточку фильма. В ответе details жанры приходят
// объектами, а не списком id — нормализуем здесь же.
func (c *Client) Details(ctx context.Context, id int64) (*Movie, error) {
	var resp struct {
		Movie
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	m := resp.Movie
	for _, g := range resp.Genres {
		m.GenreIDs = append(m.GenreIDs, g.ID)
	}
	return &m, nil
}

// WatchProviders — названия стриминговых сервисов для региона (двухбуквенный
// код страны). Пустой список — не ошибка.
func (c *Client) WatchProviders(ctx context.Context, id int64, region string) ([]string, error) {
	var resp struct {
		Results map[string]struct {
			Flatrate []struct {
				ProviderName string `json:"provider_name"`
			} `json:"flatrate"`
		} `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), nil, &resp); err != nil {
		return nil, err
	}

	var out []string
	for _, p := range resp.Results[strings.ToUpper(region)].Flatrate {
		out = append(out, p.ProviderName)
	}
	return out, nil
}

// FetchTop выкачивает pages страниц discover по популярности и дотягивает
// карточку каждого фильма (ради runtime). Используется только в ingest.
func (c *Client) FetchTop(ctx context.Context, pages int) ([]Movie, error) {
	var out []Movie
	for page := 1; page <= pages; page++ {
		batch, err := c.Discover(ctx, DiscoverParams{SortBy: "popularity.desc", Page: page})
		if err != nil {
			return nil, err
		}
		for _, m := range batch {
			details, err := c.Details(ctx, m.ID)
			if err != nil {
				// один фильм не тянет за собой весь прогон
				continue
			}
			out = append(out, *details)
			time.Sleep(200 * time.Millisecond)
		}
	}
	return out, nil
}
