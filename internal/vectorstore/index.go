package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Spok95/cinema-bot/internal/tmdb"
)

type Meta struct {
	GenreIDs    []int64 `json:"genre_ids"`
	ReleaseYear int     `json:"release_year"`
	Runtime     int     `json:"runtime"`
	Popularity  float64 `json:"popularity"`
}

type Doc struct {
	ID     int64     `json:"id"`
	Vector []float64 `json:"vector"`
	Meta   Meta      `json:"meta"`
}

// Index — простой вектор-индекс в памяти: полный перебор с косинусной
// близостью. Корпус из нескольких сотен фильмов, этого достаточно.
type Index struct {
	embedder Embedder
	docs     []Doc
}

func NewIndex(embedder Embedder) *Index {
	return &Index{embedder: embedder}
}

func (ix *Index) Len() int { return len(ix.docs) }

// Build заполняет индекс: дедупликация по id, эмбеддинг по overview
// (если пусто — по названию), фильмы без текста пропускаются.
func (ix *Index) Build(ctx context.Context, movies []tmdb.Movie) error {
	seen := map[int64]bool{}
	ix.docs = ix.docs[:0]

	for _, m := range movies {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		text := strings.TrimSpace(m.Overview)
		if text == "" {
			text = strings.TrimSpace(m.Title)
		}
		if text == "" {
			continue
		}

		vec, err := ix.embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed movie %d: %w", m.ID, err)
		}

		year := 0
		if y := m.ReleaseYear(); y != "N/A" {
			year, _ = strconv.Atoi(y)
		}
		ix.docs = append(ix.docs, Doc{
			ID:     m.ID,
			Vector: vec,
			Meta: Meta{
				GenreIDs:    m.GenreIDs,
				ReleaseYear: year,
				Runtime:     m.Runtime,
				Popularity:  m.Popularity,
			},
		})
	}
	return nil
}

// Search возвращает id документов, прошедших where, в порядке убывания
// косинусной близости к запросу, не больше topN.
func (ix *Index) Search(ctx context.Context, query string, topN int, where func(Meta) bool) ([]int64, error) {
	if topN < 1 {
		topN = 1
	}
	qvec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		id    int64
		score float64
	}
	var hits []scored
	for _, d := range ix.docs {
		if where != nil && !where(d.Meta) {
			continue
		}
		s, err := cosineSimilarity(qvec, d.Vector)
		if err != nil {
			continue
		}
		hits = append(hits, scored{d.ID, s})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topN {
		hits = hits[:topN]
	}

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}

func (ix *Index) Save(path string) error {
	raw, err := json.Marshal(ix.docs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (ix *Index) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &ix.docs)
}

func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have same length")
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (magA * magB), nil
}
