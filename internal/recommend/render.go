package recommend

import (
	"fmt"
	"strings"

	"github.com/Spok95/cinema-bot/internal/tmdb"
)

// renderMovie — один текстовый блок на фильм, в порядке выдачи.
func (t *Translator) renderMovie(m tmdb.Movie, withProviders bool, providers []string) string {
	genres := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		name, ok := t.genreNames[id]
		if !ok {
			name = "Unknown"
		}
		genres = append(genres, name)
	}

	runtime := "N/A"
	if m.Runtime > 0 {
		runtime = fmt.Sprintf("%d mins", m.Runtime)
	}

	overview := m.Overview
	if overview == "" {
		overview = "No description"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎬 %s (%s)\n", m.Title, m.ReleaseYear())
	fmt.Fprintf(&sb, "⭐ %.1f/10 | ⏳ %s\n", m.VoteAverage, runtime)
	fmt.Fprintf(&sb, "🏷️ %s\n", strings.Join(genres, ", "))
	fmt.Fprintf(&sb, "📖 %s\n", overview)
	if withProviders {
		if len(providers) == 0 {
			sb.WriteString("📺 no streaming info found\n")
		} else {
			fmt.Fprintf(&sb, "📺 %s\n", strings.Join(providers, ", "))
		}
	}
	return sb.String()
}
