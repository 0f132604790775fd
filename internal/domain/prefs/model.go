package prefs

// Ключи анкеты в фиксированном порядке. Ключ появляется в наборе только
// после того, как валидатор принял ответ; заполнение строго по порядку.
const (
	KeyGenre      = "genre"
	KeyMood       = "mood"
	KeyDecade     = "decade"
	KeyPopularity = "popularity"
	KeyRuntime    = "runtime"
	KeyRegion     = "region"
)

var Keys = []string{KeyGenre, KeyMood, KeyDecade, KeyPopularity, KeyRuntime, KeyRegion}

type Set map[string]string

// NextKey — первый незаполненный ключ анкеты, либо "" если анкета полная.
func (s Set) NextKey() string {
	for _, k := range Keys {
		if _, ok := s[k]; !ok {
			return k
		}
	}
	return ""
}

func (s Set) Complete() bool { return s.NextKey() == "" }
