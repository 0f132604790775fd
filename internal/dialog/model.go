package dialog

type State string

const (
	StateIdle State = "idle"

	// Анкета предпочтений — строго по порядку, без пропусков
	StateQuizGenre      State = "quiz_genre"
	StateQuizMood       State = "quiz_mood"
	StateQuizDecade     State = "quiz_decade"
	StateQuizPopularity State = "quiz_popularity"
	StateQuizRuntime    State = "quiz_runtime"
	StateQuizRegion     State = "quiz_region"

	// Возвращение: предложить сохранённые предпочтения или новую анкету
	StateAwaitMode State = "await_mode"
)

// QuizOrder — порядок шагов анкеты. Следующий шаг открывается только
// после того, как валидатор принял ответ на текущий.
var QuizOrder = []State{
	StateQuizGenre,
	StateQuizMood,
	StateQuizDecade,
	StateQuizPopularity,
	StateQuizRuntime,
	StateQuizRegion,
}

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
