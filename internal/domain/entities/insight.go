package entities

// AnswerCount is one bucket of a question's answer distribution.
type AnswerCount struct {
	Answer string `json:"answer"`
	Count  int    `json:"count"`
}

// QuestionInsight is the per-question view served to the insights
// panel: how clients answered one pre-screening question across the
// selected range, plus an optional AI-written summary for clinicians.
type QuestionInsight struct {
	Question     string        `json:"question"`
	Field        string        `json:"field"`
	Answered     int           `json:"answered"`
	Distribution []AnswerCount `json:"distribution"`
	Summary      string        `json:"summary,omitempty"`
}
