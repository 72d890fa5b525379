package models

type QuizChoice struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type QuizQuestion struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Order   int          `json:"order"`
	Points  int          `json:"points"`
	Choices []QuizChoice `json:"choices"`
}

type Quiz struct {
	ID           int64          `json:"id"`
	Chapter      int64          `json:"chapter"`
	PassingScore int            `json:"passing_score"`
	Questions    []QuizQuestion `json:"questions"`
}

// QuizSubmission maps question ids to chosen choice ids. JSON object keys
// are the decimal question ids.
type QuizSubmission struct {
	Answers map[int64]int64 `json:"answers"`
}

// QuizResult is graded by the server on a 0..20 scale.
type QuizResult struct {
	Score                float64 `json:"score"`
	Passed               bool    `json:"passed"`
	CanUseReferralOption bool    `json:"can_use_referral_option"`
	NextChapterID        *int64  `json:"next_chapter_id,omitempty"`
	ReferralsNeeded      int     `json:"referrals_needed,omitempty"`
	CurrentReferrals     int     `json:"current_referrals,omitempty"`
	Message              string  `json:"message,omitempty"`
}

type BypassResult struct {
	Message       string `json:"message"`
	NextChapterID *int64 `json:"next_chapter_id"`
}
