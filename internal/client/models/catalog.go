package models

type PhysicalCenter struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type FAQ struct {
	ID           int64  `json:"id"`
	Category     int64  `json:"category"`
	CategoryName string `json:"category_name"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
}

type FAQAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type MatchingAnswer struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type MatchingQuestion struct {
	ID      int64            `json:"id"`
	Text    string           `json:"text"`
	Order   int              `json:"order"`
	Answers []MatchingAnswer `json:"answers"`
}

type MatchingResponse struct {
	QuestionID int64 `json:"question_id"`
	AnswerID   int64 `json:"answer_id"`
}

type Profile struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        *string `json:"icon"`
}

type MatchingResult struct {
	RecommendedProfiles []Profile `json:"recommended_profiles"`
	Message             string    `json:"message"`
}

type ProfileSelection struct {
	Message string  `json:"message"`
	Profile Profile `json:"profile"`
}

// AdaptivePath steps are free-form JSON defined by the backend.
type AdaptivePath struct {
	ID             int64   `json:"id"`
	Profile        Profile `json:"profile"`
	AcademicLevel  string  `json:"academic_level"`
	Steps          []any   `json:"steps"`
	DurationMonths int     `json:"duration_months"`
}
