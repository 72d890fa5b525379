package models

// Dates are "YYYY-MM-DD" strings as served.

type JobOffer struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
	SalaryRange    string `json:"salary_range"`
	ApplicationURL string `json:"application_url"`
	PostedDate     string `json:"posted_date"`
	ExpiryDate     string `json:"expiry_date"`
}

type Competition struct {
	ID                   int64  `json:"id"`
	Title                string `json:"title"`
	Organizer            string `json:"organizer"`
	Description          string `json:"description"`
	Eligibility          string `json:"eligibility"`
	RegistrationURL      string `json:"registration_url"`
	RegistrationDeadline string `json:"registration_deadline"`
	ExamDate             string `json:"exam_date"`
}
