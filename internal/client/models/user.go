package models

import "strings"

// AcademicLevel values accepted by the backend.
const (
	LevelBEPC    = "BEPC"
	LevelBAC     = "BAC"
	LevelLicence = "LICENCE"
)

type UserProfile struct {
	ID                   int64  `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Phone                string `json:"phone"`
	City                 string `json:"city"`
	AcademicLevel        string `json:"academic_level"`
	ReferralCode         string `json:"referral_code"`
	ReferralPoints       int    `json:"referral_points"`
	HasCompletedMatching bool   `json:"has_completed_matching"`
	SelectedProfile      *int64 `json:"selected_profile"`
}

// DisplayName is "First Last" when known, else the username.
func (u UserProfile) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}

// Registration is the body of POST /api/auth/register/.
type Registration struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	City             string `json:"city,omitempty"`
	AcademicLevel    string `json:"academic_level,omitempty"`
	ReferralCodeUsed string `json:"referral_code_used,omitempty"`
}

// UserSummary is the short user shape returned by conversations and search.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

func (u UserSummary) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}
