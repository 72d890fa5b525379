package models

const (
	RewardCoursePack  = "COURSE_PACK"
	RewardScholarship = "SCHOLARSHIP"
)

type Reward struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	RewardType        string  `json:"reward_type"`
	PointsRequired    int     `json:"points_required"`
	CoursePack        *int64  `json:"course_pack"`
	ScholarshipAmount *string `json:"scholarship_amount"`
}

type RedeemResult struct {
	Message         string `json:"message"`
	RemainingPoints int    `json:"remaining_points"`
}

type ReferralStats struct {
	ReferralCode   string        `json:"referral_code"`
	TotalReferrals int           `json:"total_referrals"`
	ReferralPoints int           `json:"referral_points"`
	Referrals      []UserProfile `json:"referrals"`
}
