package models

import "time"

type ChapterStatus string

const (
	StatusLocked     ChapterStatus = "LOCKED"
	StatusNotStarted ChapterStatus = "NOT_STARTED"
	StatusInProgress ChapterStatus = "IN_PROGRESS"
	StatusCompleted  ChapterStatus = "COMPLETED"
)

type Chapter struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Order       int    `json:"order"`
	ContentText string `json:"content_text"`
	VideoURL    string `json:"video_url"`
}

// CoursePack prices are decimals serialized as strings ("15000.00").
type CoursePack struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Thumbnail   *string   `json:"thumbnail"`
	Profile     int64     `json:"profile"`
	Chapters    []Chapter `json:"chapters"`
	IsPurchased bool      `json:"is_purchased"`
}

type ChapterProgress struct {
	ID           int64         `json:"id"`
	Chapter      int64         `json:"chapter"`
	Status       ChapterStatus `json:"status"`
	LastAccessed *time.Time    `json:"last_accessed"`

	// Accessible is false when the backend refused access (403); Status is
	// then LOCKED. Never sent by the server.
	Accessible bool `json:"-"`
}

type PurchaseResult struct {
	Message          string `json:"message"`
	PurchaseID       int64  `json:"purchase_id"`
	ChaptersUnlocked int    `json:"chapters_unlocked"`
}

// ChapterOutline pairs a chapter with the caller's progress on it.
type ChapterOutline struct {
	Chapter Chapter
	Status  ChapterStatus
}

type CourseOutline struct {
	Pack     CoursePack
	Chapters []ChapterOutline
}

// Completed counts chapters in COMPLETED state.
func (o CourseOutline) Completed() int {
	n := 0
	for _, c := range o.Chapters {
		if c.Status == StatusCompleted {
			n++
		}
	}
	return n
}
