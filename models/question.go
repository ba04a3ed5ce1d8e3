package models

import "time"

// Question is authored once and never edited.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:50;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	User      User      `json:"author"`
	Tags      []Tag     `gorm:"many2many:question_tags;" json:"tags"`

	// Filled by ranking queries only.
	VoteCount   int64 `gorm:"->;-:migration" json:"vote_count"`
	AnswerCount int64 `gorm:"->;-:migration" json:"answer_count"`
}

// Tag names are not unique-constrained; lookups reuse the first match.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;index;not null" json:"name"`
}
