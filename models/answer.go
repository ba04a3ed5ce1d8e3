package models

import "time"

// Answer belongs to exactly one question. Correct is the only mutable column.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index:idx_answer_question_correct;not null" json:"question_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Correct    bool      `gorm:"index:idx_answer_question_correct;not null;default:false" json:"correct"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	User       User      `json:"author"`

	VoteCount int64 `gorm:"->;-:migration" json:"vote_count"`
}
