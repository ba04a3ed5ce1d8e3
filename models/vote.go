package models

import "time"

// QuestionVote is unique per (user, question); the index makes toggles race-free.
type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_vote_user_question" json:"user_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_vote_user_question;index" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerVote is unique per (user, answer).
type AnswerVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_answer_vote_user_answer" json:"user_id"`
	AnswerID  uint      `gorm:"not null;uniqueIndex:idx_answer_vote_user_answer;index" json:"answer_id"`
	CreatedAt time.Time `json:"created_at"`
}
