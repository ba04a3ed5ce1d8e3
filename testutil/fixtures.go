package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/hasker/models"
)

// UserOption configures a fixture user.
type UserOption func(*models.User)

func WithUsername(username string) UserOption {
	return func(u *models.User) { u.Username = username }
}

// CreateTestUser inserts a user with a unique username.
func CreateTestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	u := &models.User{
		Username: "user_" + uuid.NewString()[:8],
		Email:    "user@example.com",
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTestQuestion inserts a question with the given tags at createdAt.
func CreateTestQuestion(t *testing.T, db *gorm.DB, authorID uint, title string, createdAt time.Time, tags ...string) *models.Question {
	t.Helper()

	q := &models.Question{
		UserID:    authorID,
		Title:     title,
		Body:      fmt.Sprintf("body of %s", title),
		CreatedAt: createdAt,
	}
	for _, name := range tags {
		var tag models.Tag
		if err := db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			t.Fatalf("failed to create tag: %v", err)
		}
		q.Tags = append(q.Tags, tag)
	}
	if err := db.Omit("User").Create(q).Error; err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return q
}

// CreateTestAnswer inserts an answer to questionID at createdAt.
func CreateTestAnswer(t *testing.T, db *gorm.DB, questionID, authorID uint, createdAt time.Time) *models.Answer {
	t.Helper()

	a := &models.Answer{
		QuestionID: questionID,
		UserID:     authorID,
		Body:       "answer",
		CreatedAt:  createdAt,
	}
	if err := db.Omit("User").Create(a).Error; err != nil {
		t.Fatalf("failed to create test answer: %v", err)
	}
	return a
}

// VoteQuestion records one vote per voter on questionID.
func VoteQuestion(t *testing.T, db *gorm.DB, questionID uint, voters ...*models.User) {
	t.Helper()
	for _, v := range voters {
		if err := db.Create(&models.QuestionVote{UserID: v.ID, QuestionID: questionID}).Error; err != nil {
			t.Fatalf("failed to vote question: %v", err)
		}
	}
}

// VoteAnswer records one vote per voter on answerID.
func VoteAnswer(t *testing.T, db *gorm.DB, answerID uint, voters ...*models.User) {
	t.Helper()
	for _, v := range voters {
		if err := db.Create(&models.AnswerVote{UserID: v.ID, AnswerID: answerID}).Error; err != nil {
			t.Fatalf("failed to vote answer: %v", err)
		}
	}
}

// CreateVoters makes n distinct users for vote fixtures.
func CreateVoters(t *testing.T, db *gorm.DB, n int) []*models.User {
	t.Helper()
	out := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, CreateTestUser(t, db))
	}
	return out
}
