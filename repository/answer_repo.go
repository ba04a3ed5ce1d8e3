package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/hasker/models"
)

const answerRankedSelect = "answers.*, (SELECT COUNT(*) FROM answer_votes WHERE answer_votes.answer_id = answers.id) AS vote_count"

type AnswerRepo struct {
	db *gorm.DB
}

func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

func (r *AnswerRepo) Create(ctx context.Context, a *models.Answer) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("User").Create(a).Error, "create answer")
}

// FindInQuestion loads an answer only if it belongs to questionID.
func (r *AnswerRepo) FindInQuestion(ctx context.Context, questionID, answerID uint) (*models.Answer, error) {
	var a models.Answer
	err := r.db.WithContext(ctx).
		Select(answerRankedSelect).
		Preload("User", publicAuthor).
		Where("answers.id = ? AND answers.question_id = ?", answerID, questionID).
		First(&a).Error
	if err != nil {
		return nil, notFoundOr(err, "answer %d of question %d", answerID, questionID)
	}
	return &a, nil
}

// ListRanked orders answers by votes, newest first on ties.
func (r *AnswerRepo) ListRanked(ctx context.Context, questionID uint, offset, limit int) ([]models.Answer, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Answer{}).Where("answers.question_id = ?", questionID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count answers")
	}

	var items []models.Answer
	err := base().
		Select(answerRankedSelect).
		Preload("User", publicAuthor).
		Order("vote_count DESC").
		Order("answers.created_at DESC").
		Order("answers.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list answers")
	}
	return items, total, nil
}

// MarkCorrect makes answerID the only correct answer of questionID. The
// question row is locked so concurrent selections serialise.
func (r *AnswerRepo) MarkCorrect(ctx context.Context, questionID, answerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := lockForUpdate(tx).Select("id").Where("id = ?", questionID).First(&q).Error; err != nil {
			return notFoundOr(err, "question %d", questionID)
		}

		var a models.Answer
		if err := tx.Select("id").Where("id = ? AND question_id = ?", answerID, questionID).First(&a).Error; err != nil {
			return notFoundOr(err, "answer %d of question %d", answerID, questionID)
		}

		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ? AND correct = ?", questionID, answerID, true).
			Update("correct", false).Error; err != nil {
			return errors.Wrap(err, "clear correct flag")
		}
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Update("correct", true).Error; err != nil {
			return errors.Wrap(err, "set correct flag")
		}
		return nil
	})
}
