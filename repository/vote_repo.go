package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/hasker/models"
)

// VoteRepo relies on the (user, target) unique indexes: a duplicate insert is
// swallowed by the database rather than checked beforehand.
type VoteRepo struct {
	db *gorm.DB
}

func NewVoteRepo(db *gorm.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) insertIgnore(ctx context.Context, value interface{}, target string) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: target}},
		DoNothing: true,
	}).Create(value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *VoteRepo) AddQuestionVote(ctx context.Context, userID, questionID uint) (bool, error) {
	added, err := r.insertIgnore(ctx, &models.QuestionVote{UserID: userID, QuestionID: questionID}, "question_id")
	return added, errors.Wrapf(err, "vote question %d", questionID)
}

func (r *VoteRepo) RemoveQuestionVote(ctx context.Context, userID, questionID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&models.QuestionVote{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "unvote question %d", questionID)
	}
	return res.RowsAffected > 0, nil
}

func (r *VoteRepo) CountQuestionVotes(ctx context.Context, questionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.QuestionVote{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, errors.Wrapf(err, "count votes of question %d", questionID)
}

func (r *VoteRepo) AddAnswerVote(ctx context.Context, userID, answerID uint) (bool, error) {
	added, err := r.insertIgnore(ctx, &models.AnswerVote{UserID: userID, AnswerID: answerID}, "answer_id")
	return added, errors.Wrapf(err, "vote answer %d", answerID)
}

func (r *VoteRepo) RemoveAnswerVote(ctx context.Context, userID, answerID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND answer_id = ?", userID, answerID).
		Delete(&models.AnswerVote{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "unvote answer %d", answerID)
	}
	return res.RowsAffected > 0, nil
}

func (r *VoteRepo) CountAnswerVotes(ctx context.Context, answerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.AnswerVote{}).Where("answer_id = ?", answerID).Count(&n).Error
	return n, errors.Wrapf(err, "count votes of answer %d", answerID)
}
