package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
)

const (
	questionVoteCountSQL   = "(SELECT COUNT(*) FROM question_votes WHERE question_votes.question_id = questions.id)"
	questionAnswerCountSQL = "(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id)"
	questionRankedSelect   = "questions.*, " + questionVoteCountSQL + " AS vote_count, " + questionAnswerCountSQL + " AS answer_count"
)

// QuestionRepo stores questions and their tag links.
type QuestionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create inserts q and links it to tagNames, creating missing tags.
func (r *QuestionRepo) Create(ctx context.Context, q *models.Question, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			var tag models.Tag
			if err := tx.Where(models.Tag{Name: name}).Order("id").FirstOrCreate(&tag).Error; err != nil {
				return errors.Wrapf(err, "find or create tag %q", name)
			}
			tags = append(tags, tag)
		}
		q.Tags = tags
		return tx.Omit("User").Create(q).Error
	})
	return errors.Wrap(err, "create question")
}

// FindByID loads a question with author, tags and counts.
func (r *QuestionRepo) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).
		Select(questionRankedSelect).
		Preload("User", publicAuthor).
		Preload("Tags").
		Where("questions.id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, notFoundOr(err, "question %d", id)
	}
	return &q, nil
}

// CheckExists returns an ErrNotFound error unless question id exists.
func (r *QuestionRepo) CheckExists(ctx context.Context, id uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.Wrapf(err, "question %d", id)
	}
	if n == 0 {
		return errs.NotFound("question %d", id)
	}
	return nil
}

// Delete removes a question together with its answers, their votes and the
// question's votes. Tags are shared and stay.
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).Pluck("id", &answerIDs).Error; err != nil {
			return errors.Wrap(err, "collect answers")
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.AnswerVote{}).Error; err != nil {
				return errors.Wrap(err, "delete answer votes")
			}
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return errors.Wrap(err, "delete answers")
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionVote{}).Error; err != nil {
			return errors.Wrap(err, "delete question votes")
		}
		if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "unlink tags")
		}
		res := tx.Delete(&models.Question{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete question")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("question %d", id)
		}
		return nil
	})
}

func (r *QuestionRepo) filtered(ctx context.Context, f QuestionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Question{})
	if f.TitleContains != "" {
		expr, arg := containsExpr(r.db, "questions.title", f.TitleContains)
		q = q.Where(expr, arg)
	}
	if f.TagContains != "" {
		expr, arg := containsExpr(r.db, "tags.name", f.TagContains)
		q = q.Where("EXISTS (SELECT 1 FROM question_tags JOIN tags ON tags.id = question_tags.tag_id"+
			" WHERE question_tags.question_id = questions.id AND "+expr+")", arg)
	}
	return q
}

// ListRanked returns one page of questions annotated with vote and answer
// counts, plus the number of questions matching f.
func (r *QuestionRepo) ListRanked(ctx context.Context, f QuestionFilter, order Order, offset, limit int) ([]models.Question, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count questions")
	}

	q := r.filtered(ctx, f).Select(questionRankedSelect).Preload("User", publicAuthor).Preload("Tags")
	switch order {
	case ByRecency:
		q = q.Order("questions.created_at DESC").Order("questions.id DESC")
	default:
		q = q.Order("vote_count DESC").Order("questions.created_at DESC").Order("questions.id DESC")
	}

	var items []models.Question
	if err := q.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list questions")
	}
	return items, total, nil
}

// Trending ranks voted questions by vote count; newer, then higher id, wins ties.
func (r *QuestionRepo) Trending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	var out []TrendingEntry
	err := r.db.WithContext(ctx).
		Table("question_votes").
		Select("questions.id AS question_id, questions.title AS title, COUNT(question_votes.id) AS vote_count").
		Joins("JOIN questions ON questions.id = question_votes.question_id").
		Group("questions.id, questions.title, questions.created_at").
		Order("vote_count DESC").
		Order("questions.created_at DESC").
		Order("questions.id DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "trending questions")
	}
	return out, nil
}
