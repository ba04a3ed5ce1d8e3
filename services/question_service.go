package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/utils"
)

type CreateQuestionInput struct {
	Title string
	Body  string
	Tags  string // comma-separated
}

// QuestionService authors, reads and deletes questions.
type QuestionService struct {
	questions repository.QuestionRepository
	cache     Cache
}

func NewQuestionService(q repository.QuestionRepository, cache Cache) *QuestionService {
	return &QuestionService{questions: q, cache: cache}
}

func (s *QuestionService) Create(ctx context.Context, actor Actor, in CreateQuestionInput) (*models.Question, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	// Limits apply to the sanitized text, which is what gets stored and searched.
	title := strings.TrimSpace(utils.SanitizePlain(in.Title))
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(utils.Sanitize(in.Body))
	if body == "" {
		return nil, errs.Validation("body cannot be empty")
	}
	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, err
	}

	q := &models.Question{
		UserID: actor.ID,
		Title:  title,
		Body:   body,
	}
	if err := s.questions.Create(ctx, q, tags); err != nil {
		return nil, err
	}
	return s.questions.FindByID(ctx, q.ID)
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*models.Question, error) {
	return s.questions.FindByID(ctx, id)
}

// Delete removes a question with its answers and votes. Only the author or an
// admin may do so.
func (s *QuestionService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := actor.require(); err != nil {
		return err
	}
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if q.UserID != actor.ID && !actor.Admin {
		return errors.Wrapf(errs.ErrForbidden, "question %d belongs to another user", id)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	invalidateTrending(ctx, s.cache)
	return nil
}
