package services

import (
	"context"
	"strings"

	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/utils"
)

type AnswerService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

func NewAnswerService(q repository.QuestionRepository, a repository.AnswerRepository) *AnswerService {
	return &AnswerService{questions: q, answers: a}
}

// Create posts an answer to an existing question.
func (s *AnswerService) Create(ctx context.Context, actor Actor, questionID uint, body string) (*models.Answer, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(utils.Sanitize(body))
	if err := validateAnswerBody(body); err != nil {
		return nil, err
	}
	if err := s.questions.CheckExists(ctx, questionID); err != nil {
		return nil, err
	}

	a := &models.Answer{QuestionID: questionID, UserID: actor.ID, Body: body}
	if err := s.answers.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.answers.FindInQuestion(ctx, questionID, a.ID)
}
