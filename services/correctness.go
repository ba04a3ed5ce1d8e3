package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/repository"
)

// Correctness keeps at most one correct answer per question and lets only the
// question's author choose it.
type Correctness struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

func NewCorrectness(q repository.QuestionRepository, a repository.AnswerRepository) *Correctness {
	return &Correctness{questions: q, answers: a}
}

// SelectCorrect marks answerID correct and clears the flag on the question's other answers.
func (c *Correctness) SelectCorrect(ctx context.Context, actor Actor, questionID, answerID uint) error {
	if err := actor.require(); err != nil {
		return err
	}
	q, err := c.questions.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if q.UserID != actor.ID {
		return errors.Wrapf(errs.ErrForbidden, "only the author of question %d can select the correct answer", questionID)
	}
	if _, err := c.answers.FindInQuestion(ctx, questionID, answerID); err != nil {
		return err
	}
	return c.answers.MarkCorrect(ctx, questionID, answerID)
}
