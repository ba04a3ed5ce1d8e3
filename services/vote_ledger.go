package services

import (
	"context"

	"github.com/cppla/hasker/repository"
)

// VoteResult is the state of one (actor, target) pair after a toggle.
type VoteResult struct {
	Voted     bool  `json:"voted"`
	Changed   bool  `json:"changed"`
	VoteCount int64 `json:"vote_count"`
}

// VoteLedger records at most one vote per user and target. Toggles are
// idempotent: voting twice or unvoting an absent vote changes nothing.
type VoteLedger struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	votes     repository.VoteRepository
	cache     Cache
}

func NewVoteLedger(q repository.QuestionRepository, a repository.AnswerRepository, v repository.VoteRepository, cache Cache) *VoteLedger {
	return &VoteLedger{questions: q, answers: a, votes: v, cache: cache}
}

func (l *VoteLedger) VoteQuestion(ctx context.Context, actor Actor, questionID uint) (VoteResult, error) {
	return l.toggleQuestion(ctx, actor, questionID, true)
}

func (l *VoteLedger) UnvoteQuestion(ctx context.Context, actor Actor, questionID uint) (VoteResult, error) {
	return l.toggleQuestion(ctx, actor, questionID, false)
}

func (l *VoteLedger) VoteAnswer(ctx context.Context, actor Actor, questionID, answerID uint) (VoteResult, error) {
	return l.toggleAnswer(ctx, actor, questionID, answerID, true)
}

func (l *VoteLedger) UnvoteAnswer(ctx context.Context, actor Actor, questionID, answerID uint) (VoteResult, error) {
	return l.toggleAnswer(ctx, actor, questionID, answerID, false)
}

func (l *VoteLedger) toggleQuestion(ctx context.Context, actor Actor, questionID uint, on bool) (VoteResult, error) {
	if err := actor.require(); err != nil {
		return VoteResult{}, err
	}
	if err := l.questions.CheckExists(ctx, questionID); err != nil {
		return VoteResult{}, err
	}

	var (
		changed bool
		err     error
	)
	if on {
		changed, err = l.votes.AddQuestionVote(ctx, actor.ID, questionID)
	} else {
		changed, err = l.votes.RemoveQuestionVote(ctx, actor.ID, questionID)
	}
	if err != nil {
		return VoteResult{}, err
	}
	if changed {
		invalidateTrending(ctx, l.cache)
	}

	n, err := l.votes.CountQuestionVotes(ctx, questionID)
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Voted: on, Changed: changed, VoteCount: n}, nil
}

func (l *VoteLedger) toggleAnswer(ctx context.Context, actor Actor, questionID, answerID uint, on bool) (VoteResult, error) {
	if err := actor.require(); err != nil {
		return VoteResult{}, err
	}
	if _, err := l.answers.FindInQuestion(ctx, questionID, answerID); err != nil {
		return VoteResult{}, err
	}

	var (
		changed bool
		err     error
	)
	if on {
		changed, err = l.votes.AddAnswerVote(ctx, actor.ID, answerID)
	} else {
		changed, err = l.votes.RemoveAnswerVote(ctx, actor.ID, answerID)
	}
	if err != nil {
		return VoteResult{}, err
	}

	n, err := l.votes.CountAnswerVotes(ctx, answerID)
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Voted: on, Changed: changed, VoteCount: n}, nil
}
