package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/hasker/services"
	"github.com/cppla/hasker/utils"
)

// AnswerController serves answers of one question.
type AnswerController struct {
	answers     *services.AnswerService
	ranking     *services.Ranking
	votes       *services.VoteLedger
	correctness *services.Correctness
}

func NewAnswerController(answers *services.AnswerService, ranking *services.Ranking, votes *services.VoteLedger, correctness *services.Correctness) *AnswerController {
	return &AnswerController{answers: answers, ranking: ranking, votes: votes, correctness: correctness}
}

type createAnswerRequest struct {
	Body string `json:"body"`
}

func (a *AnswerController) List(ctx *gin.Context) {
	questionID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	page, err := a.ranking.ListAnswers(ctx.Request.Context(), questionID, intQuery(ctx, "page"), intQuery(ctx, "page_size"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (a *AnswerController) Create(ctx *gin.Context) {
	questionID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req createAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	answer, err := a.answers.Create(ctx.Request.Context(), actor(ctx), questionID, req.Body)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, answer)
}

func (a *AnswerController) Vote(ctx *gin.Context) {
	a.toggle(ctx, a.votes.VoteAnswer)
}

func (a *AnswerController) Unvote(ctx *gin.Context) {
	a.toggle(ctx, a.votes.UnvoteAnswer)
}

// SelectCorrect marks the answer as the question's accepted one.
func (a *AnswerController) SelectCorrect(ctx *gin.Context) {
	questionID, answerID, ok := answerParams(ctx)
	if !ok {
		return
	}
	if err := a.correctness.SelectCorrect(ctx.Request.Context(), actor(ctx), questionID, answerID); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"question_id": questionID, "correct_answer_id": answerID})
}

type answerToggle func(ctx context.Context, actor services.Actor, questionID, answerID uint) (services.VoteResult, error)

func (a *AnswerController) toggle(ctx *gin.Context, fn answerToggle) {
	questionID, answerID, ok := answerParams(ctx)
	if !ok {
		return
	}
	res, err := fn(ctx.Request.Context(), actor(ctx), questionID, answerID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

func answerParams(ctx *gin.Context) (uint, uint, bool) {
	questionID, ok := uintParam(ctx, "id")
	if !ok {
		return 0, 0, false
	}
	answerID, ok := uintParam(ctx, "answerId")
	if !ok {
		return 0, 0, false
	}
	return questionID, answerID, true
}
