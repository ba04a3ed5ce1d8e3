package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/hasker/middleware"
	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/services"
	"github.com/cppla/hasker/utils"
)

// sortOrderField is the session field remembering the last list order.
const sortOrderField = "question_order"

// QuestionController serves question lists, search, trending and question
// authoring and voting.
type QuestionController struct {
	questions *services.QuestionService
	ranking   *services.Ranking
	votes     *services.VoteLedger
	sessions  *utils.SessionStore
}

func NewQuestionController(questions *services.QuestionService, ranking *services.Ranking, votes *services.VoteLedger, sessions *utils.SessionStore) *QuestionController {
	return &QuestionController{questions: questions, ranking: ranking, votes: votes, sessions: sessions}
}

type createQuestionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tags  string `json:"tags"`
}

// List returns a page of questions plus the trending list. The applied order
// is remembered for the session and reused when the next request names none.
func (q *QuestionController) List(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	sid := middleware.SessionID(ctx)

	explicit, _ := repository.ParseOrder(ctx.Query("order"))
	previous, _ := repository.ParseOrder(q.sessions.Get(reqCtx, sid, sortOrderField))

	page, err := q.ranking.ListQuestions(reqCtx, services.QuestionQuery{
		Order:    explicit,
		Previous: previous,
		Tag:      ctx.Query("tag"),
		Text:     ctx.Query("q"),
		Page:     intQuery(ctx, "page"),
		PageSize: intQuery(ctx, "page_size"),
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	if page.Order != previous {
		q.sessions.Set(reqCtx, sid, sortOrderField, string(page.Order))
	}

	trends, err := q.ranking.Trending(reqCtx, 0)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"items":      page.Items,
		"order":      page.Order,
		"pagination": page.Pagination,
		"trends":     trends,
	})
}

func (q *QuestionController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	question, err := q.questions.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, question)
}

// Search accepts search=tag:<name> or a plain title fragment.
func (q *QuestionController) Search(ctx *gin.Context) {
	page, err := q.ranking.Search(ctx.Request.Context(), ctx.Query("search"), intQuery(ctx, "page"), intQuery(ctx, "page_size"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (q *QuestionController) Trending(ctx *gin.Context) {
	trends, err := q.ranking.Trending(ctx.Request.Context(), intQuery(ctx, "limit"))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": trends})
}

func (q *QuestionController) Create(ctx *gin.Context) {
	var req createQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	question, err := q.questions.Create(ctx.Request.Context(), actor(ctx), services.CreateQuestionInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Created(ctx, question)
}

func (q *QuestionController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	a := actor(ctx)
	if err := q.questions.Delete(ctx.Request.Context(), a, id); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Sugar.Infof("question %d deleted by user %d", id, a.ID)
	utils.Success(ctx, gin.H{"deleted": id})
}

func (q *QuestionController) Vote(ctx *gin.Context) {
	q.toggle(ctx, q.votes.VoteQuestion)
}

func (q *QuestionController) Unvote(ctx *gin.Context) {
	q.toggle(ctx, q.votes.UnvoteQuestion)
}

type questionToggle func(ctx context.Context, actor services.Actor, questionID uint) (services.VoteResult, error)

func (q *QuestionController) toggle(ctx *gin.Context, fn questionToggle) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	res, err := fn(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, res)
}
