package controllers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/utils"
)

type statsSource interface {
	Stats(ctx context.Context) (repository.Stats, error)
}

// StatsController provides site statistics.
type StatsController struct {
	source statsSource
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(source statsSource) *StatsController {
	return &StatsController{source: source}
}

// GetStats returns user, question, answer and vote counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	st, err := s.source.Stats(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, st)
}
