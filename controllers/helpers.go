package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/hasker/middleware"
	"github.com/cppla/hasker/services"
	"github.com/cppla/hasker/utils"
)

// actor builds the acting identity from the token claims set by
// AuthRequired. Anonymous requests yield the zero Actor.
func actor(ctx *gin.Context) services.Actor {
	claims, ok := middleware.Claims(ctx)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{
		ID:       claims.UserID,
		Username: claims.Username,
		Admin:    claims.Admin,
	}
}

// uintParam parses a positive path id. A malformed id is reported as not found.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(name)), 10, 64)
	if err != nil || v == 0 {
		utils.Error(ctx, http.StatusNotFound, 40400, name+" not found")
		return 0, false
	}
	return uint(v), true
}

// intQuery reads a non-negative integer query value, 0 when absent or invalid.
func intQuery(ctx *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(ctx.Query(name)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
