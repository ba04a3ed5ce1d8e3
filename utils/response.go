package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/hasker/errs"
)

// JSONResponse is the envelope of every API response. Code is 0 on success;
// for failures it is the HTTP status times one hundred plus a detail digit,
// e.g. 40400 for a missing question or 40104 for a revoked token.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created answers 201 for a newly authored question or answer.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, "created", data)
}

func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Fail writes err using the status its errs kind maps to. Internal errors are
// logged with the request route and answered with a generic message.
func Fail(ctx *gin.Context, err error) {
	status := errs.Status(err)
	if status == http.StatusInternalServerError {
		Logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
	}
	Error(ctx, status, status*100, errs.Message(err))
}
