package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/hasker/config"
	"github.com/cppla/hasker/middleware"
	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/services"
	"github.com/cppla/hasker/utils"
)

// AuthController handles registration, login and the current user's profile.
type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Confirm   string `json:"password_confirm"`
	AvatarURL string `json:"avatar_url"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"is_admin":   config.Get().IsAdmin(u.Username),
	}
}

func issueToken(ctx *gin.Context, u *models.User) {
	ttl := time.Duration(config.Get().App.TokenTTLHours) * time.Hour
	token, err := utils.GenerateToken(u, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": userResponse(u)})
}

// Register creates a local account and logs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	user, err := a.accounts.Register(ctx.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Confirm:   req.Confirm,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Sugar.Infof("registered user id=%d username=%s", user.ID, user.Username)
	issueToken(ctx, user)
}

func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	user, err := a.accounts.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	issueToken(ctx, user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	expiresAt := ctx.GetTime(middleware.ContextTokenExpiresAtKey)
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) Me(ctx *gin.Context) {
	user, err := a.accounts.Profile(ctx.Request.Context(), actor(ctx))
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, userResponse(user))
}

// UpdateProfile changes email and/or avatar URL.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	user, err := a.accounts.UpdateProfile(ctx.Request.Context(), actor(ctx), req.Email, req.AvatarURL)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, userResponse(user))
}
