package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName identifies the anonymous or logged-in browsing session.
	SessionCookieName   = "hasker_sid"
	ContextSessionIDKey = "session_id"
)

// Session makes sure every request carries a session id, issuing a cookie when
// the client has none.
func Session(maxAge int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sid, err := ctx.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(SessionCookieName, sid, maxAge, "/", "", false, true)
		}
		ctx.Set(ContextSessionIDKey, sid)
		ctx.Next()
	}
}

// SessionID returns the id stored by Session, or "".
func SessionID(ctx *gin.Context) string {
	return ctx.GetString(ContextSessionIDKey)
}
