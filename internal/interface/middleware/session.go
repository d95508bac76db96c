package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// Session loads the current user from the session cookie. It never rejects a
// request; it only records userID and sessionID in the context when the
// token is valid and, with Redis configured, the session has not been revoked.
func Session(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			c.Next()
			return
		}
		if rdb != nil {
			n, rErr := rdb.Exists(c.Request.Context(), helpers.SessionKey(claims.SessionID)).Result()
			if rErr != nil || n == 0 {
				c.Next()
				return
			}
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous requests.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

func CurrentSessionID(c *gin.Context) string {
	return c.GetString(CtxSessionIDKey)
}

// RequireLogin sends anonymous callers to /login, remembering where they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) != 0 {
			c.Next()
			return
		}
		target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		response.Redirect(c, http.StatusFound, target, "Please log in to access this page.")
		c.Abort()
	}
}

// RedirectIfAuthenticated bounces logged in users to the index. Used on the
// register, login and password reset pages.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			c.Next()
			return
		}
		response.Redirect(c, http.StatusSeeOther, "/", "")
		c.Abort()
	}
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if len(next) == 0 || next[0] != '/' {
		return fallback
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}
	return next
}
