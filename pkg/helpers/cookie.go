package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetSession stores the session token. A persistent session survives browser
// restarts until exp; otherwise the cookie lives for the browser session only.
func (m *Manager) SetSession(c *gin.Context, token string, exp time.Time, persistent bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := 0
	if persistent {
		maxAge = maxAgeFrom(exp)
	}
	c.SetCookie(SessionCookie, token, maxAge, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
