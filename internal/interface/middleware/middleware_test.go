package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasihun-code/goblog/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("s", "r", time.Hour, 2*time.Hour, 30*time.Minute)
}

func sessionEngine(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(Session(nil, jwt))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, "%d/%s", CurrentUserID(c), CurrentSessionID(c))
	})
	r.GET("/account", RequireLogin(), func(c *gin.Context) { c.String(http.StatusOK, "secret") })
	r.GET("/login", RedirectIfAuthenticated(), func(c *gin.Context) { c.String(http.StatusOK, "form") })
	return r
}

func withSession(t *testing.T, req *http.Request, jwt *helpers.JWTManager, uid int64) {
	t.Helper()
	tok, _, err := jwt.GenerateSessionToken(uid, "sid-9", false)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: tok})
}

func TestSession_LoadsUser(t *testing.T) {
	jwt := newJWT()
	r := sessionEngine(jwt)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	withSession(t, req, jwt, 5)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "5/sid-9", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "0/", w.Body.String())
}

func TestRequireLogin_RedirectsWithNext(t *testing.T) {
	r := sessionEngine(newJWT())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account?tab=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Faccount%3Ftab%3D1", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRequireLogin_PassesAuthenticated(t *testing.T) {
	jwt := newJWT()
	r := sessionEngine(jwt)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	withSession(t, req, jwt, 1)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "secret", w.Body.String())
}

func TestRedirectIfAuthenticated(t *testing.T) {
	jwt := newJWT()
	r := sessionEngine(jwt)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	withSession(t, req, jwt, 1)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, "form", w.Body.String())
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/account", SafeNext("/account", "/"))
	assert.Equal(t, "/", SafeNext("//evil.example", "/"))
	assert.Equal(t, "/", SafeNext("https://evil.example", "/"))
	assert.Equal(t, "/", SafeNext("", "/"))
	assert.Equal(t, "/", SafeNext(`/\evil.example`, "/"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	known := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, known)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, known, w.Body.String())
}

func TestRealIP(t *testing.T) {
	for _, tc := range []struct {
		name  string
		trust bool
		want  string
	}{
		{"trusted proxy", true, "203.0.113.7"},
		{"untrusted proxy", false, "192.0.2.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			require.NoError(t, r.SetTrustedProxies(nil))
			r.Use(RealIP(tc.trust))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestAllowFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "8.8.8.8")

	assert.True(t, AllowReads()(c))
	assert.False(t, AllowPrivateIP()(c))
	assert.True(t, AnyOf(AllowPrivateIP(), AllowReads())(c))

	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set("real_ip", "10.1.2.3")
	assert.False(t, AllowReads()(c))
	assert.True(t, AllowPrivateIP()(c))
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestKeyByUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "1.2.3.4")
	assert.Equal(t, "rl:user:anon:ip:1.2.3.4", KeyByUserID()(c))

	c.Set(CtxUserIDKey, int64(12))
	assert.Equal(t, "rl:user:12", KeyByUserID()(c))
}
