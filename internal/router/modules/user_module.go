package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wasihun-code/goblog/internal/container"
	handlers "github.com/wasihun-code/goblog/internal/interface/http"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
)

// UserModule wires account routes.
// Guests only: /register, /login, /reset_password, /reset_password/:token
// Login required: /account
// Public: /logout, /user/:username
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// form submissions only; page views are not counted
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowReads())
	resetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowReads())
	formLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowReads())

	guest := rg.Group("/")
	guest.Use(middleware.RedirectIfAuthenticated())
	{
		guest.GET("/register", m.Handler.RegisterForm)
		guest.POST("/register", formLimiter, m.Handler.Register)
		guest.GET("/login", m.Handler.LoginForm)
		guest.POST("/login", loginLimiter, m.Handler.Login)
		guest.GET("/reset_password", m.Handler.ResetRequestForm)
		guest.POST("/reset_password", resetLimiter, m.Handler.RequestReset)
		guest.GET("/reset_password/:token", m.Handler.ResetForm)
		guest.POST("/reset_password/:token", formLimiter, m.Handler.ResetPassword)
	}

	rg.GET("/logout", m.Handler.Logout)
	rg.GET("/user/:username", m.Handler.UserPosts)

	auth := rg.Group("/")
	auth.Use(
		middleware.RequireLogin(),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowReads()),
	)
	{
		auth.GET("/account", m.Handler.Account)
		auth.POST("/account", m.Handler.UpdateAccount)
	}
}
