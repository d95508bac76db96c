package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wasihun-code/goblog/internal/container"
	handlers "github.com/wasihun-code/goblog/internal/interface/http"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
)

// PostModule wires post routes. Reading is public; writing needs a session
// and update/delete additionally need ownership, checked by the service.
type PostModule struct {
	Handler *handlers.PostHandler
}

func NewPostModule(h *handlers.PostHandler) *PostModule {
	return &PostModule{Handler: h}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/posts/:id", m.Handler.Show)

	auth := rg.Group("/posts")
	auth.Use(
		middleware.RequireLogin(),
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), middleware.AllowReads()),
	)
	{
		auth.GET("/new", m.Handler.NewForm)
		auth.POST("/new", m.Handler.Create)
		auth.GET("/:id/update", m.Handler.EditForm)
		auth.POST("/:id/update", m.Handler.Update)
		auth.GET("/:id/delete", m.Handler.Delete)
		auth.POST("/:id/delete", m.Handler.Delete)
	}
}
