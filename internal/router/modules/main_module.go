package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/wasihun-code/goblog/internal/interface/http"
)

// MainModule serves the public listing, about and search pages.
type MainModule struct {
	Handler *handlers.MainHandler
}

func NewMainModule(h *handlers.MainHandler) *MainModule {
	return &MainModule{Handler: h}
}

func (m *MainModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)
	rg.GET("/index", m.Handler.Index)
	rg.GET("/about", m.Handler.About)
	rg.GET("/search", m.Handler.Search)
}
