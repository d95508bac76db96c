package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/pkg/response"
)

type MainHandler struct {
	Posts        *application.PostService
	Users        *application.UserService
	Logger       *logrus.Logger
	PostsPerPage int
}

func NewMainHandler(posts *application.PostService, users *application.UserService, logger *logrus.Logger, perPage int) *MainHandler {
	return &MainHandler{Posts: posts, Users: users, Logger: logger, PostsPerPage: perPage}
}

// Index lists every post, newest first.
func (h *MainHandler) Index(c *gin.Context) {
	page, err := h.Posts.List(c.Request.Context(), pageParam(c), h.PostsPerPage)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostViews(page.Items, h.Users.AvatarURL), "", toPageMeta(page))
}

func (h *MainHandler) About(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"title": "About"}, "", nil)
}

// Search runs a full text query over posts; without a search backend it returns nothing.
func (h *MainHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Posts.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "", gin.H{"count": len(hits)})
}
