package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
	"github.com/wasihun-code/goblog/pkg/response"
)

type PostHandler struct {
	Posts  *application.PostService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, users *application.UserService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Users: users, Logger: logger}
}

func (h *PostHandler) NewForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"form":   "post",
		"legend": "New Post",
		"fields": []string{"title", "content"},
	}, "New Post", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	var in application.PostInput
	if !bindForm(c, &in) {
		return
	}
	if _, err := h.Posts.Create(c.Request.Context(), middleware.CurrentUserID(c), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/", "Post created successfully!")
}

func (h *PostHandler) Show(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		writeError(c, h.Logger, application.ErrPostNotFound)
		return
	}
	p, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostView(p, h.Users.AvatarURL), p.Title, nil)
}

// EditForm returns the post for prefilling; only its owner may see it.
func (h *PostHandler) EditForm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		writeError(c, h.Logger, application.ErrPostNotFound)
		return
	}
	p, err := h.Posts.Authorize(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"form":   "post",
		"legend": "Update Post",
		"post":   toPostView(p, h.Users.AvatarURL),
	}, "Update Post", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		writeError(c, h.Logger, application.ErrPostNotFound)
		return
	}
	var in application.PostInput
	if !bindForm(c, &in) {
		return
	}
	p, err := h.Posts.Update(c.Request.Context(), id, middleware.CurrentUserID(c), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/posts/"+strconv.FormatInt(p.ID, 10), "Post has been updated")
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		writeError(c, h.Logger, application.ErrPostNotFound)
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/", "Your post has been deleted")
}
