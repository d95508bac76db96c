package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/pkg/response"
	"github.com/wasihun-code/goblog/pkg/validation"
)

const (
	msgLoginFailed    = "Login Unsuccessful. Please check username and password and try again."
	msgUploadTooLarge = "upload too large"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// pageParam reads ?page=, falling back to 1 like a typed query arg would.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// bindForm decodes form, multipart or JSON bodies. Validation happens in the services.
func bindForm(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error[any](c, http.StatusRequestEntityTooLarge, msgUploadTooLarge, nil)
			return false
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// writeError maps service errors to responses. Unknown errors are logged and
// reported as a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verrs)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, msgLoginFailed, nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrPostNotFound):
		response.Error[any](c, http.StatusNotFound, "post not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, "That token is either expired or invalid.", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url"`
}

type authorView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

type postView struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	DatePosted time.Time   `json:"date_posted"`
	Author     *authorView `json:"author,omitempty"`
}

type pageMeta struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
	PrevNum int  `json:"prev_num,omitempty"`
	NextNum int  `json:"next_num,omitempty"`
}

// avatarURL resolves a user's stored image name to a URL.
type avatarURL func(u *entity.User) string

func toUserView(u *entity.User, url avatarURL, withEmail bool) userView {
	v := userView{ID: u.ID, Username: u.Username, ImageURL: url(u)}
	if withEmail {
		v.Email = u.Email
	}
	return v
}

func toPostView(p *entity.Post, url avatarURL) postView {
	v := postView{ID: p.ID, Title: p.Title, Content: p.Content, DatePosted: p.DatePosted}
	if p.Author != nil {
		v.Author = &authorView{ID: p.Author.ID, Username: p.Author.Username, ImageURL: url(p.Author)}
	}
	return v
}

func toPostViews(posts []entity.Post, url avatarURL) []postView {
	out := make([]postView, 0, len(posts))
	for i := range posts {
		out = append(out, toPostView(&posts[i], url))
	}
	return out
}

func toPageMeta(p entity.Page[entity.Post]) pageMeta {
	return pageMeta{
		Page:    p.Page,
		PerPage: p.PageSize,
		Total:   p.Total,
		Pages:   p.Pages(),
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
		PrevNum: p.PrevNum(),
		NextNum: p.NextNum(),
	}
}
