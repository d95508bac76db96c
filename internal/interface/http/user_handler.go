package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/response"
	"github.com/wasihun-code/goblog/pkg/validation"
)

// maxAccountBody bounds the account form: the picture plus a little room for fields.
const maxAccountBody = helpers.MaxImageBytes + 1<<20

type UserHandler struct {
	Users        *application.UserService
	Posts        *application.PostService
	Reset        *application.ResetService
	Cookies      *helpers.Manager
	Logger       *logrus.Logger
	PostsPerPage int
}

func NewUserHandler(users *application.UserService, posts *application.PostService, reset *application.ResetService,
	cookies *helpers.Manager, logger *logrus.Logger, perPage int) *UserHandler {
	return &UserHandler{Users: users, Posts: posts, Reset: reset, Cookies: cookies, Logger: logger, PostsPerPage: perPage}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required,username"`
	Password string `json:"password" form:"password" validate:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

func (h *UserHandler) RegisterForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"form":   "register",
		"fields": []string{"username", "email", "password", "confirm_password"},
	}, "Register to get started", nil)
}

func (h *UserHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if !bindForm(c, &in) {
		return
	}
	if _, err := h.Users.Register(c.Request.Context(), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/login", "Account created successfully! You can now Login")
}

func (h *UserHandler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"form":   "login",
		"fields": []string{"username", "password", "remember"},
		"next":   middleware.SafeNext(c.Query("next"), ""),
	}, "Login", nil)
}

// Login opens a session and sends the user back to ?next= when it is a local path.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindForm(c, &req) {
		return
	}
	if err := validation.Struct(req).Err(); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	sess, err := h.Users.Login(c.Request.Context(), req.Username, req.Password, req.Remember)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt, sess.Persistent)
	response.Redirect(c, http.StatusSeeOther, middleware.SafeNext(c.Query("next"), "/"), "You've Logged in successfully")
}

// Logout is safe to call without a session.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Users.Logout(c.Request.Context(), middleware.CurrentSessionID(c)); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
	}
	h.Cookies.Clear(c)
	response.Redirect(c, http.StatusSeeOther, "/login", "")
}

func (h *UserHandler) Account(c *gin.Context) {
	u, err := h.Users.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u, h.Users.AvatarURL, true), "Account", nil)
}

// UpdateAccount accepts username, email and an optional "picture" file.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	if c.Request.ContentLength > maxAccountBody {
		response.Error[any](c, http.StatusRequestEntityTooLarge, msgUploadTooLarge, nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAccountBody)

	var in application.UpdateProfileInput
	if !bindForm(c, &in) {
		return
	}

	fh, err := c.FormFile("picture")
	switch {
	case err == nil:
		f, oErr := fh.Open()
		if oErr != nil {
			writeError(c, h.Logger, oErr)
			return
		}
		defer func() { _ = f.Close() }()
		in.Picture = &application.Upload{Filename: fh.Filename, Reader: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"picture": "invalid upload"})
		return
	}

	if _, err := h.Users.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/account", "Account updated successfully")
}

// UserPosts lists one author's posts; unknown usernames are a 404.
func (h *UserHandler) UserPosts(c *gin.Context) {
	u, page, err := h.Posts.ListByAuthor(c.Request.Context(), c.Param("username"), pageParam(c), h.PostsPerPage)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":  toUserView(u, h.Users.AvatarURL, false),
		"posts": toPostViews(page.Items, h.Users.AvatarURL),
	}, "", toPageMeta(page))
}

func (h *UserHandler) ResetRequestForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"form": "request_reset", "fields": []string{"email"}}, "Reset Password", nil)
}

// RequestReset answers identically whether or not the email belongs to an account.
func (h *UserHandler) RequestReset(c *gin.Context) {
	var in application.ResetRequest
	if !bindForm(c, &in) {
		return
	}
	in.IP = clientIP(c)
	in.UserAgent = c.Request.UserAgent()
	if err := h.Reset.RequestReset(c.Request.Context(), in); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/login", "An email has been sent with instruction to reset your password.")
}

func (h *UserHandler) ResetForm(c *gin.Context) {
	if _, err := h.Reset.VerifyToken(c.Request.Context(), c.Param("token")); err != nil {
		h.resetFailed(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"form":   "reset_password",
		"fields": []string{"password", "confirm_password"},
	}, "Reset Password", nil)
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var in application.ResetPasswordInput
	if !bindForm(c, &in) {
		return
	}
	if err := h.Reset.CompleteReset(c.Request.Context(), c.Param("token"), in); err != nil {
		h.resetFailed(c, err)
		return
	}
	response.Redirect(c, http.StatusSeeOther, "/login", "Password reset successful. You can now log in with your new password.")
}

// resetFailed sends invalid or expired tokens back to the request form.
func (h *UserHandler) resetFailed(c *gin.Context, err error) {
	if errors.Is(err, application.ErrInvalidToken) {
		response.Redirect(c, http.StatusSeeOther, "/reset_password", "That token is either expired or invalid.")
		return
	}
	writeError(c, h.Logger, err)
}
