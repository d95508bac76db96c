package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	repo "github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/validation"
)

// AvatarSize is the bounding box profile pictures are shrunk into.
const AvatarSize = 125

type UserService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Avatars AvatarStore
	Logger  *logrus.Logger

	now func() time.Time
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, avatars AvatarStore, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:   users,
		JWT:     jwt,
		Redis:   rdb,
		Avatars: avatars,
		Logger:  logger,
		now:     time.Now,
	}
}

func (s *UserService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required,username"`
	Email           string `json:"email" form:"email" validate:"required,email,max=120"`
	Password        string `json:"password" form:"password" validate:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

// Session is an established login. Token goes into the session cookie.
type Session struct {
	User       *entity.User
	ID         string
	Token      string
	ExpiresAt  time.Time
	Persistent bool
}

// Register validates the form, checks username and email are free and stores
// the user with a bcrypt hash of the password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	errs := validation.Struct(in)
	if err := s.checkAvailable(ctx, 0, in.Username, in.Email, errs); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, validation.Errors{"password": "Field cannot be longer than 72 characters."}
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash, Image: entity.DefaultImage}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, conflictToValidation(err)
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID, "username": u.Username})
	return u, nil
}

// checkAvailable adds a "taken" message for username or email when another
// user already holds it. Fields that already failed validation are skipped.
func (s *UserService) checkAvailable(ctx context.Context, self int64, username, email string, errs validation.Errors) error {
	if _, bad := errs["username"]; !bad {
		taken, err := s.heldByOther(self, func() (*entity.User, error) { return s.Users.GetByUsername(ctx, username) })
		if err != nil {
			return err
		}
		if taken {
			errs.Add("username", takenMessage("username"))
		}
	}
	if _, bad := errs["email"]; !bad {
		taken, err := s.heldByOther(self, func() (*entity.User, error) { return s.Users.GetByEmail(ctx, email) })
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", takenMessage("email"))
		}
	}
	return nil
}

func (s *UserService) heldByOther(self int64, lookup func() (*entity.User, error)) (bool, error) {
	u, err := lookup()
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return u.ID != self, nil
}

// Authenticate validates username/password and returns the user without opening a session.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a session token. When Redis is configured
// the session is also recorded there so Logout can revoke it.
func (s *UserService) Login(ctx context.Context, username, password string, remember bool) (*Session, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateSessionToken(u.ID, sid, remember)
	if err != nil {
		helpers.LogError(s.Logger, "generate session token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(sid)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"remember":   remember,
			"created_at": s.clock().UTC().Format(time.RFC3339Nano),
		})
		pipe.ExpireAt(ctx, key, exp)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			helpers.LogError(s.Logger, "store session failed", rErr, logrus.Fields{"key": key})
			return nil, fmt.Errorf("store session: %w", rErr)
		}
	}

	return &Session{User: u, ID: sid, Token: token, ExpiresAt: exp, Persistent: remember}, nil
}

// Logout revokes the session. Unknown or empty session ids are not an error.
func (s *UserService) Logout(ctx context.Context, sid string) error {
	if s.Redis == nil || sid == "" {
		return nil
	}
	if err := s.Redis.Del(ctx, helpers.SessionKey(sid)).Err(); err != nil {
		helpers.LogError(s.Logger, "delete session failed", err, logrus.Fields{"sid": sid})
		return err
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.get(s.Users.GetByID(ctx, id))
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.get(s.Users.GetByUsername(ctx, username))
}

func (s *UserService) get(u *entity.User, err error) (*entity.User, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// Upload is a submitted file. Filename is only used for its extension.
type Upload struct {
	Filename string
	Reader   io.Reader
}

type UpdateProfileInput struct {
	Username string  `json:"username" form:"username" validate:"required,username"`
	Email    string  `json:"email" form:"email" validate:"required,email,max=120"`
	Picture  *Upload `json:"-" form:"-" validate:"-"`
}

// UpdateProfile changes username, email and optionally the avatar. Uniqueness is
// checked against other users only. The previous avatar file is left in place.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	errs := validation.Struct(in)
	if err := s.checkAvailable(ctx, u.ID, in.Username, in.Email, errs); err != nil {
		return nil, err
	}

	var thumb []byte
	var contentType, ext string
	if in.Picture != nil {
		ext, err = helpers.ImageExt(in.Picture.Filename)
		if err != nil {
			errs.Add("picture", "File does not have an approved extension: jpg, png")
		} else {
			thumb, contentType, err = helpers.Thumbnail(in.Picture.Reader, ext, AvatarSize)
			if err != nil {
				errs.Add("picture", "Invalid image file.")
			}
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if thumb != nil {
		name, err := s.saveAvatar(ctx, ext, contentType, thumb)
		if err != nil {
			return nil, err
		}
		u.Image = name
	}
	u.Username = in.Username
	u.Email = in.Email

	if err := s.Users.Update(ctx, u); err != nil {
		return nil, conflictToValidation(err)
	}

	helpers.LogInfo(s.Logger, "profile updated", logrus.Fields{"user_id": u.ID, "image": u.Image})
	return u, nil
}

func (s *UserService) saveAvatar(ctx context.Context, ext, contentType string, data []byte) (string, error) {
	if s.Avatars == nil {
		return "", errors.New("avatar storage not configured")
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:16] + ext
	if err := s.Avatars.Save(ctx, name, contentType, data); err != nil {
		helpers.LogError(s.Logger, "save avatar failed", err, logrus.Fields{"name": name, "size": len(data)})
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return name, nil
}

// AvatarURL resolves the user's stored image name to a URL.
func (s *UserService) AvatarURL(u *entity.User) string {
	name := u.Image
	if name == "" {
		name = entity.DefaultImage
	}
	if s.Avatars == nil {
		return "/static/profile_pictures/" + name
	}
	return s.Avatars.URL(name)
}
