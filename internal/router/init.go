package router

import (
	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/container"
	"github.com/wasihun-code/goblog/internal/infrastructure/memory"
	handlers "github.com/wasihun-code/goblog/internal/interface/http"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
	"github.com/wasihun-code/goblog/internal/router/modules"
	"github.com/wasihun-code/goblog/pkg/helpers"
)

type Services struct {
	Users *application.UserService
	Posts *application.PostService
	Reset *application.ResetService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	users, posts := container.GetUserRepo(), container.GetPostRepo()
	if users == nil || posts == nil {
		mu := memory.NewUserRepository()
		users, posts = mu, memory.NewPostRepository(mu)
		container.SetRepositories(users, posts)
	}

	return Services{
		Users: application.NewUserService(users, jwt, container.GetRedis(), container.GetAvatarStore(), logger),
		Posts: application.NewPostService(posts, users, container.GetPostIndexer(), logger),
		Reset: application.NewResetService(users, jwt, container.GetNotifier(), cfg.ResetLink, logger),
	}
}

// InitModules builds services and handlers from the container and registers
// every module. Call once during startup, after the container is filled.
func InitModules(r *Registry) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildServices()

	r.Use(middleware.Session(container.GetRedis(), container.GetJWT()))

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	r.Add(modules.NewMainModule(handlers.NewMainHandler(svc.Posts, svc.Users, logger, cfg.PostsPerPage)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Posts, svc.Reset, cookies, logger, cfg.UserPostsPerPage)))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Posts, svc.Users, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return svc
}
