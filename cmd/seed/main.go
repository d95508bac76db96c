package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/wasihun-code/goblog/config"
	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/internal/infrastructure/memory"
	pginfra "github.com/wasihun-code/goblog/internal/infrastructure/postgres"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/validation"
)

var demoPosts = []application.PostInput{
	{Title: "Welcome to the blog", Content: "This is the first post. Log in as demo to edit or delete it."},
	{Title: "Writing posts", Content: "Create a post from /posts/new once you are logged in."},
	{Title: "Resetting a password", Content: "Forgot your password? Request a reset link from /reset_password."},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	validation.Init()
	ctx := context.Background()

	var users repository.UserRepository
	var posts repository.PostRepository
	if cfg.StoreDriver == "memory" {
		mu := memory.NewUserRepository()
		users, posts = mu, memory.NewPostRepository(mu)
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		users, posts = pginfra.NewUserRepository(pool), pginfra.NewPostRepository(pool)
	}

	jwt := helpers.NewJWTManager(cfg.SessionSecret, cfg.ResetSecret, cfg.SessionTTL, cfg.SessionRememberTTL, cfg.ResetTokenTTL)
	userSvc := application.NewUserService(users, jwt, nil, nil, logger)
	postSvc := application.NewPostService(posts, users, nil, logger)

	username, email, password := "demo", "demo@example.com", "password123"
	u, err := userSvc.Register(ctx, application.RegisterInput{
		Username: username, Email: email, Password: password, ConfirmPassword: password,
	})
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		// already seeded
		if u, err = userSvc.GetByUsername(ctx, username); err != nil {
			log.Fatalf("demo user exists but cannot be loaded: %v (%v)", err, verrs)
		}
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s email=%s password=%s\n", u.ID, u.Username, u.Email, password)

	for _, in := range demoPosts {
		p, err := postSvc.Create(ctx, u.ID, in)
		if errors.As(err, &verrs) {
			fmt.Printf("skipped post %q: %v\n", in.Title, verrs)
			continue
		}
		if err != nil {
			log.Fatalf("failed to seed post: %v", err)
		}
		fmt.Printf("seeded post: id=%d title=%q\n", p.ID, p.Title)
	}
}
