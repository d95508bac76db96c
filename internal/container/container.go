package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/config"
	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client

	userRepo repository.UserRepository
	postRepo repository.PostRepository
	avatars  application.AvatarStore
	notifier application.Notifier
	indexer  application.PostIndexer
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return logger
}

func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	if m := helpers.DefaultJWT(); m != nil {
		return m
	}
	c := GetConfig()
	jwtManager = helpers.NewJWTManager(c.SessionSecret, c.ResetSecret, c.SessionTTL, c.SessionRememberTTL, c.ResetTokenTTL)
	return jwtManager
}

func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// SetRepositories installs the store chosen at startup (Postgres or memory).
func SetRepositories(users repository.UserRepository, posts repository.PostRepository) {
	userRepo, postRepo = users, posts
}
func GetUserRepo() repository.UserRepository { return userRepo }
func GetPostRepo() repository.PostRepository { return postRepo }

func SetAvatarStore(s application.AvatarStore) { avatars = s }
func GetAvatarStore() application.AvatarStore  { return avatars }
func SetNotifier(n application.Notifier)       { notifier = n }
func GetNotifier() application.Notifier        { return notifier }
func SetPostIndexer(i application.PostIndexer) { indexer = i }
func GetPostIndexer() application.PostIndexer  { return indexer }

// Reset clears every singleton. Used by tests that wire the router repeatedly.
func Reset() {
	cfg, logger, pgPool, redisClient, gcsClient = nil, nil, nil, nil, nil
	jwtManager, mailgunClient, rabbitPub, esClient = nil, nil, nil, nil
	userRepo, postRepo, avatars, notifier, indexer = nil, nil, nil, nil, nil
}
