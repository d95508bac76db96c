package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wasihun-code/goblog/config"
	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/container"
	"github.com/wasihun-code/goblog/internal/infrastructure/mail"
	"github.com/wasihun-code/goblog/internal/infrastructure/memory"
	pginfra "github.com/wasihun-code/goblog/internal/infrastructure/postgres"
	"github.com/wasihun-code/goblog/internal/infrastructure/search"
	"github.com/wasihun-code/goblog/internal/infrastructure/storage"
	"github.com/wasihun-code/goblog/internal/interface/middleware"
	"github.com/wasihun-code/goblog/internal/router"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/mailer"
	"github.com/wasihun-code/goblog/pkg/mailer/templates"
	"github.com/wasihun-code/goblog/pkg/validation"
)

const avatarURLPrefix = "/static/profile_pictures"

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Storage: postgres in every real deployment, memory for demos
	switch cfg.StoreDriver {
	case "memory":
		users := memory.NewUserRepository()
		container.SetRepositories(users, memory.NewPostRepository(users))
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		container.SetRepositories(pginfra.NewUserRepository(pool), pginfra.NewPostRepository(pool))
	}

	// Redis backs session revocation and rate limits; without it both degrade
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.WithError(err).Warn("redis unavailable; sessions are stateless and rate limits are off")
		_ = rdb.Close()
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	container.SetJWT(helpers.NewJWTManager(cfg.SessionSecret, cfg.ResetSecret, cfg.SessionTTL, cfg.SessionRememberTTL, cfg.ResetTokenTTL))

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	if !cfg.TrustProxyHeaders {
		if err := r.SetTrustedProxies(nil); err != nil {
			log.Fatalf("trusted proxies: %v", err)
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Profile pictures
	switch cfg.AvatarStorage {
	case "gcs":
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
		container.SetAvatarStore(storage.NewGCSStore(gcsClient, cfg.GCSBucket, "profile_pictures"))
	default:
		store, err := storage.NewLocalStore(cfg.AvatarDir, avatarURLPrefix)
		if err != nil {
			log.Fatalf("avatar dir: %v", err)
		}
		container.SetAvatarStore(store)
		r.Static(avatarURLPrefix, cfg.AvatarDir)
	}

	notifier, closeMail := buildNotifier(cfg, logger)
	defer closeMail()
	container.SetNotifier(notifier)

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			container.SetES(es)
			container.SetPostIndexer(search.NewPostIndex(es, cfg.ESPostsIndex))
		}
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildNotifier picks how reset emails leave the process. The returned func
// releases whatever connection the transport opened.
func buildNotifier(cfg *config.Config, logger *logrus.Logger) (application.Notifier, func()) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; reset links are logged instead of sent")
		return mail.NewLogNotifier(logger), noop
	}

	brand := templates.Brand{AppName: cfg.AppName, CompanyName: cfg.CompanyName, SupportURL: cfg.SupportURL}
	switch cfg.MailTransport {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; falling back to log notifier")
			return mail.NewLogNotifier(logger), noop
		}
		container.SetRabbitPub(pub)
		return mail.NewQueueNotifier(pub, brand), pub.Close
	case "direct":
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		if !mg.Configured() {
			logger.Warn("mailgun not configured; falling back to log notifier")
			return mail.NewLogNotifier(logger), noop
		}
		container.SetMailgun(mg)
		return mail.NewDirectNotifier(mg, brand), noop
	default:
		return mail.NewLogNotifier(logger), noop
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
