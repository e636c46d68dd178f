package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/config"
	"github.com/guidio/guidio-api/internal/database"
	"github.com/guidio/guidio-api/internal/handler"
	"github.com/guidio/guidio-api/internal/mail"
	"github.com/guidio/guidio-api/internal/middleware"
	"github.com/guidio/guidio-api/internal/queue"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/router"
	"github.com/guidio/guidio-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	details := repository.NewUserDetailRepo(db)
	professions := repository.NewProfessionRepo(db)
	guides := repository.NewGuideRepo(db)

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	auth := service.NewAuthService(users, mailer, service.TokenConfig{
		Secret:     cfg.JWTSecret,
		Algorithm:  cfg.JWTAlgorithm,
		TTLMinutes: cfg.TokenTTLMin,
	}, cfg.BcryptCost)
	manager := service.NewAuthManager(auth, details, queue.PublishActivity)

	mw := router.Middlewares{
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		Session:   middleware.SessionAuth(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.SessionCookie),
		Active:    middleware.RequireActive(auth),
	}

	e := echo.New()
	e.Static("/media", cfg.MediaRoot)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, manager), mw)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users, details, professions), mw)
	router.RegisterGuides(e, handler.NewGuideHandler(guides, details, queue.PublishActivity), mw)

	// Drains account.activity events into the audit log, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
