package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/handler"
	"inkwell/internal/model"
	"inkwell/internal/repository"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/view"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.NewMySQL(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.BlogPost{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize session components
	tokenService := auth.NewTokenService(cfg.Session.Secret)
	sessionStore := auth.NewSessionStore(cacheClient)
	sessionMgr := auth.NewManager(tokenService, sessionStore, userRepo, log)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	postService := service.NewPostService(postRepo, cacheClient)
	commentService := service.NewCommentService(commentRepo, postRepo)

	// Initialize handlers
	pageHandler := handler.NewPageHandler(postService, sessionMgr)
	authHandler := handler.NewAuthHandler(authService, sessionMgr)
	postHandler := handler.NewPostHandler(postService, sessionMgr)
	commentHandler := handler.NewCommentHandler(commentService, postService, sessionMgr)

	// Register routes
	router.Register(e, sessionMgr, pageHandler, authHandler, postHandler, commentHandler)

	addr := ":" + cfg.Server.Port
	log.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
