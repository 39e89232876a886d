package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/RonnyAreUneMi/exposiciones/internal/canva"
	"github.com/RonnyAreUneMi/exposiciones/internal/config"
	"github.com/RonnyAreUneMi/exposiciones/internal/converter"
	"github.com/RonnyAreUneMi/exposiciones/internal/handlers"
	"github.com/RonnyAreUneMi/exposiciones/internal/models"
	"github.com/RonnyAreUneMi/exposiciones/internal/storage"
	"github.com/RonnyAreUneMi/exposiciones/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 1. Setup DB
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database")
	}
	db.AutoMigrate(&models.Presentation{}, &models.Slide{})

	// 2. Setup Storage
	blobs, err := storage.NewLocalStorage(cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Domain wiring
	st := store.New(db)
	client := canva.NewClient(cfg.CanvaClientID, cfg.CanvaClientSecret)
	renderer := &converter.EngineRenderer{
		SofficeBin:  cfg.SofficeBin,
		PdftoppmBin: cfg.PdftoppmBin,
	}
	worker := converter.NewWorker(st, blobs, renderer, logger, cfg.MaxConversions)
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	// 4. Setup Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h := handlers.New(st, blobs, client, worker, sessionStore, logger, cfg.CanvaRedirectURI)
	e.GET("/", h.DashboardHandler)
	e.GET("/presentation/:id", h.PresentationHandler)
	e.POST("/upload", h.UploadHandler)
	e.POST("/delete/:id", h.DeleteHandler)

	e.GET("/canva/login", h.CanvaLoginHandler)
	e.GET("/canva/callback", h.CanvaCallbackHandler)
	e.GET("/canva/dashboard", h.CanvaDashboardHandler)

	// Stored blobs (originals, thumbnails, slide images)
	e.Static("/media", cfg.DataDir)
	e.Static("/static", "static")

	e.Logger.Fatal(e.Start(cfg.Addr))
}
