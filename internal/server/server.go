package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/coomunity/marketplace-backend/internal/ai"
	"github.com/coomunity/marketplace-backend/internal/handler"
	appmw "github.com/coomunity/marketplace-backend/internal/middleware"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/coomunity/marketplace-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e         *echo.Echo
	itemRepo  repository.ItemRepository
	matchRepo repository.MatchRepository
	revRepo   repository.ReviewRepository
	notifRepo repository.NotificationRepository
	sha       string
	build     string
}

func New(db *gorm.DB, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			host := u.Hostname()
			if strings.HasSuffix(host, "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	itemRepo := repository.NewItemRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	revRepo := repository.NewReviewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifSvc := service.NewNotificationService(notifRepo)
	itemSvc := service.NewItemService(itemRepo)
	matchSvc := service.NewMatchService(matchRepo, notifSvc)
	revSvc := service.NewReviewService(revRepo, matchRepo)

	// Leave uploader nil unless storage comes up so the handler's
	// nil check keeps working across the interface boundary.
	var uploader handler.ImageUploader
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		up, err := storage.NewUploader(context.Background(), bucket)
		if err != nil {
			log.Printf("storage init failed, image upload disabled: %v", err)
		} else {
			uploader = up
		}
	}

	itemHandler := handler.NewItemHandler(itemSvc, uploader)
	matchHandler := handler.NewMatchHandler(matchSvc)
	revHandler := handler.NewReviewHandler(revSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	aiHandler := handler.NewAIHandler(itemRepo, ai.NewAssistantClient(nil))

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		log.Printf("firebase auth unavailable, mounting routes without auth: %v", err)
		authMw = nil
	}
	var userHandler *handler.UserHandler
	if authMw != nil && authMw.Client() != nil {
		userHandler = handler.NewUserHandler(authMw.Client())
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	if authMw != nil {
		api.POST("/items", itemHandler.Create, authMw.RequireAuth)
		api.PUT("/items/:id", itemHandler.Update, authMw.RequireAuth)
		api.DELETE("/items/:id", itemHandler.Delete, authMw.RequireAuth)
		api.GET("/me/items", itemHandler.ListMine, authMw.RequireAuth)
		api.POST("/items/:id/image", itemHandler.UploadImage, authMw.RequireAuth)
		api.POST("/items/:id/ask", aiHandler.AskItem, authMw.RequireAuth)
		api.GET("/me/matches", matchHandler.ListMine, authMw.RequireAuth)
		api.GET("/matches/:id", matchHandler.Get, authMw.RequireAuth)
		api.POST("/matches/:id/confirm", matchHandler.Confirm, authMw.RequireAuth)
		api.GET("/matches/:id/messages", matchHandler.ListMessages, authMw.RequireAuth)
		api.POST("/matches/:id/messages", matchHandler.SendMessage, authMw.RequireAuth)
		api.GET("/matches/:id/review", revHandler.Get, authMw.RequireAuth)
		api.POST("/matches/:id/review", revHandler.Submit, authMw.RequireAuth)
		api.GET("/me/notifications", notifHandler.List, authMw.RequireAuth)
		api.POST("/me/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)
	} else {
		api.POST("/items", itemHandler.Create)
		api.PUT("/items/:id", itemHandler.Update)
		api.DELETE("/items/:id", itemHandler.Delete)
		api.GET("/me/items", itemHandler.ListMine)
		api.POST("/items/:id/image", itemHandler.UploadImage)
		api.POST("/items/:id/ask", aiHandler.AskItem)
		api.GET("/me/matches", matchHandler.ListMine)
		api.GET("/matches/:id", matchHandler.Get)
		api.POST("/matches/:id/confirm", matchHandler.Confirm)
		api.GET("/matches/:id/messages", matchHandler.ListMessages)
		api.POST("/matches/:id/messages", matchHandler.SendMessage)
		api.GET("/matches/:id/review", revHandler.Get)
		api.POST("/matches/:id/review", revHandler.Submit)
		api.GET("/me/notifications", notifHandler.List)
		api.POST("/me/notifications/read", notifHandler.MarkAllRead)
	}
	api.GET("/items", itemHandler.List)
	api.GET("/items/stats", itemHandler.Stats)
	api.GET("/items/:id", itemHandler.Get)
	if userHandler != nil {
		api.GET("/users/:uid/public", userHandler.GetPublic)
	}

	return &Server{
		e:         e,
		itemRepo:  itemRepo,
		matchRepo: matchRepo,
		revRepo:   revRepo,
		notifRepo: notifRepo,
		sha:       sha,
		build:     buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects a late-arriving connection into every repository; until
// then operations fail with ErrDBNotReady.
func (s *Server) SetDB(db *gorm.DB) {
	if s.itemRepo != nil {
		s.itemRepo.SetDB(db)
	}
	if s.matchRepo != nil {
		s.matchRepo.SetDB(db)
	}
	if s.revRepo != nil {
		s.revRepo.SetDB(db)
	}
	if s.notifRepo != nil {
		s.notifRepo.SetDB(db)
	}
}
