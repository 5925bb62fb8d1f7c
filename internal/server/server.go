package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"officina/internal/audit"
	"officina/internal/config"
	"officina/internal/handler"
	"officina/internal/middleware"
	"officina/internal/repository"
	"officina/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Config   *config.Config
	recorder *audit.Recorder
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	siteRepo := repository.NewSiteRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	actionRepo := repository.NewActionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Audit records flow through a background queue; request handlers
	// never wait on them.
	recorder := audit.NewRecorder(actionRepo, cfg.AuditQueueSize)

	// Initialize services
	codes := service.NewCodeGenerator(taskRepo)
	router := service.NewRouter(boardRepo)
	boardService := service.NewBoardService(boardRepo, columnRepo, categoryRepo, taskRepo, recorder)
	taskService := service.NewTaskService(taskRepo, boardRepo, columnRepo, codes, router, recorder)
	snapshotService := service.NewSnapshotService(historyRepo, taskRepo, boardRepo, columnRepo, cfg.SnapshotCooldown)
	autoArchiveService := service.NewAutoArchiveService(taskRepo)

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(boardService, snapshotService)
	categoryHandler := handler.NewCategoryHandler(boardService)
	taskHandler := handler.NewTaskHandler(taskService)
	historyHandler := handler.NewHistoryHandler(snapshotService)
	cronHandler := handler.NewCronHandler(autoArchiveService)

	// Every request resolves its tenant once; handlers decide whether an
	// unresolved site is fatal.
	r.Use(middleware.SiteResolver(siteRepo))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication and a resolved site
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Board routes
		authorized.POST("/kanban", boardHandler.Create)
		authorized.GET("/kanban/list", boardHandler.List)
		authorized.POST("/kanban/duplicate", boardHandler.Duplicate)
		authorized.POST("/kanban/delete", boardHandler.Delete)
		authorized.GET("/kanban/:id/columns", boardHandler.GetColumns)
		authorized.POST("/kanban/:id/columns/reorder", boardHandler.ReorderColumns)

		// Category routes
		authorized.GET("/kanban/categories", categoryHandler.List)
		authorized.POST("/kanban/categories/save", categoryHandler.Save)
		authorized.POST("/kanban/categories/duplicate", categoryHandler.Duplicate)
		authorized.POST("/kanban/categories/delete", categoryHandler.Delete)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.POST("/tasks/:id/move", taskHandler.Move)
		authorized.POST("/tasks/:id/archive", taskHandler.Archive)
		authorized.POST("/tasks/:id/convert", taskHandler.Convert)
		authorized.GET("/columns/:id/tasks", taskHandler.GetByColumn)

		// History routes
		authorized.POST("/history/capture", historyHandler.Capture)
	}

	// Cron routes - shared secret, also accepts GET for manual triggers
	cron := r.Group("/cron")
	cron.Use(middleware.CronAuth(cfg.CronSecret))
	{
		cron.POST("/auto-archive", cronHandler.AutoArchive)
		cron.GET("/auto-archive", cronHandler.AutoArchive)
	}

	return &Server{
		Engine:   r,
		DB:       db,
		Config:   cfg,
		recorder: recorder,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	// Flush queued audit records before exiting.
	s.recorder.Close()

	log.Println("✅ Server exited properly")
}
