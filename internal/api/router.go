package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/task-manager/internal/api/handler"
	"github.com/taskforge/task-manager/internal/api/middleware"
	"github.com/taskforge/task-manager/internal/core/ports"
	"github.com/taskforge/task-manager/internal/core/service"
	"github.com/taskforge/task-manager/internal/infrastructure/config"
	mongodb "github.com/taskforge/task-manager/internal/infrastructure/db/mongo"
	redisdb "github.com/taskforge/task-manager/internal/infrastructure/db/redis"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, notifier ports.Notifier, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskmanager"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, loginAttemptLimit, loginAttemptWindow)

	authService := service.NewAuthService(userRepo, tokenService, throttle, notifier, log)
	userService := service.NewUserService(userRepo, taskRepo, notifier, log)
	taskService := service.NewTaskService(taskRepo, log)

	userHandler := handler.NewUserHandler(authService, userService)
	taskHandler := handler.NewTaskHandler(taskService)
	authRequired := middleware.Auth(tokenService, userRepo)

	// --- User routes ---
	e.POST("/users", userHandler.Register)
	e.POST("/users/login", userHandler.Login)
	e.GET("/users/:id/avatar", userHandler.GetAvatar)

	e.POST("/users/logout", userHandler.Logout, authRequired)
	e.POST("/users/logoutAll", userHandler.LogoutAll, authRequired)
	e.GET("/users/me", userHandler.Me, authRequired)
	e.PATCH("/users/me", userHandler.UpdateMe, authRequired)
	e.DELETE("/users/me", userHandler.DeleteMe, authRequired)
	e.POST("/users/me/avatar", userHandler.UploadAvatar, authRequired)
	e.DELETE("/users/me/avatar", userHandler.DeleteAvatar, authRequired)

	// --- Task routes ---
	e.POST("/tasks", taskHandler.Create, authRequired)
	e.GET("/tasks", taskHandler.List, authRequired)
	e.GET("/tasks/:id", taskHandler.Get, authRequired)
	e.PATCH("/tasks/:id", taskHandler.Update, authRequired)
	e.DELETE("/tasks/:id", taskHandler.Delete, authRequired)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
