package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"projectops/internal/config"
	"projectops/internal/handlers"
	"projectops/internal/middlewares"
	"projectops/internal/repositories"
	"projectops/internal/routes"
	"projectops/internal/services"
	"projectops/internal/utils"
)

// Stores is everything the HTTP layer persists through. The postgres and
// in-memory repositories both satisfy it.
type Stores struct {
	Projects   services.ProjectStore
	Frameworks services.FrameworkStore
	Users      services.UserStore
	Roles      services.RoleStore
	Budgets    services.BudgetStore
	Redis      *repositories.RedisRepository
	DB         handlers.Pinger
}

// PostgresStores wires the pgx repositories over a shared pool.
func PostgresStores(pool *pgxpool.Pool, rdb *redis.Client) Stores {
	return Stores{
		Projects:   repositories.NewProjectRepository(pool),
		Frameworks: repositories.NewFrameworkRepository(pool),
		Users:      repositories.NewUserRepository(pool),
		Roles:      repositories.NewRoleRepository(pool),
		Budgets:    repositories.NewBudgetRepository(pool),
		Redis:      repositories.NewRedisRepository(rdb),
		DB:         pool,
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg *config.Config, log zerolog.Logger, stores Stores) *gin.Engine {
	tokens := utils.NewTokenManager(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Dependency injection
	projectService := services.NewProjectService(stores.Projects, stores.Frameworks)
	frameworkService := services.NewFrameworkService(stores.Frameworks, stores.Projects, stores.Users)
	budgetService := services.NewBudgetService(stores.Budgets, stores.Projects)
	authService := services.NewAuthService(stores.Users, stores.Redis, tokens)
	userService := services.NewUserService(stores.Users)
	roleService := services.NewRoleService(stores.Roles)
	syncService := services.NewSyncService(stores.Redis)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		User:      handlers.NewUserHandler(userService, roleService),
		Project:   handlers.NewProjectHandler(projectService, budgetService),
		Framework: handlers.NewFrameworkHandler(frameworkService, projectService),
		Sync:      handlers.NewSyncHandler(syncService),
		Health:    handlers.NewHealthHandler(cfg.App.Version, stores.DB, stores.Redis),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middlewares.RequestLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(
		router,
		h,
		middlewares.Authenticate(tokens, authService),
		middlewares.RequireAdmin(stores.Users),
	)

	return router
}

// NewServer creates the HTTP server for the postgres-backed application.
func NewServer(cfg *config.Config, log zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client) *http.Server {
	router := NewRouter(cfg, log, PostgresStores(pool, rdb))

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
