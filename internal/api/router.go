package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portway/gatekeeper/internal/api/handler"
	"github.com/portway/gatekeeper/internal/api/middleware"
	"github.com/portway/gatekeeper/internal/core/domain"
	"github.com/portway/gatekeeper/internal/core/ports"
	"github.com/portway/gatekeeper/internal/core/service"
	mongodb "github.com/portway/gatekeeper/internal/infrastructure/db/mongo"
	redisdb "github.com/portway/gatekeeper/internal/infrastructure/db/redis"
)

// Options carries everything NewRouter needs beyond the live connections.
type Options struct {
	JWTSecret  string
	SessionTTL time.Duration
	Log        zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered. The actuator
// is injected so main can hand in the queued driver and tests a fake.
func NewRouter(db *mongo.Database, rdb *redis.Client, actuator ports.GateActuator, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("gatekeeper"))

	// --- Dependencies ---
	credRepo := mongodb.NewCredentialRepository(db)
	codeRepo := mongodb.NewAccessCodeRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(credRepo, sessions, opts.JWTSecret, opts.SessionTTL)
	userService := service.NewUserService(credRepo, opts.Log)
	accessService := service.NewAccessService(codeRepo, opts.Log)
	gateService := service.NewGateService(actuator, auditRepo, opts.Log)

	authHandler := handler.NewAuthHandler(authService)
	gateHandler := handler.NewGateHandler(gateService, accessService)
	accessHandler := handler.NewAccessHandler(accessService)
	adminHandler := handler.NewAdminHandler(userService)

	authRequired := middleware.Auth(opts.JWTSecret, sessions)
	codeManagers := middleware.RBAC(domain.RoleTrustedUser, domain.RoleAdmin)
	adminsOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Session routes ---
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout, authRequired)
	e.GET("/", authHandler.Home, authRequired)

	// --- Gate routes ---
	e.POST("/open", gateHandler.Open, authRequired)
	e.GET("/code", gateHandler.CodePage)
	e.GET("/code/:code", gateHandler.CodePage)
	e.POST("/code", gateHandler.CodeOpen)
	e.POST("/code/:code", gateHandler.CodeOpen)
	e.GET("/log", gateHandler.Log, authRequired, adminsOnly)

	// --- Access code management ---
	e.GET("/grant_access", accessHandler.List, authRequired, codeManagers)
	e.POST("/grant_access", accessHandler.Grant, authRequired, codeManagers)
	e.POST("/delete_code/:id", accessHandler.Delete, authRequired, codeManagers)

	// --- User administration ---
	e.GET("/admin", adminHandler.List, authRequired, adminsOnly)
	e.POST("/admin", adminHandler.Create, authRequired, adminsOnly)
	e.POST("/delete_user/:id", adminHandler.Delete, authRequired, adminsOnly)
	e.POST("/change_role/:id", adminHandler.ChangeRole, authRequired, adminsOnly)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
