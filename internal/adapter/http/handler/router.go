package handler

import (
	"echeck-gateway/internal/adapter/http/middleware"
	redisStore "echeck-gateway/internal/adapter/storage/redis"
	"echeck-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultBodyLimit = 1 << 20 // 1 MB, room for a signature raster

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	IssuerSvc      ports.IssuerService
	AccountSvc     ports.AccountService
	PaymentSvc     ports.PaymentService
	CheckSvc       ports.CheckService
	ReportingSvc   ports.ReportingService
	MemoSvc        ports.MemoService
	SigSvc         ports.SignatureService
	TokenSvc       ports.TokenService
	ChangeFeed     ports.ChangeFeed           // nil = /events disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	HealthCheckers []ports.HealthChecker
	BodyLimit      int64 // 0 = 1 MB
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	bodyLimit := deps.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestContext())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(bodyLimit))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// rl returns the limiter for group, or a no-op without a store.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	authed := v1.Group("", jwtAuth)

	profileHandler := NewProfileHandler(deps.IssuerSvc)
	authed.GET("/profile", rl("dashboard"), profileHandler.Get)
	authed.PATCH("/profile", rl("dashboard"), profileHandler.Update)

	accountHandler := NewAccountHandler(deps.AccountSvc)
	accounts := authed.Group("/accounts", rl("dashboard"))
	{
		accounts.GET("", accountHandler.List)
		accounts.POST("", accountHandler.Link)
		accounts.GET("/:id", accountHandler.Get)
		accounts.PATCH("/:id", accountHandler.Update)
		accounts.DELETE("/:id", accountHandler.Delete)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	authed.POST("/payments", rl("payments"), paymentHandler.SendPayment)

	txHandler := NewTransactionHandler(deps.ReportingSvc, deps.CheckSvc)
	transactions := authed.Group("/transactions")
	{
		transactions.GET("", rl("dashboard"), txHandler.List)
		transactions.GET("/:id", rl("dashboard"), txHandler.Get)
		transactions.POST("/:id/void", rl("payments"), paymentHandler.Void)
		transactions.GET("/:id/instrument", rl("dashboard"), txHandler.Instrument)
		transactions.POST("/:id/print", rl("prints"), txHandler.Print)
		transactions.GET("/:id/prints", rl("dashboard"), txHandler.Prints)
	}
	authed.GET("/dashboard/stats", rl("dashboard"), txHandler.GetStats)

	toolsHandler := NewToolsHandler(deps.MemoSvc, deps.SigSvc)
	authed.POST("/memos/suggest", rl("suggestions"), toolsHandler.SuggestMemo)
	authed.POST("/signatures/typed", rl("suggestions"), toolsHandler.TypedSignature)

	if deps.ChangeFeed != nil {
		eventsHandler := NewEventsHandler(deps.ChangeFeed, deps.Logger)
		authed.GET("/events", eventsHandler.Stream)
	}

	return r
}
