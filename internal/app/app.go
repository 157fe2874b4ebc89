package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibelink/hangout-service/internal/config"
	"github.com/vibelink/hangout-service/internal/handler"
	"github.com/vibelink/hangout-service/internal/repository"
	"github.com/vibelink/hangout-service/internal/service"
	"github.com/vibelink/hangout-service/internal/utils"
	"github.com/vibelink/hangout-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis(), infra.Logger())
	feedCache := service.NewFeedCache(infra.Redis(), cfg.Hangout.FeedCacheTTL.Duration, infra.Logger())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		infra.Logger(),
		cfg.Security.BCryptCost,
	)

	hangoutService := service.NewHangoutService(
		infra.Postgres(),
		repos,
		feedCache,
		infra.Logger(),
	)

	authHandler := handler.NewAuthHandler(authService)
	hangoutHandler := handler.NewHangoutHandler(hangoutService, cfg.Hangout.DefaultPageSize, cfg.Hangout.MaxPageSize)

	router := gin.Default()
	router.Use(otelgin.Middleware("hangout-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, infra.Logger(), authHandler, hangoutHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *handler.AuthHandler,
	hangoutHandler *handler.HangoutHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	limit := cfg.Security.RateLimitRequests
	window := cfg.Security.RateLimitWindow.Duration
	authLimit := handler.RateLimitMiddleware(rateLimiter, logger, limit, window, handler.KeyByClientIP("auth"))
	requireAuth := handler.AuthMiddleware(authService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimit, authHandler.Register)
			auth.POST("/login", authLimit, authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/logout-all", requireAuth, authHandler.LogoutAll)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", authHandler.GetMe)
			users.PATCH("/me", authHandler.UpdateMe)
			users.GET("/me/posts", hangoutHandler.ListMyPosts)
			users.GET("/me/requests", hangoutHandler.ListMyRequests)
			users.GET("/:id/reviews", hangoutHandler.ListUserReviews)
		}

		posts := api.Group("/posts", requireAuth)
		{
			posts.POST("",
				handler.RateLimitMiddleware(rateLimiter, logger, limit, window, handler.KeyByUser("posts")),
				hangoutHandler.CreatePost,
			)
			posts.GET("/feed", hangoutHandler.GetFeed)
			posts.GET("/:id", hangoutHandler.GetPost)
			posts.PATCH("/:id", hangoutHandler.UpdatePost)
			posts.DELETE("/:id", hangoutHandler.CancelPost)
			posts.POST("/:id/requests",
				handler.RateLimitMiddleware(rateLimiter, logger, limit, window, handler.KeyByUser("requests")),
				hangoutHandler.SendRequest,
			)
			posts.GET("/:id/requests", hangoutHandler.ListPostRequests)
			posts.POST("/:id/reviews", hangoutHandler.CreateReview)
		}

		requests := api.Group("/requests", requireAuth)
		{
			requests.POST("/:id/respond", hangoutHandler.RespondToRequest)
			requests.DELETE("/:id", hangoutHandler.CancelRequest)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
