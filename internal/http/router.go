package http

import (
	"io"
	"log/slog"

	"github.com/geocoder89/userservice/internal/config"
	"github.com/geocoder89/userservice/internal/domain/user"
	"github.com/geocoder89/userservice/internal/http/handlers"
	"github.com/geocoder89/userservice/internal/http/middlewares"
	"github.com/geocoder89/userservice/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router wires into handlers.
// Prom and Gatherer are optional; without them no metrics are recorded or served.
// Health defaults to a handler probing Store.
type Deps struct {
	Store    user.Store
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Health   *handlers.HealthHandler
}

func NewRouter(log *slog.Logger, deps Deps, cfg config.Config) *gin.Engine {
	if deps.Store == nil {
		panic("http: NewRouter requires Deps.Store")
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	// a panic is an unexpected error: same body as any other 500
	r.Use(gin.CustomRecoveryWithWriter(io.Discard, func(ctx *gin.Context, recovered any) {
		log.ErrorContext(ctx.Request.Context(), "panic recovered",
			"panic", recovered,
			"route", ctx.FullPath(),
		)
		handlers.RespondInternal(ctx)
	}))
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))

	if cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	}

	// health
	h := deps.Health
	if h == nil {
		h = handlers.NewHealthHandler(deps.Store.Ping)
	}
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// wire up the service and handler
	svc := user.NewService(deps.Store, log)
	usersHandler := handlers.NewUsersHandler(svc, log, cfg.DBOpTimeout)

	users := r.Group("/api/users")
	users.Use(middlewares.RequireJSON())
	{
		users.POST("", usersHandler.CreateUser)
		users.GET("", usersHandler.ListUsers)
		users.GET("/:id", usersHandler.GetUserByID)
		users.PUT("/:id", usersHandler.UpdateUser)
		users.DELETE("/:id", usersHandler.DeleteUser)
		// catch-all so emails containing an (escaped) slash still route here
		users.GET("/email/*email", usersHandler.GetUserByEmail)
	}

	return r
}
