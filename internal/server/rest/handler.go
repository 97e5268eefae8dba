package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/rest/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles what the router needs. Registry and Gatherer may be nil, in
// which case HTTP metrics and /metrics are disabled.
type Deps struct {
	Users         UserService
	Auth          middleware.Authenticator
	Reset         ResetService
	Registrations RegistrationService
	DB            Pinger
	Logger        logging.Logger
	CORSOrigins   []string
	Registry      prometheus.Registerer
	Gatherer      prometheus.Gatherer
}

type Handler struct {
	users         UserService
	reset         ResetService
	registrations RegistrationService
	db            Pinger
	logger        logging.Logger
}

// NewRouter builds the gin engine with every route and middleware attached.
func NewRouter(d Deps) (*gin.Engine, error) {
	h := &Handler{
		users:         d.Users,
		reset:         d.Reset,
		registrations: d.Registrations,
		db:            d.DB,
		logger:        d.Logger.With("module", "rest"),
	}

	var metrics *middleware.HTTPMetrics
	if d.Registry != nil {
		m, err := middleware.NewHTTPMetrics(d.Registry)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(d.CORSOrigins),
		middleware.AccessLog(h.logger),
		metrics.Handler(),
	)

	r.GET("/healthz", h.health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/users/", h.register)
	r.POST("/login", h.login)
	r.POST("/forgot-password/", h.forgotPassword)
	r.POST("/reset-password/", h.resetPassword)

	authed := r.Group("/", middleware.RequireAuth(d.Auth))
	authed.GET("/user/profile", h.profile)
	authed.POST("/virtualInternship/", h.internship)
	authed.POST("/seminar/", h.event(models.KindSeminar))
	authed.POST("/webinar/", h.event(models.KindWebinar))
	authed.POST("/research-paper/", h.researchPaper)

	return r, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
