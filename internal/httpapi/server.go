package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iaros/concierge/internal/bundleengine"
	"github.com/iaros/concierge/internal/dealcache"
	"github.com/iaros/concierge/internal/intent"
	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/registry"
	"github.com/iaros/concierge/internal/store"
)

// Server composes the concierge HTTP surface over the bundle engine, deal
// cache, connection registry, and intent extractor.
type Server struct {
	engine   *bundleengine.Engine
	deals    *dealcache.Cache
	registry *registry.Registry
	intent   *intent.Client
	store    *store.Store
	log      *logging.Logger

	serviceName string
}

// New builds a Server wired to its collaborators.
func New(engine *bundleengine.Engine, deals *dealcache.Cache, reg *registry.Registry, intentClient *intent.Client, st *store.Store, log *logging.Logger) *Server {
	return &Server{
		engine:      engine,
		deals:       deals,
		registry:    reg,
		intent:      intentClient,
		store:       st,
		log:         log,
		serviceName: "concierge-service",
	}
}

// Router builds the gin engine with every route mounted, following
// distribution_service/main.go's setupServer structure: gin.New() plus
// explicit Logger/Recovery/CORS middleware rather than gin.Default().
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(s.traceMiddleware)
	router.Use(corsMiddleware)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/events", s.handleEvents)

	concierge := router.Group("/concierge")
	{
		concierge.POST("/bundles", s.handleGenerateBundle)
		concierge.GET("/bundles/user/:user_id", s.handleBundlesForUser)
		concierge.POST("/watch", s.handleCreateWatch)
		concierge.GET("/watch/:watch_id", s.handleGetWatch)
		concierge.DELETE("/watch/:watch_id", s.handleCancelWatch)
		concierge.GET("/deals", s.handleListDeals)
		concierge.POST("/chat", s.handleChat)
	}

	return router
}

func (s *Server) traceMiddleware(c *gin.Context) {
	id := c.GetHeader("X-Trace-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("trace_id", id)
	c.Next()
}

func corsMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.serviceName})
}
