package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with logging, recovery and CORS in front of
// the handler routes. Prometheus middleware is attached by the caller after
// this returns, because its collectors may only be registered once per process.
func NewRouter(h *Handler, allowedOrigins string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ZapLogger(logger))
	router.Use(gin.Recovery())
	router.Use(CORS(allowedOrigins))

	h.RegisterRoutes(router)
	return router
}
