// Package pricefinder exposes the pricing engine over HTTP. The
// surface is deliberately small: a single quote endpoint, a catalog of
// known material categories and a liveness probe.
package pricefinder

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"obracalc-backend/lib/pricing"

	"github.com/gin-gonic/gin"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("obracalc.services.pricefinder")

type Service struct {
	engine *pricing.Engine
}

func NewService(engine *pricing.Engine) *Service {
	return &Service{engine: engine}
}

// Router builds the gin engine with the service routes and middleware
// attached. Callers own the listen/serve lifecycle.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(),
	)

	router.GET("/healthz", s.Health)

	v1 := router.Group("/v1")
	{
		v1.POST("/prices", s.GetPrices)
		v1.GET("/materials", s.GetMaterials)
	}
	return router
}

func (s *Service) GetPrices(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetPrices")
	defer span.End()

	var req pricing.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	res, err := s.engine.FetchPrices(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var reqErr *pricing.RequestError
		if errors.As(err, &reqErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": reqErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Service) GetMaterials(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": pricing.Categories})
}

func (s *Service) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			generated, err := random.String(12)
			if err == nil {
				id = generated
			}
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(
			c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}
