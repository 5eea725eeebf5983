package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tutorlink/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas del portal.
func NewRouter(
	logger *zap.Logger,
	metrics *observability.Collector,
	metricsHandler http.Handler,
	store SessionReader,
	authH *AuthHandler,
	tutorH *TutorHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), metricsMiddleware(metrics), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	routes := r.Group("", jsonContentTypeMiddleware())

	auth := routes.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)
	auth.POST("/logout", requireSession(store), authH.Logout)
	auth.GET("/me", requireSession(store), authH.Me)

	tutors := routes.Group("/tutors")
	tutors.GET("", tutorH.Browse)
	tutors.GET("/:id", tutorH.Tutor)
	tutors.POST("/:id/contact", requireSession(store), tutorH.Contact)
	tutors.POST("/:id/reviews", requireSession(store), tutorH.Review)

	profile := routes.Group("/profile", requireSession(store))
	profile.PUT("", profileH.UpdateProfile)
	profile.PUT("/subjects", profileH.AddSubject)
	profile.DELETE("/subjects/:subject", profileH.RemoveSubject)
	profile.PUT("/certificates", profileH.AddCertificate)
	profile.PUT("/experiences", profileH.AddExperience)
	profile.DELETE("/experiences/:id", profileH.DeleteExperience)
	profile.PUT("/available-days", profileH.UpdateAvailableDays)
	profile.PUT("/children", profileH.AddChild)
	profile.DELETE("/children/:id", profileH.DeleteChild)
	profile.PUT("/picture", profileH.UpdatePicture)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware usa la ruta registrada como label para no explotar la cardinalidad.
func metricsMiddleware(metrics *observability.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
