package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// metricsHandler puede ser nil si no se exponen metricas.
func NewRouter(
	logger *zap.Logger,
	accountH *AccountHandler,
	sessions SessionParser,
	metricsHandler http.Handler,
) *gin.Engine {
	configureValidator()
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/register", accountH.Register)
	r.POST("/login", accountH.Login)
	r.GET("/confirmation/:token", accountH.ConfirmEmail)

	authed := r.Group("", JWTAuthMiddleware(sessions))
	authed.GET("/me", accountH.Me)
	authed.POST("/profile-details", accountH.SaveProfileDetails)

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			// Ruta sin parametros: no loguea el token de /confirmation.
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
