package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	limitCode := s.limitCodeOps()

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())
	apirouter.GET("/health", s.handleHealthCheck())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.POST("/apikeys", s.handleCreateAPIKey())
	authorized.GET("/apikeys", s.handleListAPIKeys())
	authorized.DELETE("/apikeys/:id", s.handleRevokeAPIKey())

	authorized.POST("/notifications", s.handleCreateNotification())
	authorized.GET("/notifications", s.handleGetNotifications())
	authorized.PUT("/notifications/:id/read", s.handleMarkNotificationRead())
	authorized.POST("/notifications/broadcast", s.requireAdmin(), s.handleBroadcastNotification())
	authorized.GET("/ws/notifications", s.handleNotificationStream())

	authorized.POST("/code/format", limitCode, s.handleFormatCode())
	authorized.POST("/code/validate", limitCode, s.handleValidateCode())
	authorized.GET("/recommendations", s.handleGetRecommendations())
}
