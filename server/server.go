package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/techagentng/opsconsole/config"
	"github.com/techagentng/opsconsole/db"
	"github.com/techagentng/opsconsole/mailingservices"
	"github.com/techagentng/opsconsole/realtime"
	"github.com/techagentng/opsconsole/services"
)

// Server wires every handler to its collaborators
type Server struct {
	Config                 *config.Config
	Mail                   *mailingservices.Mailgun
	AuthRepository         db.AuthRepository
	AuthService            services.AuthService
	NotificationRepository db.NotificationRepository
	NotificationService    services.NotificationService
	CodeService            services.CodeService
	RecommendationService  services.RecommendationService
	Registry               *realtime.Registry
	DB                     db.GormDB
}

// Start runs the HTTP server until interrupted, then shuts down gracefully
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server started on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
