package main

import (
	"context"
	"log"

	"github.com/techagentng/opsconsole/config"
	"github.com/techagentng/opsconsole/db"
	"github.com/techagentng/opsconsole/mailingservices"
	"github.com/techagentng/opsconsole/realtime"
	"github.com/techagentng/opsconsole/server"
	"github.com/techagentng/opsconsole/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Mailgun client
	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)
	if err := db.SeedAdminUser(gormDB.DB, conf.AdminEmail, conf.AdminPassword); err != nil {
		log.Fatalf("error seeding admin user: %v", err)
	}
	authRepo := db.NewAuthRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)

	// The registry owns every open notification channel; the broker carries
	// pushes from producers to it.
	registry := realtime.NewRegistry()
	var broker realtime.Broker
	if conf.NotificationBroker == "redis" {
		broker = realtime.NewRedisBroker(conf.RedisAddr, conf.RedisPassword)
	} else {
		broker = realtime.NewMemoryBroker()
	}
	ctx := context.Background()
	if err := broker.Connect(ctx); err != nil {
		log.Fatalf("error connecting notification broker: %v", err)
	}
	if err := realtime.BindRegistry(ctx, broker, registry); err != nil {
		log.Fatalf("error binding notification broker: %v", err)
	}

	authService := services.NewAuthService(authRepo, mailgunClient, conf)
	notificationService := services.NewNotificationService(notificationRepo, broker)
	codeService := services.NewCodeService()
	recommendationService := services.NewRecommendationService(notificationRepo)

	s := &server.Server{
		Mail:                   mailgunClient,
		Config:                 conf,
		AuthRepository:         authRepo,
		AuthService:            authService,
		NotificationRepository: notificationRepo,
		NotificationService:    notificationService,
		CodeService:            codeService,
		RecommendationService:  recommendationService,
		Registry:               registry,
		DB:                     db.GormDB{},
	}

	defer func() {
		if err := broker.Disconnect(); err != nil {
			log.Printf("error disconnecting broker: %v", err)
		}
	}()

	s.Start()
}
