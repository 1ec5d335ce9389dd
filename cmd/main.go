package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/database"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/notification"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/payment"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/routes"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

// @title Eco-Tourism Events API
// @version 1.0
// @description Event catalog, registrations and payments for eco-tourism trips.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&registration.Registration{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	if _, err := auth.SeedAdmin(ctx, auth.NewRepository(db), cfg); err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}

	// Init Redis
	rdb, err := utils.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		log.Println("✅ Redis connected")
	} else {
		log.Println("ℹ️ Redis disabled: token revocation and live notifications are off")
	}

	var mailer notification.Mailer
	if m := utils.NewMailer(cfg); m != nil {
		mailer = m
	}
	notificationSvc := notification.NewService(notification.NewRepository(db), rdb, mailer)

	// Init Kafka
	writer := utils.NewKafkaWriter(cfg)
	if reader := utils.NewKafkaReader(cfg); reader != nil {
		go notification.StartConsumer(ctx, reader, notificationSvc)
	} else {
		log.Println("ℹ️ Kafka disabled: notifications are delivered in-process")
	}

	var gateway payment.Gateway
	if cfg.PaymentsEnabled() {
		gateway = payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	} else {
		log.Println("ℹ️ Razorpay keys unset: online payments are disabled")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if err := routes.Setup(router, cfg, routes.Deps{
		DB:            db,
		Redis:         rdb,
		Kafka:         writer,
		Notifications: notificationSvc,
		Gateway:       gateway,
	}); err != nil {
		log.Fatalf("❌ route setup: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with ctx so open notification streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ server shutdown: %v", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			log.Printf("⚠️ kafka writer close: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("👋 Server stopped")
}
