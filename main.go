package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/khryztiam/loans-app/db/migrations"
	"github.com/khryztiam/loans-app/internal/assignments"
	"github.com/khryztiam/loans-app/internal/documents"
	"github.com/khryztiam/loans-app/internal/loans"
	"github.com/khryztiam/loans-app/internal/platform/auth"
	"github.com/khryztiam/loans-app/internal/platform/db"
	"github.com/khryztiam/loans-app/internal/realtime"
	"github.com/khryztiam/loans-app/internal/users"
)

func main() {
	// .env is optional; secrets may also come from the environment directly.
	_ = godotenv.Load()

	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("[ERROR] JWT_SECRET is not set")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	if err := migrations.Run(conn); err != nil {
		log.Fatalf("[ERROR] migrations: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS is only needed while the frontend runs on its own dev server.
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.Auth.JWTSecret)
	authSvc := auth.NewService(conn, secret)

	usersSvc := users.NewService(conn)
	hub := realtime.NewHub()
	loansSvc := loans.NewService(conn, usersSvc, realtime.NewLoanFeed(hub))
	asgSvc := assignments.NewService(conn, usersSvc)
	docsSvc := documents.NewService(asgSvc)

	api := r.Group("/api")
	auth.RegisterPublicRoutes(api, authSvc)
	// The hub authenticates nothing itself; browsers cannot set headers
	// on websocket upgrades, and the feed carries only ids.
	realtime.RegisterRoutes(api, hub)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(secret))
	users.RegisterRoutes(protected, usersSvc)
	loans.RegisterRoutes(protected, loansSvc)
	assignments.RegisterRoutes(protected, asgSvc, docsSvc)
	documents.RegisterRoutes(protected, docsSvc)

	admin := api.Group("", auth.RequireAuth(secret), auth.RequireRole("admin"))
	auth.RegisterAdminRoutes(admin, authSvc)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
