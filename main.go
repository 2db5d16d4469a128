package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"tarifplus/db"
	"tarifplus/middleware"
	"tarifplus/mq"
	"tarifplus/notifications"
	"tarifplus/rdx"
	"tarifplus/routes"
)

// Security headers middleware
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Middleware: Simple request logging
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[%s] %s %s", r.Method, r.RequestURI, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// Set up all routes and middleware layers
func setupRouter(hub *notifications.Hub) http.Handler {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddRecipeRoutes(router)
	routes.AddCategoryRoutes(router)
	routes.AddCommentsRoutes(router)
	routes.AddUserRoutes(router)
	routes.AddMediaRoutes(router)
	routes.AddNotificationRoutes(router, hub)
	routes.AddSearchRoutes(router)
	routes.AddSuggestionsRoutes(router)
	routes.AddAdminRoutes(router)
	routes.AddHomeRoutes(router)
	routes.AddStaticRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return loggingMiddleware(securityHeaders(middleware.RecoverMiddleware(c.Handler(router))))
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db.Init()
	defer func() {
		if err := db.Client.Disconnect(context.TODO()); err != nil {
			log.Printf("mongo disconnect failed: %v", err)
		}
	}()

	rdx.Init()

	if err := mq.Init(); err != nil {
		log.Printf("⚠️ RabbitMQ unavailable, events disabled: %v", err)
	}
	defer mq.Close()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	hub := notifications.NewHub()
	go hub.Run()
	go notifications.StartConsumer(consumerCtx, hub)

	handler := setupRouter(hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on port %s: %v", port, err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	log.Println("🛑 Shutdown signal received. Shutting down gracefully...")
	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
