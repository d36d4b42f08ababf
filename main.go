package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"refurb/admin"
	"refurb/cart"
	"refurb/live"
	"refurb/orders"
	"refurb/ratelim"
	"refurb/rdx"
	"refurb/routes"
	"refurb/tradein"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// cartStoreFactory picks the cart slot backend: Redis when reachable, local
// JSON files otherwise. Either way a session's cart survives a restart.
func cartStoreFactory() cart.StoreFactory {
	if err := rdx.Conn.Ping(context.Background()).Err(); err == nil {
		return func(sessionID string) cart.Store {
			return cart.NewRedisStore(rdx.Conn, sessionID)
		}
	}
	dir := os.Getenv("CART_DIR")
	if dir == "" {
		dir = "./data/carts"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("cart dir: %v", err)
	}
	log.Println("Redis unreachable, using file-backed cart slots in", dir)
	return func(sessionID string) cart.Store {
		return cart.NewFileStore(filepath.Join(dir, sessionID+".json"))
	}
}

// cartConfig reads pricing overrides from the environment, falling back to
// the store defaults (6.95 shipping, free from 50, 21% VAT).
func cartConfig() cart.Config {
	cfg := cart.DefaultConfig()
	if v, err := strconv.ParseFloat(os.Getenv("FLAT_SHIPPING_FEE"), 64); err == nil {
		cfg.FlatShippingFee = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("FREE_SHIPPING_THRESHOLD"), 64); err == nil {
		cfg.FreeShippingThreshold = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("TAX_RATE"), 64); err == nil && v >= 0 && v <= 1 {
		cfg.TaxRate = v
	}
	return cfg
}

func setupRouter(rl *ratelim.RateLimiter, carts *cart.Manager, hub *live.Hub) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rl)
	routes.AddProductRoutes(router, rl)
	routes.AddCartRoutes(router, cart.NewHandlers(carts))
	routes.AddOrderRoutes(router, orders.NewHandlers(carts, hub), rl)
	routes.AddTradeInRoutes(router, tradein.NewHandlers(hub), rl)
	routes.AddAdminRoutes(router, admin.NewHandlers(hub), hub)

	router.ServeFiles("/productpic/*filepath", http.Dir("./static/productpic"))

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rateLimiter := ratelim.NewRateLimiter()

	hub := live.NewHub()
	go hub.Run()

	carts := cart.NewManager(cartConfig(), cartStoreFactory())

	router := setupRouter(rateLimiter, carts, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down event hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
