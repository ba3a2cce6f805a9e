package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"librarycatalog/internal/book"
	"librarycatalog/internal/config"
	"librarycatalog/internal/enrich"
	"librarycatalog/internal/httpx"
	"librarycatalog/internal/logger"
	"librarycatalog/internal/platform/openlibrary"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The configured logger depends on cfg.
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("cannot build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	dbPool, err := openDB(cfg.DBDSN)
	if err != nil {
		log.Fatal("cannot open database", zap.String("dsn", redactDSN(cfg.DBDSN)), zap.Error(err))
	}
	defer dbPool.Close()
	log.Info("database connection OK")

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBTimeout)
	bookService := book.NewService(bookRepository, log.Named("book"), time.Now)

	lookupClient := openlibrary.NewClient(openlibrary.Config{
		BaseURL:   cfg.OpenLibraryBaseURL,
		UserAgent: cfg.OpenLibraryUserAgent,
		RPS:       cfg.OpenLibraryRPS,
		Timeout:   cfg.LookupTimeout,
	})
	enrichService := enrich.NewService(lookupClient, log.Named("enrich"))

	router := newRouter(routes{
		books:  book.NewHTTPHandler(bookService, log.Named("book")),
		enrich: enrich.NewHTTPHandler(enrichService, log.Named("enrich"), time.Now),
		ready:  dbPool.Ping,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newHandler(cfg, log, router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.LookupTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

type routes struct {
	books  *book.HTTPHandler
	enrich *enrich.HTTPHandler
	ready  func(ctx context.Context) error
}

func newRouter(rt routes) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /v1/books", rt.books.List)
	router.HandleFunc("GET /v1/books/{id}", rt.books.Get)

	router.HandleFunc("GET /v1/admin/books", rt.books.ListAdmin)
	router.HandleFunc("POST /v1/admin/books", rt.books.Create)
	router.HandleFunc("POST /v1/admin/books/enrich", rt.enrich.Enrich)
	router.HandleFunc("PUT /v1/admin/books/{id}", rt.books.Update)
	router.HandleFunc("DELETE /v1/admin/books/{id}", rt.books.Delete)

	return router
}

// newHandler wraps the router with the middleware stack, outermost first.
func newHandler(cfg config.Config, log *zap.Logger, router http.Handler) http.Handler {
	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log.Named("http")),
		httpx.RecoveryMiddleware(log.Named("http")),
		httpx.SecurityHeadersMiddleware(cfg.IsProduction()),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		httpx.AuthMiddleware(cfg.JWTSecret),
	)
}

func openDB(dsn string) (*pgxpool.Pool, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
