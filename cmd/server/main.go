package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	bridge3d "github.com/leohan123123/bridge-3D-AI1"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Load .env if present; real environment variables win.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg := bridge3d.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("BRIDGE3D_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	for i := range cfg.Providers {
		if cfg.Providers[i].APIKey != "" {
			continue
		}
		// Well-known per-provider key variables.
		switch cfg.Providers[i].Provider {
		case "deepseek":
			cfg.Providers[i].APIKey = os.Getenv("DEEPSEEK_API_KEY")
		case "openai":
			cfg.Providers[i].APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Providers[i].APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if v := os.Getenv("BRIDGE3D_OLLAMA_BASE_URL"); v != "" {
		for i := range cfg.Providers {
			if cfg.Providers[i].Provider == "ollama" {
				cfg.Providers[i].BaseURL = v
			}
		}
	}

	apiKey := os.Getenv("BRIDGE3D_API_KEY")
	corsOrigins := os.Getenv("BRIDGE3D_CORS_ORIGINS")

	engine, err := bridge3d.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	h := newHandler(engine)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/analyze_requirements", h.handleAnalyzeRequirements)
	mux.HandleFunc("POST /api/v1/generate_design", h.handleGenerateDesign)
	mux.HandleFunc("POST /api/v1/generate_2d_drawing", h.handleGenerateDrawing)
	mux.HandleFunc("POST /api/v1/generate_3d_model_data", h.handleGenerateModel)
	mux.HandleFunc("GET /api/v1/designs/history", h.handleDesignHistory)
	mux.HandleFunc("GET /api/v1/designs/{id}", h.handleGetDesign)
	mux.HandleFunc("GET /health", h.handleHealth)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // analysis failover can span several provider timeouts
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
