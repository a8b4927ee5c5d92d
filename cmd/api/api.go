package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/jaroslaw-weber/finbot-server/config"
	"github.com/jaroslaw-weber/finbot-server/service/ai"
	"github.com/jaroslaw-weber/finbot-server/service/finance"
	"github.com/jaroslaw-weber/finbot-server/service/webhook"
	"github.com/jaroslaw-weber/finbot-server/service/whatsapp"
)

type APIServer struct {
	address string
	db      *gorm.DB
	cfg     *config.Config
}

func NewApiServer(address string, db *gorm.DB, cfg *config.Config) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
		cfg:     cfg,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	store := finance.NewStore(s.db)
	parser := ai.NewClient(s.cfg.Replicate.URL, s.cfg.Replicate.Token, s.cfg.Replicate.MaxTokens)
	notifier := whatsapp.NewClient(s.cfg.WhatsApp.URL, s.cfg.WhatsApp.APIKey)

	financeRouter := finance.NewRouter(store, parser)

	webhookHandler := webhook.NewHandler(financeRouter, notifier)
	webhookHandler.RegisterRoutes(subrouter)

	router.HandleFunc("/health", healthCheck).Methods("GET")

	wrapped := handlers.RecoveryHandler()(requestIDMiddleware(handlers.LoggingHandler(os.Stdout, router)))

	slog.Info("Server running", "address", s.address)
	return http.ListenAndServe(s.address, wrapped)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// requestIDMiddleware tags every response so webhook deliveries can be
// correlated with provider logs.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.New().String())
		next.ServeHTTP(w, r)
	})
}
