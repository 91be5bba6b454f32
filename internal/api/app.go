package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/sociable/chathub/internal/auth"
	"github.com/sociable/chathub/internal/config"
	"github.com/sociable/chathub/internal/database"
	"github.com/sociable/chathub/internal/hub"
	"github.com/sociable/chathub/internal/stats"
	"github.com/teris-io/shortid"
)

type ChatApp struct {
	log              *log.Logger
	db               database.Repository
	mux              *http.Server
	hub              *hub.Hub
	sessions         *auth.SessionManager
	stats            stats.StatsProvider
	allowedOrigins   []string
	generateJoinCode func() (string, error)
}

func NewChatApp(mux *http.ServeMux, logger *log.Logger, h *hub.Hub, db database.Repository,
	sessions *auth.SessionManager, statsProvider stats.StatsProvider, cfg *config.Config) *ChatApp {
	s := &ChatApp{
		log:              logger,
		db:               db,
		hub:              h,
		sessions:         sessions,
		stats:            statsProvider,
		allowedOrigins:   cfg.AllowedOrigins,
		generateJoinCode: shortid.Generate,
	}

	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("POST /api/conversations", s.authMiddleware(s.createConversation))
	mux.Handle("POST /api/conversations/join", s.authMiddleware(s.joinConversation))
	mux.Handle("GET /api/conversations", s.authMiddleware(s.listConversations))
	mux.Handle("GET /api/messages", s.authMiddleware(s.getMessages))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	handler := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	handler = s.errorHandler(handler)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: handler,
	}

	s.mux = srv
	return s
}

func (s *ChatApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *ChatApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
