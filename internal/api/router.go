package api

import (
	"buho-backend/internal/config"
	"buho-backend/internal/handlers"
	"buho-backend/internal/ratelimit"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	ConversationHandler *handlers.ConversationHandlers
	ChatHandler         *handlers.ChatHandlers
	HealthHandler       *handlers.HealthHandler
	ChatLimiter         *ratelimit.Limiter
	Config              *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler.HandleHealth)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
	}

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		// --- Mount Conversation Routes ---
		if deps.ConversationHandler != nil {
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", deps.ConversationHandler.HandleCreateConversation)
				r.Get("/", deps.ConversationHandler.HandleListConversations)
				r.Get("/{conversationID}", deps.ConversationHandler.HandleGetConversation)
				r.Delete("/{conversationID}", deps.ConversationHandler.HandleDeleteConversation)
			})
		} else {
			log.Println("WARN: ConversationHandler dependency is nil, skipping /v1/conversations routes.")
		}

		// --- Mount Chat Route (throttled per user) ---
		if deps.ChatHandler != nil {
			r.Group(func(r chi.Router) {
				if deps.ChatLimiter != nil {
					r.Use(RateLimitMiddleware(deps.ChatLimiter, "chat"))
				}
				r.Post("/chat", deps.ChatHandler.HandleChat)
			})
		} else {
			log.Println("WARN: ChatHandler dependency is nil, skipping /v1/chat route.")
		}
	})

	return r
}
