package httpapi

import (
	"net/http"
	"time"

	"viralhub-backend-go/internal/config"
	"viralhub-backend-go/internal/llm"
	"viralhub-backend-go/internal/services"
	"viralhub-backend-go/internal/storage"
	"viralhub-backend-go/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Server struct {
	Store      storage.Gateway
	Config     config.Config
	Validator  *validation.Validator
	Assistants *services.AssistantDispatcher
	Identity   IdentityResolver
	Logger     *zap.Logger
	Metrics    *Metrics
}

// NewServer wires the route layer. A nil provider runs assistants in mock mode.
func NewServer(store storage.Gateway, provider llm.Provider, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	var identity IdentityResolver = DemoIdentity{}
	if cfg.JWTSecret != "" {
		identity = TokenIdentity{
			Tokens: services.TokenService{
				Secret:    []byte(cfg.JWTSecret),
				Issuer:    cfg.JWTIssuer,
				AccessTTL: time.Hour,
			},
			Fallback: services.DemoUserID,
		}
	}
	return &Server{
		Store:      store,
		Config:     cfg,
		Validator:  validation.New(),
		Assistants: services.NewAssistantDispatcher(store, provider),
		Identity:   identity,
		Logger:     logger,
		Metrics:    NewMetrics(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(WithRequestID)
	r.Use(RequestLogger(s.Logger))
	r.Use(s.Metrics.Instrument)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)

		api.Group(func(acting chi.Router) {
			acting.Use(WithIdentity(s.Identity))

			acting.Post("/seed", s.Seed)

			acting.Route("/assistants", func(assistants chi.Router) {
				assistants.Get("/", s.ListAssistants)
				assistants.Post("/", s.CreateAssistant)
				assistants.Post("/run", s.RunAssistant)
			})

			acting.Route("/users/me", func(me chi.Router) {
				me.Get("/", s.Me)
				me.Put("/", s.UpdateMe)
			})

			acting.Route("/products", func(products chi.Router) {
				products.Get("/", s.RecentProducts)
				products.Post("/", s.CreateProduct)
				products.Get("/mine", s.MyProducts)
				products.Get("/{productId}", s.ProductDetail)
			})

			acting.Post("/contents", s.CreateContent)
		})

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusNotFound, "Not found")
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		})
	})

	r.Handle("/metrics", s.Metrics.Handler())
	r.Handle("/*", StaticHandler(s.Config.StaticDir))
	return r
}
