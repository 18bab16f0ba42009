package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"stockfolio/backend/internal/service"
	"stockfolio/backend/internal/service/token"
)

type Handler struct {
	router *chi.Mux

	userSvc  *service.UserService
	stockSvc *service.StockService
	dashSvc  *service.DashboardService
	tokens   *token.Issuer
}

func NewHandler(
	userSvc *service.UserService,
	stockSvc *service.StockService,
	dashSvc *service.DashboardService,
	tokens *token.Issuer,
	allowedOrigins []string,
) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Cookie", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(compressBrotli)

	h := &Handler{
		router:   router,
		userSvc:  userSvc,
		stockSvc: stockSvc,
		dashSvc:  dashSvc,
		tokens:   tokens,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/api/v4", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh-token", h.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/logout", h.Logout)
				r.Get("/GetCurrentUser", h.GetCurrentUser)
				r.Post("/addMoney", h.AddMoney)
			})
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/createStock", h.CreateStock)
			r.Post("/buyStock", h.BuyStock)
			r.Post("/update_stock", h.UpdateStock)
			r.Get("/getStockDetail", h.GetStockDetail)
			r.Get("/getAllStocks", h.GetAllStocks)
			r.Get("/searchStock", h.SearchStock)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Get("/invested", h.Invested)
			r.Get("/returns", h.Returns)
			r.Get("/current_value", h.CurrentValue)
			r.Get("/wallet_balance", h.WalletBalance)
			r.Get("/summary", h.Summary)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
