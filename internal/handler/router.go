package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/santana-waiter/internal/middleware"
)

// SetupRouter настраивает маршруты экранов и middleware.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(custommiddleware.RequestLogger(h.logger))
	r.Use(custommiddleware.GzipMiddleware)

	r.Post("/signin", h.SignIn)
	r.Get("/notifications", h.Notifications)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Middleware)

		r.Post("/logout", h.Logout)
		r.Post("/tables", h.OpenTable)

		r.Route("/order", func(r chi.Router) {
			r.Get("/", h.Order)
			r.Post("/categories/reload", h.ReloadCategories)
			r.Post("/category", h.SelectCategory)
			r.Post("/product", h.SelectProduct)
			r.Post("/items", h.AddItem)
			r.Delete("/items/{itemID}", h.RemoveItem)
			r.Post("/discard", h.Discard)
			r.Post("/finish", h.Finish)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.OpenOrders)
			r.Get("/{orderID}", h.OrderDetail)
			r.Put("/{orderID}/table", h.UpdateTable)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
