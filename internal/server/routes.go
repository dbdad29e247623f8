package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealsadmin/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) error {
	static, err := staticHandler()
	if err != nil {
		return fmt.Errorf("staticHandler: %w", err)
	}

	r.Handle("/static/*", static)

	// unauthorized zone
	r.Get("/", handler(s.getIndex))
	r.Post("/login", handler(s.postLogin))
	r.Post("/logout", handler(s.postLogout))

	r.Group(func(r chi.Router) {
		r.Use(s.AuthServer.gate.Require)

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", handler(s.getPendingDeals))
			r.Get("/all", handler(s.getAllDeals))
			r.Post("/{id}/approve", handler(s.postApproveDeal))
			r.Post("/{id}/reject", handler(s.postRejectDeal))
		})
	})

	return nil
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
