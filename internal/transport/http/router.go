package http

import (
	"net/http"
	"time"

	httpmw "github.com/internxt/meet-server/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, authSecret, webhookSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(middlewareChi.Timeout(30 * time.Second))

	// Provider webhooks carry their own authenticity scheme.
	r.Group(func(wr chi.Router) {
		wr.Use(httpmw.WebhookSignature(webhookSecret))
		wr.Post("/webhooks/jaas", h.Webhook)
	})

	r.Route("/call", func(cr chi.Router) {
		cr.Group(func(pr chi.Router) {
			pr.Use(httpmw.Auth(authSecret))
			pr.Post("/", h.CreateCall)
			pr.Post("/{id}/users/leave", h.LeaveCall)
			pr.Get("/{id}/members", h.GetMembers)
			pr.Get("/{id}/members/count", h.CountMembers)
		})

		// Anonymous participants may join without an account.
		cr.Group(func(jr chi.Router) {
			jr.Use(httpmw.OptionalAuth(authSecret))
			jr.Post("/{id}/users/join", h.JoinCall)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
