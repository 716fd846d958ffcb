package invoice

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sitelog/intake/internal/shared"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func routerFor(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func signedIn(r *http.Request, role string) *http.Request {
	sess := &shared.Session{}
	sess.SignIn("u1", role)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}
