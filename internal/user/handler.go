// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/beanscore/internal/auth"
	"github.com/carterperez-dev/beanscore/internal/core"
	"github.com/carterperez-dev/beanscore/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole(auth.RoleUser))

		r.Delete("/user", h.DeleteMe)
	})
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
