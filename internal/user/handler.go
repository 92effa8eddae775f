package user

import (
	"log/slog"
	"net/http"

	"github.com/TamilarasanG17/VT-Wallet/internal/auth"
	"github.com/TamilarasanG17/VT-Wallet/internal/transport"
	"github.com/TamilarasanG17/VT-Wallet/pkg/logger"
)

// ServiceAPI is the slice of the auth service the profile endpoints need.
type ServiceAPI interface {
	GetUserByID(id int64) (*auth.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetCurrentUser returns the authenticated user's profile. The record is
// re-read so the response reflects the store, not just the token claims.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.GetUserByID(principal.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}
