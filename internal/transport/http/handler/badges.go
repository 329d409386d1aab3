package handler

import (
	"net/http"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/badge"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http/middleware"
)

// BadgeHandler lists the caller's earned achievements.
type BadgeHandler struct {
	svc badge.Service
}

func NewBadgeHandler(svc badge.Service) *BadgeHandler { return &BadgeHandler{svc: svc} }

func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	badges, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}
