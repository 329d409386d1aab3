package handler

import (
	"encoding/json"
	"net/http"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/device"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/validate"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http/middleware"
)

// DeviceHandler manages the caller's push registration and the version gate.
type DeviceHandler struct {
	svc device.Service
}

func NewDeviceHandler(svc device.Service) *DeviceHandler { return &DeviceHandler{svc: svc} }

// RegisterTokenResponse reports the stored registration plus what the
// deferred delivery sweep did, when it ran.
type RegisterTokenResponse struct {
	Registration *domain.DeviceRegistration `json:"registration"`
	Swept        *notification.SweepResult  `json:"swept,omitempty"`
}

func (h *DeviceHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.RegisterDeviceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg, swept, err := h.svc.RegisterToken(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegisterTokenResponse{Registration: reg, Swept: swept})
}

func (h *DeviceHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	reg, err := h.svc.GetToken(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *DeviceHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteToken(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "token deleted"})
}

func (h *DeviceHandler) CheckVersion(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	upToDate, err := h.svc.CheckVersion(r.Context(), req.Version)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"up_to_date": upToDate})
}
