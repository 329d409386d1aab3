package handler

import (
	"encoding/json"
	"net/http"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/exercise"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// ExerciseHandler serves the exercise catalog; writes are admin-only.
type ExerciseHandler struct {
	svc exercise.Service
}

func NewExerciseHandler(svc exercise.Service) *ExerciseHandler { return &ExerciseHandler{svc: svc} }

func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExerciseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExerciseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "exercise deleted"})
}
