package handler

import (
	"net/http"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
)

// ListRoles returns the static role set.
func ListRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Roles())
}
