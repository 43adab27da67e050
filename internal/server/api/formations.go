package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/particula/internal/app"
	"github.com/ayusman/particula/internal/formation"
)

// Formations is the part of the application the formation endpoints use.
type Formations interface {
	Formations() []app.FormationInfo
	Advance() formation.Change
}

// FormationHandler lists the catalogue and advances it on request.
type FormationHandler struct {
	app Formations
}

// NewFormationHandler creates a new FormationHandler.
func NewFormationHandler(a Formations) *FormationHandler {
	return &FormationHandler{app: a}
}

type listFormationsResponse struct {
	Formations []app.FormationInfo `json:"formations"`
}

type advanceResponse struct {
	Index         int    `json:"index"`
	Key           string `json:"key"`
	Name          string `json:"name"`
	TransitionEnd string `json:"transitionEnd"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/formations, /api/formations/next
func (h *FormationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/formations"), "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, listFormationsResponse{Formations: h.app.Formations()})
	case "next":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c := h.app.Advance()
		writeJSON(w, http.StatusOK, advanceResponse{
			Index:         c.Index,
			Key:           c.Key,
			Name:          c.Name,
			TransitionEnd: c.TransitionEnd.Format(time.RFC3339Nano),
		})
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
