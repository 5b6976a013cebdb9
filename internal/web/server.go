package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"noteboard/internal/storage"
)

// Deps carries what the handlers need.
type Deps struct {
	Store *storage.Store
}

// NewHandler builds the full HTTP surface: the note listing and its mutation
// endpoints. Every mutating path ends in a redirect to "/" whether or not the
// target row existed; the browser never sees an error for a missing note.
func NewHandler(deps Deps) http.Handler {
	views := MustParseTemplates()

	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", handleHealth)
	r.Get("/", handleHome(deps, views))
	r.Post("/", handleCreateNote(deps))
	r.Get("/delete/{noteID}", handleDeleteNote(deps))
	r.Get("/edit/{noteID}", handleEditForm(deps, views))
	r.Post("/edit/{noteID}", handleUpdateNote(deps))
	r.Get("/increment-date/{noteID}/{days}", handleShiftDate(deps))
	r.Get("/rate-note/{noteID}/{stars}", handleRateNote(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
