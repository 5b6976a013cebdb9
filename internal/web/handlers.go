package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"noteboard/internal/storage"
)

// homeData feeds the list page template.
type homeData struct {
	Items      []storage.Item
	Notes      []storage.Note
	Page       int
	TotalPages int
	TotalCount int
	Filter     string
	FilterDate string
	Sort       string
}

// editData feeds the edit form template.
type editData struct {
	Note storage.Note
}

func handleHome(deps Deps, views *Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		opts := storage.ListOptions{
			Page:       page,
			Filter:     q.Get("filter"),
			FilterDate: q.Get("date"),
			Sort:       q.Get("sort"),
		}
		if opts.Filter == "" {
			opts.Filter = "all"
		}
		if opts.Sort == "" {
			opts.Sort = "asc"
		}
		if opts.Page < 1 {
			opts.Page = 1
		}

		items, err := deps.Store.ListItems()
		if err != nil {
			slog.Error("listing items", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		np, err := deps.Store.ListNotes(opts)
		if err != nil {
			slog.Error("listing notes", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "home.html", homeData{
			Items:      items,
			Notes:      np.Notes,
			Page:       opts.Page,
			TotalPages: np.TotalPages,
			TotalCount: np.TotalCount,
			Filter:     opts.Filter,
			FilterDate: opts.FilterDate,
			Sort:       opts.Sort,
		})
	}
}

func handleCreateNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.CreateNote(r.FormValue("text")); err != nil {
			slog.Error("creating note", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleDeleteNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := noteID(r); ok {
			if err := deps.Store.DeleteNote(id); err != nil {
				slog.Error("deleting note", "id", id, "error", err)
			}
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func handleEditForm(deps Deps, views *Templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := noteID(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		note, err := deps.Store.GetNote(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			slog.Error("loading note", "id", id, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		views.Render(w, "edit.html", editData{Note: note})
	}
}

func handleUpdateNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := noteID(r); ok {
			if err := deps.Store.UpdateNoteText(id, r.FormValue("text")); err != nil {
				slog.Error("updating note", "id", id, "error", err)
			}
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleShiftDate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := noteID(r)
		days, err := strconv.Atoi(chi.URLParam(r, "days"))
		if ok && err == nil {
			if err := deps.Store.ShiftNoteDate(id, days); err != nil {
				slog.Error("shifting note date", "id", id, "days", days, "error", err)
			}
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func handleRateNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := noteID(r)
		stars, err := strconv.Atoi(chi.URLParam(r, "stars"))
		if ok && err == nil {
			// Out-of-range values are rejected by the store itself.
			if err := deps.Store.RateNote(id, stars); err != nil {
				slog.Error("rating note", "id", id, "stars", stars, "error", err)
			}
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	return id, err == nil
}
