package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Templates struct {
	all *template.Template
}

func MustParseTemplates() *Templates {
	t := template.New("").Funcs(template.FuncMap{
		"formatDate": formatDate,
		"stars": func(n int) string {
			return strings.Repeat("⭐", n)
		},
		"seq": func(from, to int) []int {
			if to < from {
				return nil
			}
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
		"add": func(a, b int) int { return a + b },
		"dayOffsets": func() []int {
			return []int{1, 3, 7, 14, 30}
		},
	})
	t = template.Must(t.ParseFS(templatesFS, "templates/*.html"))
	return &Templates{all: t}
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.all.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// formatDate renders a timestamp the way the list page shows it, e.g.
// "Monday, December 10, 2025 at 2:30 PM".
func formatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 3:04 PM")
}
