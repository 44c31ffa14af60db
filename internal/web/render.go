package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/todolite/todolite/internal/common/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

type LandingData struct {
	Sent  bool
	Email string
	Error string
}

type TodoView struct {
	ID        string
	Content   string
	Completed bool
	CreatedAt time.Time
}

type TodosData struct {
	Username  string
	AvatarURL string
	Email     string
	Todos     []TodoView
}

type Renderer struct {
	tmpl *template.Template
	log  *logger.Logger
}

func NewRenderer(log *logger.Logger) *Renderer {
	return &Renderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		log:  log,
	}
}

func (rn *Renderer) Landing(w http.ResponseWriter, status int, data LandingData) {
	rn.render(w, status, "landing.html", data)
}

func (rn *Renderer) Todos(w http.ResponseWriter, data TodosData) {
	rn.render(w, http.StatusOK, "todos.html", data)
}

// render executes into a buffer first so a template failure never
// leaks a half-written page behind a 200.
func (rn *Renderer) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := rn.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rn.log.Errorf("render %s failed: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
