package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/todolite/todolite/internal/auth"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
	commonhttp "github.com/todolite/todolite/internal/common/http"
	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/profile"
	"github.com/todolite/todolite/internal/todo/domain"
)

// Form action names posted by the pages. Every POST carries one in the
// hidden _action field.
const (
	actionLogin      = "login"
	actionAddToDo    = "addToDo"
	actionUpdateToDo = "updateToDo"
	actionDeleteToDo = "deleteToDo"
)

// SessionResolver attaches a verified identity to a request, or
// reports auth.ErrNoSession. Resolved fresh on every request.
type SessionResolver interface {
	Resolve(r *http.Request) (auth.Session, error)
}

// AuthService is the slice of the auth collaborator the pages use.
type AuthService interface {
	SignInWithOTP(ctx context.Context, email, redirectTo string) error
	VerifyOTP(ctx context.Context, tokenHash string) (auth.VerifiedSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

type TodoService interface {
	List(ctx context.Context, ownerID string) ([]domain.Todo, error)
	Add(ctx context.Context, ownerID, content string) (domain.Todo, error)
	SetCompleted(ctx context.Context, ownerID, id string, completed bool) error
	Remove(ctx context.Context, ownerID, id string) error
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (profile.Profile, error)
	Upsert(ctx context.Context, p profile.Profile) error
}

type Config struct {
	SessionCookieName string
	PublicBaseURL     string
	RequestTimeout    time.Duration
}

type Handler struct {
	sessions SessionResolver
	authsvc  AuthService
	todos    TodoService
	profiles ProfileStore
	renderer *Renderer
	errors   *commonhttp.ErrorHandler
	cfg      Config
	log      *logger.Logger
}

func NewHandler(
	sessions SessionResolver,
	authsvc AuthService,
	todos TodoService,
	profiles ProfileStore,
	cfg Config,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		sessions: sessions,
		authsvc:  authsvc,
		todos:    todos,
		profiles: profiles,
		renderer: NewRenderer(log),
		errors:   commonhttp.NewErrorHandler(log),
		cfg:      cfg,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/auth/confirm", h.confirm)
	mux.HandleFunc("/auth/logout", h.logout)
	mux.HandleFunc("/todos", h.todosPage)
	mux.HandleFunc("/", h.landingPage)
	return mux
}

func (h *Handler) landingPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleLanding(w, r)
	case http.MethodPost:
		h.dispatchLandingAction(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) dispatchLandingAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid form submission", nil, "")
		return
	}

	switch r.PostFormValue("_action") {
	case actionLogin:
		h.handleLogin(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeUnknownAction, "unknown form action", nil, "")
	}
}

func (h *Handler) todosPage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleTodoList(w, r)
	case http.MethodPost:
		h.dispatchTodoAction(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) dispatchTodoAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid form submission", nil, "")
		return
	}

	// Each action re-resolves the session; nothing is carried over from
	// a previous request.
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	switch r.PostFormValue("_action") {
	case actionAddToDo:
		h.handleAddToDo(w, r, session)
	case actionUpdateToDo:
		h.handleUpdateToDo(w, r, session)
	case actionDeleteToDo:
		h.handleDeleteToDo(w, r, session)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeUnknownAction, "unknown form action", nil, "")
	}
}

// requireSession resolves the caller's session and short-circuits to
// the landing page before any data access when there is none.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, err := h.sessions.Resolve(r)
	if err == nil {
		return session, true
	}

	if errors.Is(err, auth.ErrNoSession) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return auth.Session{}, false
	}

	h.errors.HandleError(w, r, commonerrors.ErrSessionLookupFailed.WithCause(err))
	return auth.Session{}, false
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}
