package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/todolite/todolite/internal/auth"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
	"github.com/todolite/todolite/internal/profile"
)

func (h *Handler) handleTodoList(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	prof, err := h.profiles.FindByUserID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			h.errors.HandleError(w, r, commonerrors.ErrProfileLoadFailed.WithCause(err))
			return
		}
		// No profile row yet; fall back to the email local part so the
		// page still renders.
		prof = profile.Profile{UserID: session.UserID, Username: usernameFromEmail(session.Email)}
	}

	todos, err := h.todos.List(ctx, session.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	data := TodosData{
		Username:  prof.Username,
		AvatarURL: prof.AvatarURL,
		Email:     session.Email,
		Todos:     make([]TodoView, 0, len(todos)),
	}
	for _, t := range todos {
		data.Todos = append(data.Todos, TodoView{
			ID:        t.ID,
			Content:   t.Content,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
		})
	}

	h.renderer.Todos(w, data)
}

func (h *Handler) handleAddToDo(w http.ResponseWriter, r *http.Request, session auth.Session) {
	content := r.PostFormValue("content")

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if _, err := h.todos.Add(ctx, session.UserID, content); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *Handler) handleUpdateToDo(w http.ResponseWriter, r *http.Request, session auth.Session) {
	id, err := todoIDFromForm(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	completed := parseCompleted(r.PostFormValue("completed"))

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.todos.SetCompleted(ctx, session.UserID, id, completed); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *Handler) handleDeleteToDo(w http.ResponseWriter, r *http.Request, session auth.Session) {
	id, err := todoIDFromForm(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.todos.Remove(ctx, session.UserID, id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func todoIDFromForm(r *http.Request) (string, error) {
	id := r.PostFormValue("id")
	if id == "" {
		return "", commonerrors.ErrMissingTodoID
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", commonerrors.ErrInvalidTodoID
	}
	return id, nil
}

func usernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
