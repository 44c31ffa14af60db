package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/todolite/todolite/internal/auth"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/profile"
	"github.com/todolite/todolite/internal/todo/domain"
)

const testTodoID = "5f6d9df2-8f4e-4a2b-9a3e-1c2d3e4f5a6b"

func setupHandler(t *testing.T) (*mockSessionResolver, *mockAuthService, *mockTodoService, *mockProfileStore, http.Handler) {
	t.Helper()
	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	sessions := &mockSessionResolver{}
	authsvc := &mockAuthService{}
	todos := &mockTodoService{}
	profiles := &mockProfileStore{}

	h := NewHandler(sessions, authsvc, todos, profiles, Config{
		SessionCookieName: "tl_session",
		RequestTimeout:    30 * time.Second,
	}, log)

	return sessions, authsvc, todos, profiles, h
}

func withSession(sessions *mockSessionResolver) {
	sessions.resolveFunc = func(_ *http.Request) (auth.Session, error) {
		return auth.Session{UserID: "user-1", Email: "ada@example.com", AccessToken: "token-1"}, nil
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestTodoList_NoSession_RedirectsBeforeDataAccess(t *testing.T) {
	_, _, todos, profiles, h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if todos.calls != 0 {
		t.Errorf("expected no todo service calls, got %d", todos.calls)
	}
	if profiles.calls != 0 {
		t.Errorf("expected no profile store calls, got %d", profiles.calls)
	}
}

func TestMutation_NoSession_RedirectsBeforeDataAccess(t *testing.T) {
	_, _, todos, _, h := setupHandler(t)

	req := postForm("/todos", url.Values{"_action": {"deleteToDo"}, "id": {testTodoID}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if todos.calls != 0 {
		t.Errorf("expected no todo service calls, got %d", todos.calls)
	}
}

func TestLanding_WithSession_RedirectsToTodos(t *testing.T) {
	sessions, _, _, _, h := setupHandler(t)
	withSession(sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/todos" {
		t.Errorf("expected redirect to /todos, got %q", loc)
	}
}

func TestLanding_Anonymous_RendersForm(t *testing.T) {
	_, _, _, _, h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="email"`) {
		t.Errorf("expected landing page to contain the email form")
	}
}

func TestLogin_PassesEmailThroughWithoutValidation(t *testing.T) {
	_, authsvc, _, _, h := setupHandler(t)

	req := postForm("/", url.Values{"_action": {"login"}, "email": {"not-even-an-address"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if len(authsvc.signInCalls) != 1 {
		t.Fatalf("expected 1 otp send call, got %d", len(authsvc.signInCalls))
	}
	if authsvc.signInCalls[0].email != "not-even-an-address" {
		t.Errorf("expected email passed through unchanged, got %q", authsvc.signInCalls[0].email)
	}
	if !strings.Contains(rec.Body.String(), "Check your email") {
		t.Errorf("expected confirmation message in body")
	}
}

func TestLogin_SurfacesCollaboratorStatus(t *testing.T) {
	_, authsvc, _, _, h := setupHandler(t)
	authsvc.signInWithOTPFunc = func(_ context.Context, _, _ string) error {
		return &auth.ServiceError{Status: http.StatusTooManyRequests, Message: "email rate limit exceeded"}
	}

	req := postForm("/", url.Values{"_action": {"login"}, "email": {"ada@example.com"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected collaborator status 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email rate limit exceeded") {
		t.Errorf("expected collaborator message in body")
	}
}

func TestLogin_CallbackDerivedFromRequestOrigin(t *testing.T) {
	_, authsvc, _, _, h := setupHandler(t)

	req := postForm("http://app.example.com/", url.Values{"_action": {"login"}, "email": {"ada@example.com"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if len(authsvc.signInCalls) != 1 {
		t.Fatalf("expected 1 otp send call, got %d", len(authsvc.signInCalls))
	}
	want := "http://app.example.com/auth/confirm"
	if got := authsvc.signInCalls[0].redirectTo; got != want {
		t.Errorf("expected callback %q, got %q", want, got)
	}
}

func TestUpdateToDo_CompletedMapping(t *testing.T) {
	cases := []struct {
		name  string
		form  url.Values
		want  bool
	}{
		{
			name: "checkbox on",
			form: url.Values{"_action": {"updateToDo"}, "id": {testTodoID}, "completed": {"on"}},
			want: true,
		},
		{
			name: "checkbox absent",
			form: url.Values{"_action": {"updateToDo"}, "id": {testTodoID}},
			want: false,
		},
		{
			name: "other literal",
			form: url.Values{"_action": {"updateToDo"}, "id": {testTodoID}, "completed": {"true"}},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions, _, todos, _, h := setupHandler(t)
			withSession(sessions)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, postForm("/todos", tc.form))

			if rec.Code != http.StatusSeeOther {
				t.Errorf("expected status 303, got %d", rec.Code)
			}
			if len(todos.completedValues) != 1 {
				t.Fatalf("expected 1 update call, got %d", len(todos.completedValues))
			}
			if todos.completedValues[0] != tc.want {
				t.Errorf("expected completed=%v, got %v", tc.want, todos.completedValues[0])
			}
		})
	}
}

func TestAddToDo_SuccessRedirectsToList(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)

	var gotOwner, gotContent string
	todos.addFunc = func(_ context.Context, ownerID, content string) (domain.Todo, error) {
		gotOwner, gotContent = ownerID, content
		return domain.Todo{ID: testTodoID, OwnerID: ownerID, Content: content}, nil
	}

	req := postForm("/todos", url.Values{"_action": {"addToDo"}, "content": {"buy milk"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/todos" {
		t.Errorf("expected redirect to /todos, got %q", loc)
	}
	if gotOwner != "user-1" {
		t.Errorf("expected owner stamped from session, got %q", gotOwner)
	}
	if gotContent != "buy milk" {
		t.Errorf("expected content %q, got %q", "buy milk", gotContent)
	}
}

func TestAddToDo_FailureSurfaces(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)
	todos.addFunc = func(_ context.Context, _, _ string) (domain.Todo, error) {
		return domain.Todo{}, commonerrors.ErrTodoCreateFailed
	}

	req := postForm("/todos", url.Values{"_action": {"addToDo"}, "content": {"buy milk"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TODO_CREATE_FAILED") {
		t.Errorf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestUpdateToDo_RepositoryErrorIs500(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)
	todos.setCompletedFunc = func(_ context.Context, _, _ string, _ bool) error {
		return commonerrors.ErrTodoUpdateFailed
	}

	req := postForm("/todos", url.Values{"_action": {"updateToDo"}, "id": {testTodoID}, "completed": {"on"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestDeleteToDo_ForeignIDIsNotFound(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)
	todos.removeFunc = func(_ context.Context, _, _ string) error {
		return commonerrors.ErrTodoNotFound
	}

	req := postForm("/todos", url.Values{"_action": {"deleteToDo"}, "id": {testTodoID}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestUpdateToDo_MissingID_BadRequest(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)

	req := postForm("/todos", url.Values{"_action": {"updateToDo"}, "completed": {"on"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if todos.calls != 0 {
		t.Errorf("expected no todo service calls, got %d", todos.calls)
	}
}

func TestTodoList_RendersNewestFirst(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)

	now := time.Now()
	todos.listFunc = func(_ context.Context, _ string) ([]domain.Todo, error) {
		return []domain.Todo{
			{ID: "t3", Content: "third", CreatedAt: now},
			{ID: "t2", Content: "second", CreatedAt: now.Add(-time.Minute)},
			{ID: "t1", Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	third := strings.Index(body, "third")
	second := strings.Index(body, "second")
	first := strings.Index(body, "first")
	if third == -1 || second == -1 || first == -1 {
		t.Fatalf("expected all todos rendered")
	}
	if !(third < second && second < first) {
		t.Errorf("expected newest-first order, got positions third=%d second=%d first=%d", third, second, first)
	}
}

func TestTodoList_ReadFailureIs500NotEmptyList(t *testing.T) {
	sessions, _, todos, _, h := setupHandler(t)
	withSession(sessions)
	todos.listFunc = func(_ context.Context, _ string) ([]domain.Todo, error) {
		return nil, commonerrors.ErrTodoListFailed
	}

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Nothing here yet") {
		t.Errorf("read failure must not render as an empty list")
	}
}

func TestConfirm_EstablishesSessionAndProvisionsProfile(t *testing.T) {
	_, authsvc, _, profiles, h := setupHandler(t)
	authsvc.verifyOTPFunc = func(_ context.Context, tokenHash string) (auth.VerifiedSession, error) {
		if tokenHash != "hash-1" {
			t.Errorf("expected token hash passed through, got %q", tokenHash)
		}
		return auth.VerifiedSession{
			AccessToken: "access-1",
			ExpiresIn:   3600,
			User:        auth.User{ID: "user-1", Email: "ada@example.com"},
		}, nil
	}

	var provisioned string
	profiles.upsertFunc = func(_ context.Context, p profile.Profile) error {
		provisioned = p.Username
		return nil
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm?token_hash=hash-1", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/todos" {
		t.Errorf("expected redirect to /todos, got %q", loc)
	}
	if provisioned != "ada" {
		t.Errorf("expected profile username %q, got %q", "ada", provisioned)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "tl_session" || cookies[0].Value != "access-1" {
		t.Fatalf("expected session cookie with access token, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Errorf("expected HttpOnly session cookie")
	}
}

func TestConfirm_FailureFallsBackToLanding(t *testing.T) {
	_, _, _, _, h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/confirm?token_hash=bad", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Errorf("expected no session cookie on failed verification")
	}
}

func TestUnknownAction_BadRequest(t *testing.T) {
	sessions, _, _, _, h := setupHandler(t)
	withSession(sessions)

	req := postForm("/todos", url.Values{"_action": {"renameToDo"}})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	sessions, authsvc, _, _, h := setupHandler(t)
	withSession(sessions)

	var signedOut string
	authsvc.signOutFunc = func(_ context.Context, accessToken string) error {
		signedOut = accessToken
		return nil
	}

	req := postForm("/auth/logout", url.Values{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if signedOut != "token-1" {
		t.Errorf("expected sign out with session token, got %q", signedOut)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expired session cookie, got %v", cookies)
	}
}
