package web

import (
	"context"
	"net/http"

	"github.com/todolite/todolite/internal/auth"
	"github.com/todolite/todolite/internal/profile"
	"github.com/todolite/todolite/internal/todo/domain"
)

type mockSessionResolver struct {
	resolveFunc func(r *http.Request) (auth.Session, error)
	calls       int
}

func (m *mockSessionResolver) Resolve(r *http.Request) (auth.Session, error) {
	m.calls++
	if m.resolveFunc != nil {
		return m.resolveFunc(r)
	}
	return auth.Session{}, auth.ErrNoSession
}

type mockAuthService struct {
	signInWithOTPFunc func(ctx context.Context, email, redirectTo string) error
	verifyOTPFunc     func(ctx context.Context, tokenHash string) (auth.VerifiedSession, error)
	signOutFunc       func(ctx context.Context, accessToken string) error

	signInCalls []signInCall
}

type signInCall struct {
	email      string
	redirectTo string
}

func (m *mockAuthService) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	m.signInCalls = append(m.signInCalls, signInCall{email: email, redirectTo: redirectTo})
	if m.signInWithOTPFunc != nil {
		return m.signInWithOTPFunc(ctx, email, redirectTo)
	}
	return nil
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, tokenHash string) (auth.VerifiedSession, error) {
	if m.verifyOTPFunc != nil {
		return m.verifyOTPFunc(ctx, tokenHash)
	}
	return auth.VerifiedSession{}, &auth.ServiceError{Status: http.StatusUnauthorized, Message: "invalid token"}
}

func (m *mockAuthService) SignOut(ctx context.Context, accessToken string) error {
	if m.signOutFunc != nil {
		return m.signOutFunc(ctx, accessToken)
	}
	return nil
}

type mockTodoService struct {
	listFunc         func(ctx context.Context, ownerID string) ([]domain.Todo, error)
	addFunc          func(ctx context.Context, ownerID, content string) (domain.Todo, error)
	setCompletedFunc func(ctx context.Context, ownerID, id string, completed bool) error
	removeFunc       func(ctx context.Context, ownerID, id string) error

	calls           int
	completedValues []bool
}

func (m *mockTodoService) List(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return []domain.Todo{}, nil
}

func (m *mockTodoService) Add(ctx context.Context, ownerID, content string) (domain.Todo, error) {
	m.calls++
	if m.addFunc != nil {
		return m.addFunc(ctx, ownerID, content)
	}
	return domain.Todo{ID: "todo-1", OwnerID: ownerID, Content: content}, nil
}

func (m *mockTodoService) SetCompleted(ctx context.Context, ownerID, id string, completed bool) error {
	m.calls++
	m.completedValues = append(m.completedValues, completed)
	if m.setCompletedFunc != nil {
		return m.setCompletedFunc(ctx, ownerID, id, completed)
	}
	return nil
}

func (m *mockTodoService) Remove(ctx context.Context, ownerID, id string) error {
	m.calls++
	if m.removeFunc != nil {
		return m.removeFunc(ctx, ownerID, id)
	}
	return nil
}

type mockProfileStore struct {
	findByUserIDFunc func(ctx context.Context, userID string) (profile.Profile, error)
	upsertFunc       func(ctx context.Context, p profile.Profile) error

	calls int
}

func (m *mockProfileStore) FindByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	m.calls++
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (m *mockProfileStore) Upsert(ctx context.Context, p profile.Profile) error {
	m.calls++
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, p)
	}
	return nil
}
