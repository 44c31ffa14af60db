package web

import (
	"errors"
	"net/http"

	"github.com/todolite/todolite/internal/auth"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
	"github.com/todolite/todolite/internal/common/logger"
)

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	_, err := h.sessions.Resolve(r)
	if err == nil {
		// Already signed in: the landing page is not for them.
		http.Redirect(w, r, "/todos", http.StatusSeeOther)
		return
	}
	if !errors.Is(err, auth.ErrNoSession) {
		h.errors.HandleError(w, r, commonerrors.ErrSessionLookupFailed.WithCause(err))
		return
	}

	h.renderer.Landing(w, http.StatusOK, LandingData{})
}

// handleLogin forwards the submitted email to the auth service. No
// local format validation: a malformed address is the collaborator's
// call, and its verdict (status included) is passed straight through.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	redirectTo := callbackURL(r, h.cfg.PublicBaseURL)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.authsvc.SignInWithOTP(ctx, email, redirectTo); err != nil {
		if se, ok := auth.AsServiceError(err); ok {
			h.log.WithFields(r.Context(), logger.Fields{
				"status": se.Status,
				"action": "login_otp_rejected",
			}).Warnf("otp request rejected: %v", se)
			h.renderer.Landing(w, se.Status, LandingData{Email: email, Error: se.Message})
			return
		}
		h.errors.HandleError(w, r, commonerrors.ErrAuthServiceUnavailable.WithCause(err))
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"action": "login_otp_sent",
	}).Info("otp email requested")

	h.renderer.Landing(w, http.StatusOK, LandingData{Sent: true, Email: email})
}
