package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/todolite/todolite/internal/auth"
	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/profile"
)

// confirm is the verification route the emailed magic link lands on.
// It redeems the token with the auth service, attaches the session
// cookie and sends the browser to the list page. Any failure falls
// back to the landing page without a session.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	tokenHash := r.URL.Query().Get("token_hash")
	if tokenHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	verified, err := h.authsvc.VerifyOTP(ctx, tokenHash)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "otp_verify_failed",
		}).Warnf("otp verification failed: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// First login provisions the profile row; an existing row wins.
	prof := profile.Profile{
		UserID:   verified.User.ID,
		Username: usernameFromEmail(verified.User.Email),
	}
	if err := h.profiles.Upsert(ctx, prof); err != nil {
		// The list page can render without a profile; do not block the
		// login over it.
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": verified.User.ID,
			"action":  "profile_provision_failed",
		}).Errorf("profile provisioning failed: %v", err)
	}

	h.setSessionCookie(w, r, verified)

	h.log.WithFields(r.Context(), logger.Fields{
		"user_id": verified.User.ID,
		"action":  "session_established",
	}).Info("magic link verified")

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, err := h.sessions.Resolve(r)
	if err == nil {
		ctx, cancel := h.requestContext(r)
		defer cancel()
		if err := h.authsvc.SignOut(ctx, session.AccessToken); err != nil {
			h.log.WithFields(r.Context(), logger.Fields{
				"user_id": session.UserID,
				"action":  "sign_out_failed",
			}).Errorf("sign out failed: %v", err)
		}
	} else if !errors.Is(err, auth.ErrNoSession) {
		h.log.Warnf("logout: session resolve failed: %v", err)
	}

	h.clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, verified auth.VerifiedSession) {
	cookie := &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    verified.AccessToken,
		Path:     "/",
		MaxAge:   verified.ExpiresIn,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}

	http.SetCookie(w, cookie)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}

	http.SetCookie(w, cookie)
}
