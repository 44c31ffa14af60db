package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/observability/metrics"
)

// Client talks to a GoTrue-style auth service. This application never
// implements any auth protocol itself; OTP generation, email delivery
// and session issuance all happen on the other side of this client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifiedSession is what the auth service hands back once an emailed
// passcode has been redeemed.
type VerifiedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type otpRequest struct {
	Email      string `json:"email"`
	CreateUser bool   `json:"create_user"`
}

// SignInWithOTP asks the auth service to email a one-time passcode.
// The email address is passed through as-is; the service owns format
// validation and rejection.
func (c *Client) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	endpoint := c.baseURL + "/auth/v1/otp"
	if redirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	err := c.post(ctx, "otp", endpoint, otpRequest{Email: email, CreateUser: true}, "", nil)
	if err != nil {
		metrics.OTPEmailsRequestedTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.OTPEmailsRequestedTotal.WithLabelValues("ok").Inc()
	return nil
}

type verifyRequest struct {
	Type      string `json:"type"`
	TokenHash string `json:"token_hash"`
}

// VerifyOTP redeems the token hash carried by the emailed magic link.
func (c *Client) VerifyOTP(ctx context.Context, tokenHash string) (VerifiedSession, error) {
	var session VerifiedSession
	err := c.post(ctx, "verify", c.baseURL+"/auth/v1/verify", verifyRequest{
		Type:      "email",
		TokenHash: tokenHash,
	}, "", &session)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		return VerifiedSession{}, err
	}

	metrics.OTPVerificationsTotal.WithLabelValues("ok").Inc()
	return session, nil
}

// GetUser looks up the identity behind an access token. A rejected or
// revoked token comes back as a ServiceError with the collaborator's
// 401.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("build user request: %w", err)
	}
	c.setHeaders(req, accessToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.AuthServiceRequestDurationSeconds.WithLabelValues("user", "error").Observe(time.Since(start).Seconds())
		return User{}, fmt.Errorf("auth service request: %w", err)
	}
	defer resp.Body.Close()

	metrics.AuthServiceRequestDurationSeconds.WithLabelValues("user", statusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		err := c.decodeError(resp)
		c.log.Debugf("auth service user lookup failed: %v", err)
		return User{}, err
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user response: %w", err)
	}
	return user, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.post(ctx, "logout", c.baseURL+"/auth/v1/logout", nil, accessToken, nil); err != nil {
		return err
	}
	metrics.SignOutsTotal.Inc()
	return nil
}

func (c *Client) post(ctx context.Context, operation, endpoint string, body any, accessToken string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	c.setHeaders(req, accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.AuthServiceRequestDurationSeconds.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("auth service request: %w", err)
	}
	defer resp.Body.Close()

	metrics.AuthServiceRequestDurationSeconds.WithLabelValues(operation, statusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := c.decodeError(resp)
		c.log.Debugf("auth service %s failed: %v", operation, err)
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

type serviceErrorBody struct {
	Code             string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body serviceErrorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Msg
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = body.ErrorDescription
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &ServiceError{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: message,
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
