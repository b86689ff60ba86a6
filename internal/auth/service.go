// Package auth implements the account flows of the dashboard backend:
// signup, login, OTP verification, password reset and logout.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scan-dashboard/internal/common/errors"
	apihttp "scan-dashboard/internal/common/http"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/tokenstore"
	"scan-dashboard/internal/models"
)

const (
	PathSignup         = "/auth/signup/"
	PathLogin          = "/auth/login/"
	PathLogout         = "/auth/logout/"
	PathForgotPassword = "/auth/forgot-password/"
	PathVerifyOTP      = "/auth/verify-otp/"
	PathResendOTP      = "/auth/resend-otp/"
	PathResetPassword  = "/auth/reset-password/"
	PathProfile        = "/auth/profile/"
)

// codeEmailNotConfirmed is the login error that means "verify first".
const codeEmailNotConfirmed = "EMAIL_NOT_CONFIRMED"

// LoginResult is the outcome of Login. Session is set only when the login
// was accepted and the session was stored.
type LoginResult struct {
	Response             *apihttp.APIResponse
	Session              *models.Session
	RequiresVerification bool
}

// VerifyResult is the outcome of VerifyOTP. ResetToken is the short-lived
// credential returned by the password_reset flow.
type VerifyResult struct {
	Response   *apihttp.APIResponse
	ResetToken string
	Session    *models.Session
}

type Service struct {
	client *apihttp.Client
	store  tokenstore.Store
	log    logger.Logger
	now    func() time.Time
}

// NewService builds the service over client. Sessions go to the client's
// token store so authenticated calls pick them up.
func NewService(client *apihttp.Client, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		client: client,
		store:  client.Store(),
		log:    log.WithFields(map[string]interface{}{"component": "auth"}),
		now:    time.Now,
	}
}

func (s *Service) post(ctx context.Context, endpoint string, body interface{}, withAuth bool) (*apihttp.APIResponse, error) {
	return s.client.Request(ctx, apihttp.RequestOptions{
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Body:        body,
		IncludeAuth: withAuth,
	})
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*apihttp.APIResponse, error) {
	req.Email = normalizeEmail(req.Email)
	res, err := validate(signupSchema, req, req.Password, &req.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return apihttp.ValidationFailure(res), nil
	}

	resp, err := s.post(ctx, PathSignup, req, false)
	if err != nil {
		return nil, err
	}
	s.log.Info("Signup submitted", map[string]interface{}{
		"email":   req.Email,
		"success": resp.Success,
	})
	return resp, nil
}

// Login authenticates and stores the returned session. An unconfirmed
// account is reported through RequiresVerification and stores nothing.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	req.Email = normalizeEmail(req.Email)
	res, err := validate(loginSchema, req, req.Password, nil)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return &LoginResult{Response: apihttp.ValidationFailure(res)}, nil
	}

	resp, err := s.post(ctx, PathLogin, req, false)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{Response: resp}

	if resp.String("error") == codeEmailNotConfirmed {
		result.RequiresVerification = true
		s.log.Info("Login requires email verification", map[string]interface{}{"email": req.Email})
		return result, nil
	}
	if !resp.Success {
		s.log.Warn("Login rejected", map[string]interface{}{
			"email":   req.Email,
			"status":  resp.StatusCode,
			"message": resp.Message,
		})
		return result, nil
	}

	session, err := s.storeSession(ctx, resp, req.Email)
	if err != nil {
		return result, err
	}
	result.Session = session
	return result, nil
}

// Logout tells the backend and clears the local session whatever it answers.
func (s *Service) Logout(ctx context.Context) (*apihttp.APIResponse, error) {
	resp, reqErr := s.post(ctx, PathLogout, nil, true)
	if err := s.store.Clear(ctx); err != nil {
		return resp, err
	}
	if reqErr != nil && !stderrors.Is(reqErr, errors.ErrAuthenticationFailed) {
		return nil, reqErr
	}
	if resp == nil {
		// the session was already rejected by the backend
		resp = &apihttp.APIResponse{Success: true, Message: "Logged out"}
	}
	s.log.Info("Logged out", nil)
	return resp, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (*apihttp.APIResponse, error) {
	req := models.EmailRequest{Email: normalizeEmail(email)}
	res, err := emailSchema.Validate(req)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return apihttp.ValidationFailure(res), nil
	}
	return s.post(ctx, PathForgotPassword, req, false)
}

func (s *Service) ResendOTP(ctx context.Context, email string, otpType models.OTPType) (*apihttp.APIResponse, error) {
	req := models.ResendOTPRequest{Email: normalizeEmail(email), Type: otpType}
	res, err := resendOTPSchema.Validate(req)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return apihttp.ValidationFailure(res), nil
	}
	return s.post(ctx, PathResendOTP, req, false)
}

// VerifyOTP checks a one-time code. A registration or email verification
// that returns a session signs the user in.
func (s *Service) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*VerifyResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	res, err := verifyOTPSchema.Validate(req)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return &VerifyResult{Response: apihttp.ValidationFailure(res)}, nil
	}

	resp, err := s.post(ctx, PathVerifyOTP, req, false)
	if err != nil {
		return nil, err
	}
	result := &VerifyResult{Response: resp}
	if !resp.Success {
		return result, nil
	}

	if req.Type == models.OTPPasswordReset {
		result.ResetToken = resp.String("token")
		return result, nil
	}
	if resp.Has("session") {
		session, err := s.storeSession(ctx, resp, req.Email)
		if err != nil {
			return result, err
		}
		result.Session = session
	}
	return result, nil
}

func (s *Service) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*apihttp.APIResponse, error) {
	res, err := validate(resetPasswordSchema, req, req.Password, &req.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return apihttp.ValidationFailure(res), nil
	}
	return s.post(ctx, PathResetPassword, req, false)
}

// Profile fetches the signed-in user and refreshes the cached copy.
func (s *Service) Profile(ctx context.Context) (*models.User, *apihttp.APIResponse, error) {
	resp, err := s.client.Get(ctx, PathProfile, nil)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Success {
		return nil, resp, nil
	}

	var user models.User
	found, err := resp.DecodeField("user", &user)
	if err != nil {
		s.log.Warn("Malformed profile response", map[string]interface{}{"error": err.Error()})
		resp.Success = false
		resp.Kind = apihttp.KindParse
		resp.Message = "Malformed user profile in response"
		return nil, resp, nil
	}
	if !found || user.Email == "" {
		return nil, resp, nil
	}

	if current, err := s.store.Get(ctx); err == nil {
		current.User = user
		if err := s.store.Set(ctx, *current); err != nil {
			s.log.Warn("Failed to cache profile", map[string]interface{}{"error": err.Error()})
		}
	}
	return &user, resp, nil
}

// CurrentSession returns the stored session, or nil when signed out.
func (s *Service) CurrentSession(ctx context.Context) (*models.Session, error) {
	session, err := s.store.Get(ctx)
	if stderrors.Is(err, errors.ErrSessionNotFound) {
		return nil, nil
	}
	return session, err
}

func (s *Service) IsAuthenticated(ctx context.Context) bool {
	session, err := s.CurrentSession(ctx)
	return err == nil && session.Complete()
}

// storeSession persists the session carried by a login or verify response.
// A response without a user still signs in with the submitted email.
func (s *Service) storeSession(ctx context.Context, resp *apihttp.APIResponse, email string) (*models.Session, error) {
	var payload models.SessionPayload
	found, err := resp.DecodeField("session", &payload)
	if err != nil {
		return nil, err
	}
	if !found || payload.AccessToken == "" {
		return nil, errors.NewParseError(fmt.Errorf("response carried no session"))
	}

	user := models.User{Email: email}
	if ok, err := resp.DecodeField("user", &user); err != nil {
		return nil, err
	} else if ok && user.Email == "" {
		user.Email = email
	}

	session := models.Session{Tokens: payload.Tokens(s.now()), User: user}
	if err := s.store.Set(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info("Session stored", map[string]interface{}{
		"email":        user.Email,
		"access_token": logger.Redact(session.Tokens.AccessToken),
		"expires_at":   session.Tokens.ExpiresAt,
	})
	return &session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

