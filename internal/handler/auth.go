package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/authgate/authgate-go/internal/mailer"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/service"
	"github.com/authgate/authgate-go/internal/session"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
	mailer   *mailer.Mailer
}

// NewAuthHandler creates a new AuthHandler. The mailer may be nil when
// no SMTP transport is configured.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager, m *mailer.Mailer) *AuthHandler {
	return &AuthHandler{
		service:  svc,
		sessions: sessions,
		mailer:   m,
	}
}

// HandleSignup handles POST /api/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			slog.Error("signup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "account created",
		"userId":  userID,
	})
}

// HandleLogin handles POST /api/login requests. On success it sets the
// session cookie and best-effort sends a login notification; a mail
// failure is logged but never fails the login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err),
			errors.Is(err, service.ErrCaptchaRequired),
			errors.Is(err, service.ErrCaptchaFailed):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			slog.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, user); err != nil {
		slog.Error("session issue failed", "error", err, "user_id", user.ID)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if err := h.mailer.SendLoginNotification(user.Email); err != nil {
		slog.Warn("login notification failed", "error", err, "user_id", user.ID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "login successful"})
}

// HandleLogout handles POST /api/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), w, r); err != nil {
		slog.Error("logout failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleSession handles GET /api/session requests.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	data, err := h.sessions.Verify(r.Context(), r)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeJSON(w, http.StatusUnauthorized, model.SessionResponse{Authenticated: false})
			return
		}
		slog.Error("session check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		Authenticated: true,
		User: &model.SessionUser{
			UserID: data.UserID,
			Email:  data.Email,
		},
	})
}

// HandleResetPassword handles POST /api/reset-password requests for
// both steps of the flow.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Step {
	case "get-question":
		question, err := h.service.GetSecretQuestion(r.Context(), req.Email)
		if err != nil {
			switch {
			case isValidationError(err):
				writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			case errors.Is(err, service.ErrUserNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			default:
				slog.Error("get secret question failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"secretQuestion": question})

	case "reset-password":
		err := h.service.ResetPassword(r.Context(), req)
		if err != nil {
			switch {
			case isValidationError(err):
				writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			case errors.Is(err, service.ErrUserNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			case errors.Is(err, service.ErrWrongSecretAnswer):
				writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
			default:
				slog.Error("password reset failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})

	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request"))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmailInvalid) ||
		errors.Is(err, service.ErrPasswordRequired) ||
		errors.Is(err, service.ErrPasswordTooShort) ||
		errors.Is(err, service.ErrSecretQuestionRequired) ||
		errors.Is(err, service.ErrSecretAnswerRequired)
}

// decodeBody decodes a JSON request body, writing the error response
// itself and returning false when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
