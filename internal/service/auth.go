package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/authgate/authgate-go/internal/captcha"
	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
)

var (
	ErrEmailInvalid           = errors.New("a valid email address is required")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
	ErrPasswordRequired       = errors.New("password is required")
	ErrSecretQuestionRequired = errors.New("a secret question is required")
	ErrSecretAnswerRequired   = errors.New("the secret answer is required")
	ErrCaptchaRequired        = errors.New("captcha verification is required")
	ErrCaptchaFailed          = errors.New("captcha verification failed")

	// ErrInvalidCredentials deliberately covers both an unknown email
	// and a wrong password so the two are indistinguishable to clients.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	ErrEmailTaken        = errors.New("this email address is already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongSecretAnswer = errors.New("the secret answer is incorrect")
)

const minPasswordLength = 6

// AuthService handles signup, login and password-reset business logic.
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	captcha  *captcha.Client
}

// NewAuthService creates a new AuthService. The captcha client may be
// disabled; the login flow then skips human verification.
func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, captcha *captcha.Client) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		captcha:  captcha,
	}
}

// Signup creates a new account and returns the new user's id.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (int64, error) {
	if !validEmail(req.Email) {
		return 0, ErrEmailInvalid
	}
	if len(req.Password) < minPasswordLength {
		return 0, ErrPasswordTooShort
	}
	if req.SecretQuestion == "" {
		return 0, ErrSecretQuestionRequired
	}
	if req.SecretAnswer == "" {
		return 0, ErrSecretAnswerRequired
	}

	passwordHash, err := crypto.HashSecret(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	answerHash, err := crypto.HashSecret(req.SecretAnswer)
	if err != nil {
		return 0, fmt.Errorf("hash secret answer: %w", err)
	}

	user := &model.User{
		Email:            req.Email,
		PasswordHash:     passwordHash,
		SecretQuestion:   req.SecretQuestion,
		SecretAnswerHash: answerHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}

	return user.ID, nil
}

// Authenticate runs the CAPTCHA check when configured, then verifies
// credentials. The CAPTCHA short-circuits before any credential is
// touched; credential mismatches collapse into one generic error.
func (s *AuthService) Authenticate(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if !validEmail(req.Email) {
		return nil, ErrEmailInvalid
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	if s.captcha.Enabled() {
		if req.RecaptchaToken == "" {
			return nil, ErrCaptchaRequired
		}
		ok, err := s.captcha.Verify(ctx, req.RecaptchaToken)
		if err != nil {
			return nil, fmt.Errorf("verify captcha: %w", err)
		}
		if !ok {
			return nil, ErrCaptchaFailed
		}
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := crypto.VerifySecret(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetSecretQuestion returns the stored secret-question prompt for an
// email address. Unknown emails are reported as ErrUserNotFound; this
// step is allowed to confirm account existence, unlike login.
func (s *AuthService) GetSecretQuestion(ctx context.Context, email string) (string, error) {
	if !validEmail(email) {
		return "", ErrEmailInvalid
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.SecretQuestion, nil
}

// ResetPassword verifies the secret answer, rewrites the password hash
// and deletes every session record the user owns, forcing all devices
// to log in again with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if !validEmail(req.Email) {
		return ErrEmailInvalid
	}
	if req.SecretAnswer == "" {
		return ErrSecretAnswerRequired
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	match, err := crypto.VerifySecret(req.SecretAnswer, user.SecretAnswerHash)
	if err != nil {
		return fmt.Errorf("verify secret answer: %w", err)
	}
	if !match {
		return ErrWrongSecretAnswer
	}

	newHash, err := crypto.HashSecret(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return err
	}

	return s.sessions.DeleteByUser(ctx, user.ID)
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
