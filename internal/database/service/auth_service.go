package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	sessions database.SessionStore
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	sessions database.SessionStore,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) Register(input RegisterInput) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "email", input.EmailID)

	fields := validateRegistration(input)
	if len(fields) > 0 {
		// Report a taken address together with the other field errors.
		if _, bad := fields["emailId"]; !bad {
			_, err := s.userRepo.FindByEmail(input.EmailID)
			switch {
			case err == nil:
				fields["emailId"] = msgEmailTaken
			case !errors.Is(err, repository.ErrUserNotFound):
				s.logger.Error("❌ [AuthService] Database error", "error", err)
				return nil, err
			}
		}

		s.logger.Warn("⚠️ [AuthService] Registration rejected", "fields", len(fields))
		return nil, &ValidationError{Fields: fields}
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		EmailID:  input.EmailID,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.logger.Warn("⚠️ [AuthService] Email already registered", "email", input.EmailID)
			return nil, &ValidationError{Fields: map[string]string{"emailId": msgEmailTaken}}
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = VerifyPassword(placeholderDigest(), password)
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, "", err
	}

	ok, err := VerifyPassword(user.Password, password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Stored password digest unreadable", "user_id", user.ID, "error", err)
		return nil, "", ErrInvalidCredentials
	}
	if !ok {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to create session", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	s.logger.Info("👋 [AuthService] Logout")

	if err := s.sessions.RevokeSession(ctx, token); err != nil {
		s.logger.Error("❌ [AuthService] Failed to revoke session", "error", err)
		return err
	}

	return nil
}

// ResolveSession returns the user behind a session token, or ErrUnauthenticated
func (s *authService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := s.sessions.LookupSession(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Session points at missing user", "user_id", userID)
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

// Service errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("no authenticated session")
)
