package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/config"
	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
	"github.com/Ahmed-Younes0x/greenswap/internal/events"
	"github.com/Ahmed-Younes0x/greenswap/internal/repository"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

// AuthService coordinates registration, login and session token flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	refreshMgr *auth.RefreshManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	RefreshStore auth.RefreshTokenStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		refreshMgr: auth.NewRefreshManager(deps.RefreshStore, cfg.Auth.RefreshTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a new account payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Role            domain.Role
	Phone           string
	Location        string
	Organization    string
	Bio             string
}

// ProfilePatch carries partial profile updates; nil fields are untouched.
type ProfilePatch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Location     *string
	Organization *string
	Bio          *string
}

// Register creates an account and performs an implicit login.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	if input.Password != input.PasswordConfirm {
		return nil, nil, apperrors.NewValidationError("passwords do not match", nil)
	}
	if input.Role == "" {
		input.Role = domain.RoleIndividual
	}
	if !domain.ValidRole(input.Role) || input.Role == domain.RoleAdmin {
		return nil, nil, apperrors.NewValidationError("invalid account type", map[string]any{"user_type": input.Role})
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, nil, apperrors.NewConflict("username already taken", nil)
	} else if err != pgx.ErrNoRows {
		return nil, nil, err
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Phone:        input.Phone,
		Location:     input.Location,
		Organization: input.Organization,
		Bio:          input.Bio,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, user.ID, events.UserRegisteredPayload{
		Username: user.Username,
		Role:     user.Role,
	})
	return user, tokens, nil
}

// Login authenticates by username and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}
	if !user.Active {
		return nil, nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh rotates the presented refresh token and mints a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, newRefresh, err := s.refreshMgr.Rotate(ctx, refreshToken)
	if err != nil {
		if err == auth.ErrRefreshTokenInvalid {
			return nil, apperrors.NewUnauthorized("refresh token invalid or expired")
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		_ = s.refreshMgr.Revoke(ctx, newRefresh)
		return nil, apperrors.NewUnauthorized("account unavailable")
	}

	access, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: newRefresh, AccessExpiresAt: exp}, nil
}

// Logout revokes the refresh token. Revocation problems are logged, not
// surfaced: the client clears its local session either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshMgr.Revoke(ctx, refreshToken); err != nil {
		s.logger.Warn("refresh token revocation failed", zap.Error(err))
	}
	return nil
}

// CurrentUser loads the account behind a validated access token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial patch and returns the fresh snapshot.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *patch.Email); err == nil {
			return nil, apperrors.NewConflict("email already registered", nil)
		} else if err != pgx.ErrNoRows {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Organization != nil {
		user.Organization = *patch.Organization
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash,
// then revokes every outstanding refresh token for the account.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.refreshMgr.RevokeAll(ctx, userID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshMgr.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh, AccessExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
