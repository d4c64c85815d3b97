package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Ahmed-Younes0x/greenswap/internal/api/dto"
	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/service"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

// AuthHandler exposes the session/authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register/.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, tokens, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.UserType,
		Phone:           req.Phone,
		Location:        req.Location,
		Organization:    req.Organization,
		Bio:             req.Bio,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.TokenPairResponse{Access: tokens.Access, Refresh: tokens.Refresh},
	})
}

// Login handles POST /api/auth/login/.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, tokens, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.TokenPairResponse{Access: tokens.Access, Refresh: tokens.Refresh},
	})
}

// Logout handles POST /api/auth/logout/.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	_ = c.BodyParser(&req)

	if err := h.auth.Logout(c.Context(), req.Refresh); err != nil {
		return err
	}
	return c.SendStatus(http.StatusResetContent)
}

// Refresh handles POST /api/auth/token/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Refresh == "" {
		return apperrors.NewValidationError("refresh token required", nil)
	}

	tokens, err := h.auth.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{Access: tokens.Access, Refresh: tokens.Refresh})
}

// CurrentUser handles GET /api/auth/current-user/.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.CurrentUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateProfile handles PATCH /api/auth/profile/.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.UpdateProfile(c.Context(), principal.User.ID, service.ProfilePatch{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Location:     req.Location,
		Organization: req.Organization,
		Bio:          req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChangePassword handles POST /api/auth/password/change/.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"detail": "password updated"})
}
