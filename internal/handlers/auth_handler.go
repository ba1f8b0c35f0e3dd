package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"boutique/internal/middleware"
	"boutique/internal/services"
)

// AuthHandler handles registration, login, the password-reset flow, and
// profile management.
type AuthHandler struct {
	auth     *services.AuthService
	store    *session.Store
	validate *validator.Validate
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService, store *session.Store, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
	router.Post("/reset_password", h.HandleResetRequest)
	router.Post("/verify_reset_code", h.HandleVerifyResetCode)
	router.Post("/reset_token", h.HandleCompleteReset)
}

// RegisterProtectedRoutes registers the profile routes; the router must
// already carry the auth middleware.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleProfile)
	router.Post("/edit_profile", h.HandleEditProfile)
	router.Post("/change_password", h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return fail(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("Welcome %s! Your account has been created. Check your email for details.", user.Name),
		"redirect": "/login",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and establishes the session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	token, user, err := h.auth.Login(req.Name, req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	sess.Set(middleware.SessionTokenKey, token)
	if err := sess.Save(); err != nil {
		return fail(c, h.log, err)
	}

	redirect := "/profile"
	if user.IsAdmin {
		redirect = "/dashboard"
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Login successful",
		"token":    token,
		"is_admin": user.IsAdmin,
		"redirect": redirect,
	})
}

// HandleLogout destroys the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			h.log.Warn("failed to destroy session", zap.Error(err))
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "You have been logged out",
	})
}

// HandleResetRequest starts the password-reset flow. The response is the
// same whether or not the email exists; only the session marker differs.
func (h *AuthHandler) HandleResetRequest(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	sent, err := h.auth.RequestPasswordReset(req.Email)
	if err != nil {
		return fail(c, h.log, err)
	}
	if sent {
		sess, err := h.store.Get(c)
		if err != nil {
			return fail(c, h.log, err)
		}
		sess.Set(middleware.SessionResetEmailKey, req.Email)
		if err := sess.Save(); err != nil {
			return fail(c, h.log, err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email exists, you will receive a verification code",
	})
}

// HandleVerifyResetCode checks the emailed code for the email pending in
// the session and marks it verified.
func (h *AuthHandler) HandleVerifyResetCode(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"verification_code" validate:"required,len=6"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	email, _ := sess.Get(middleware.SessionResetEmailKey).(string)
	if email == "" {
		return fail(c, h.log, fmt.Errorf("%w: no password reset in progress", services.ErrValidation))
	}

	if err := h.auth.VerifyResetCode(email, req.Code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			err = fmt.Errorf("%w: invalid request", services.ErrValidation)
		}
		return fail(c, h.log, err)
	}

	sess.Set(middleware.SessionVerifiedEmailKey, email)
	if err := sess.Save(); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Code verified",
	})
}

// HandleCompleteReset sets the new password for the verified email and
// closes the flow.
func (h *AuthHandler) HandleCompleteReset(c *fiber.Ctx) error {
	var req struct {
		NewPassword     string `json:"new_password" validate:"required,min=6"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	email, _ := sess.Get(middleware.SessionVerifiedEmailKey).(string)
	if email == "" {
		return fail(c, h.log, fmt.Errorf("%w: verification step not completed", services.ErrValidation))
	}

	if err := h.auth.CompleteReset(email, req.NewPassword, req.ConfirmPassword); err != nil {
		return fail(c, h.log, err)
	}

	sess.Delete(middleware.SessionResetEmailKey)
	sess.Delete(middleware.SessionVerifiedEmailKey)
	if err := sess.Save(); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Password has been reset",
		"redirect": "/login",
	})
}

// HandleProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"role":    user.RoleDisplay(),
	})
}

// HandleEditProfile updates the authenticated user's name and email.
func (h *AuthHandler) HandleEditProfile(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name" validate:"required,min=3,max=50"`
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}
	if err := h.auth.UpdateProfile(middleware.UserID(c), req.Name, req.Email); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
	})
}

// HandleChangePassword changes the authenticated user's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, h.log, fmt.Errorf("%w: invalid request body", services.ErrValidation))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.validationFailure(c, err)
	}
	if err := h.auth.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}

func (h *AuthHandler) validationFailure(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string)
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  fields,
		})
	}
	return fail(c, h.log, fmt.Errorf("%w: %v", services.ErrValidation, err))
}
