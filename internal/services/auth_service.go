package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

// Mailer delivers best-effort notification email. A failing transport must
// never fail the operation that triggered the send.
type Mailer interface {
	SendWelcome(to, name string) error
	SendVerificationCode(to, name, code string) error
}

// EventPublisher emits domain events to the message broker, best-effort.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

const verificationCodeTTL = 10 * time.Minute

// AuthService handles registration, login, and the password-reset flow.
type AuthService struct {
	users     repositories.UserRepository
	mailer    Mailer
	events    EventPublisher
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, mailer Mailer, events EventPublisher, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		mailer:    mailer,
		events:    events,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		log:       log,
	}
}

// Register creates a new non-admin user. Duplicate name/email and password
// mismatch are validation errors. The welcome email and the registration
// event are best-effort.
func (s *AuthService) Register(name, email, password, confirm string) (*models.User, error) {
	if password != confirm {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if existing, err := s.users.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}
	if existing, err := s.users.GetByName(name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		s.log.Warn("welcome email not sent", zap.String("email", user.Email), zap.Error(err))
	}
	s.publishEvent("user.registered", map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	})

	return user, nil
}

// Login verifies credentials and returns a signed session token. Unknown
// name and wrong password produce the same error.
func (s *AuthService) Login(name, password string) (string, *models.User, error) {
	user, err := s.users.GetByName(name)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"name":     user.Name,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, user, nil
}

// ValidateToken parses and validates a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// RequestPasswordReset stores a fresh 6-digit code with a 10-minute expiry
// and emails it. It reports success for unknown emails too, so callers
// cannot probe for accounts; the boolean tells the handler whether a code
// really went out (the session marker is only set on that path).
func (s *AuthService) RequestPasswordReset(email string) (bool, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	expires := time.Now().Add(verificationCodeTTL)
	user.VerificationCode = &code
	user.VerificationCodeExpiresAt = &expires
	if err := s.users.Update(user); err != nil {
		return false, fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(user.Email, user.Name, code); err != nil {
		s.log.Warn("verification email not sent", zap.String("email", user.Email), zap.Error(err))
	}
	return true, nil
}

// VerifyResetCode checks the stored code and its expiry.
func (s *AuthService) VerifyResetCode(email, code string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.VerificationCode == nil || user.VerificationCodeExpiresAt == nil {
		return fmt.Errorf("%w: invalid or expired code", ErrValidation)
	}
	if *user.VerificationCode != code || !time.Now().Before(*user.VerificationCodeExpiresAt) {
		return fmt.Errorf("%w: invalid or expired code", ErrValidation)
	}
	return nil
}

// CompleteReset sets the new password and clears the code, making the
// verified step one-shot.
func (s *AuthService) CompleteReset(email, newPassword, confirm string) error {
	if newPassword != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.VerificationCode = nil
	user.VerificationCodeExpiresAt = nil
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}

// UpdateProfile changes a user's display name and email, keeping both unique.
func (s *AuthService) UpdateProfile(userID uint, name, email string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if other, err := s.users.GetByEmail(email); err != nil {
		return err
	} else if other != nil && other.ID != userID {
		return fmt.Errorf("%w: email already in use", ErrValidation)
	}
	if other, err := s.users.GetByName(name); err != nil {
		return err
	} else if other != nil && other.ID != userID {
		return fmt.Errorf("%w: username already taken", ErrValidation)
	}
	user.Name = name
	user.Email = email
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(userID uint, current, newPassword, confirm string) error {
	if newPassword != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *AuthService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		s.log.Warn("failed to publish event", zap.String("event", routingKey), zap.Error(err))
	}
}
