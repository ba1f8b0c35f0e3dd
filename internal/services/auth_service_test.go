package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"boutique/internal/models"
	"boutique/internal/services"
)

func newAuthService(users *MockUserRepository, mailer *MockMailer, events *MockEventPublisher) *services.AuthService {
	var pub services.EventPublisher
	if events != nil {
		pub = events
	}
	return services.NewAuthService(users, mailer, pub, "test-secret", zap.NewNop())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockMailer := new(MockMailer)
	mockEvents := new(MockEventPublisher)
	service := newAuthService(mockUsers, mockMailer, mockEvents)

	mockUsers.On("GetByEmail", "jane@example.com").Return(nil, nil).Once()
	mockUsers.On("GetByName", "jane").Return(nil, nil).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = 7
	}).Return(nil).Once()
	mockMailer.On("SendWelcome", "jane@example.com", "jane").Return(nil).Once()
	mockEvents.On("Publish", "user.registered", mock.Anything).Return(nil).Once()

	user, err := service.Register("jane", "jane@example.com", "secret123", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	mockUsers.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	service := newAuthService(new(MockUserRepository), new(MockMailer), nil)

	user, err := service.Register("jane", "jane@example.com", "secret123", "other")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	mockUsers.On("GetByEmail", "jane@example.com").
		Return(&models.User{ID: 1, Email: "jane@example.com"}, nil).Once()

	user, err := service.Register("jane", "jane@example.com", "secret123", "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateName(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	mockUsers.On("GetByEmail", "jane@example.com").Return(nil, nil).Once()
	mockUsers.On("GetByName", "jane").Return(&models.User{ID: 2, Name: "jane"}, nil).Once()

	user, err := service.Register("jane", "jane@example.com", "secret123", "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Register_MailFailureDoesNotFail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockMailer := new(MockMailer)
	service := newAuthService(mockUsers, mockMailer, nil)

	mockUsers.On("GetByEmail", "jane@example.com").Return(nil, nil).Once()
	mockUsers.On("GetByName", "jane").Return(nil, nil).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendWelcome", "jane@example.com", "jane").
		Return(assert.AnError).Once()

	user, err := service.Register("jane", "jane@example.com", "secret123", "secret123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	stored := &models.User{
		ID:           3,
		Name:         "jane",
		IsAdmin:      true,
		PasswordHash: hashPassword(t, "secret123"),
	}
	mockUsers.On("GetByName", "jane").Return(stored, nil).Once()

	token, user, err := service.Login("jane", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, stored, user)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), claims["user_id"])
	assert.Equal(t, "jane", claims["name"])
	assert.Equal(t, true, claims["is_admin"])
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	stored := &models.User{ID: 3, Name: "jane", PasswordHash: hashPassword(t, "secret123")}
	mockUsers.On("GetByName", "jane").Return(stored, nil).Once()
	mockUsers.On("GetByName", "nobody").Return(nil, nil).Once()

	// Wrong password and unknown name produce the same error.
	_, _, wrongPass := service.Login("jane", "wrong")
	_, _, unknown := service.Login("nobody", "secret123")

	assert.ErrorIs(t, wrongPass, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	mockUsers.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	service := newAuthService(new(MockUserRepository), new(MockMailer), nil)

	claims, err := service.ValidateToken("not-a-token")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockMailer := new(MockMailer)
	service := newAuthService(mockUsers, mockMailer, nil)

	stored := &models.User{ID: 4, Name: "jane", Email: "jane@example.com"}
	mockUsers.On("GetByEmail", "jane@example.com").Return(stored, nil).Once()
	mockUsers.On("Update", stored).Return(nil).Once()
	mockMailer.On("SendVerificationCode", "jane@example.com", "jane", mock.AnythingOfType("string")).
		Return(nil).Once()

	sent, err := service.RequestPasswordReset("jane@example.com")

	assert.NoError(t, err)
	assert.True(t, sent)
	assert.NotNil(t, stored.VerificationCode)
	assert.Len(t, *stored.VerificationCode, 6)
	assert.NotNil(t, stored.VerificationCodeExpiresAt)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.VerificationCodeExpiresAt, time.Minute)
	mockUsers.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	mockUsers.On("GetByEmail", "ghost@example.com").Return(nil, nil).Once()

	sent, err := service.RequestPasswordReset("ghost@example.com")

	// No error leaks whether the account exists; only the flag differs.
	assert.NoError(t, err)
	assert.False(t, sent)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_VerifyResetCode(t *testing.T) {
	code := "123456"
	valid := time.Now().Add(5 * time.Minute)
	expired := time.Now().Add(-time.Minute)

	tests := []struct {
		name    string
		user    *models.User
		code    string
		wantErr error
	}{
		{
			name: "matching code",
			user: &models.User{VerificationCode: &code, VerificationCodeExpiresAt: &valid},
			code: "123456",
		},
		{
			name:    "wrong code",
			user:    &models.User{VerificationCode: &code, VerificationCodeExpiresAt: &valid},
			code:    "000000",
			wantErr: services.ErrValidation,
		},
		{
			name:    "expired code",
			user:    &models.User{VerificationCode: &code, VerificationCodeExpiresAt: &expired},
			code:    "123456",
			wantErr: services.ErrValidation,
		},
		{
			name:    "no code issued",
			user:    &models.User{},
			code:    "123456",
			wantErr: services.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			service := newAuthService(mockUsers, new(MockMailer), nil)
			mockUsers.On("GetByEmail", "jane@example.com").Return(tt.user, nil).Once()

			err := service.VerifyResetCode("jane@example.com", tt.code)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_CompleteReset(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	code := "123456"
	expires := time.Now().Add(5 * time.Minute)
	stored := &models.User{
		ID:                        4,
		Email:                     "jane@example.com",
		PasswordHash:              hashPassword(t, "old-password"),
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expires,
	}
	mockUsers.On("GetByEmail", "jane@example.com").Return(stored, nil).Once()
	mockUsers.On("Update", stored).Return(nil).Once()

	err := service.CompleteReset("jane@example.com", "new-password", "new-password")

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
	// The code is burned with the reset.
	assert.Nil(t, stored.VerificationCode)
	assert.Nil(t, stored.VerificationCodeExpiresAt)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	mockUsers.On("GetByID", uint(4)).Return(&models.User{ID: 4, Name: "jane"}, nil).Once()
	mockUsers.On("GetByEmail", "taken@example.com").
		Return(&models.User{ID: 9, Email: "taken@example.com"}, nil).Once()

	err := service.UpdateProfile(4, "jane", "taken@example.com")

	assert.ErrorIs(t, err, services.ErrValidation)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := newAuthService(mockUsers, new(MockMailer), nil)

	stored := &models.User{ID: 4, PasswordHash: hashPassword(t, "current")}
	mockUsers.On("GetByID", uint(4)).Return(stored, nil).Twice()
	mockUsers.On("Update", stored).Return(nil).Once()

	assert.ErrorIs(t, service.ChangePassword(4, "wrong", "next", "next"), services.ErrInvalidCredentials)

	err := service.ChangePassword(4, "current", "next", "next")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("next")))
	mockUsers.AssertExpectations(t)
}
