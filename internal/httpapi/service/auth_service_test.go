package service

import (
	"testing"
	"time"

	"bookdocker/internal/config"
	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(refreshToken *models.RefreshToken) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AdminEmail:      "admin@bookdockergo2.com",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	expertRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	expertRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Expert")).Return(nil)

	expert, err := svc.Register(dto.RegisterRequest{
		Name:     "New Expert",
		Email:    "new@example.com",
		Password: "password123",
		Genre:    "Poetry",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", expert.Email)
	assert.Equal(t, models.RoleExpert, expert.Role)
	assert.NotEqual(t, "password123", expert.Password)
	expertRepo.AssertExpectations(t)
}

func TestRegister_EmailNormalizedToLowercase(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	expertRepo.On("FindByEmail", mock.Anything, "mixed@example.com").Return(nil, gorm.ErrRecordNotFound)
	expertRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Expert")).Return(nil)

	expert, err := svc.Register(dto.RegisterRequest{
		Name:     "Mixed Case",
		Email:    "  MiXeD@Example.COM ",
		Password: "password123",
		Genre:    "Poetry",
	})

	assert.NoError(t, err)
	assert.Equal(t, "mixed@example.com", expert.Email)
}

func TestRegister_EmailInUse(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	existing := &models.Expert{ID: "exp-1", Email: "taken@example.com"}
	expertRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	_, err := svc.Register(dto.RegisterRequest{
		Name:     "Dup",
		Email:    "Taken@Example.com",
		Password: "password123",
		Genre:    "Poetry",
	})

	assert.ErrorIs(t, err, ErrEmailInUse)
	expertRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_AdminEmailGetsAdminRole(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	expertRepo.On("FindByEmail", mock.Anything, "admin@bookdockergo2.com").Return(nil, gorm.ErrRecordNotFound)
	expertRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Expert")).Return(nil)

	expert, err := svc.Register(dto.RegisterRequest{
		Name:     "Admin",
		Email:    "Admin@BookDockerGo2.com",
		Password: "password123",
		Genre:    "Everything",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, expert.Role)
}

func TestLogin_Success(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	hash, _ := auth.HashPassword("password123")
	expert := &models.Expert{
		ID:       "exp-1",
		Email:    "login@example.com",
		Password: hash,
		Role:     models.RoleExpert,
		Status:   models.StatusActive,
	}
	expertRepo.On("FindByEmail", mock.Anything, "login@example.com").Return(expert, nil)
	tokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, got, err := svc.Login("login@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "exp-1", got.ID)

	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "exp-1", claims.ExpertID)
	assert.Equal(t, models.RoleExpert, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	hash, _ := auth.HashPassword("password123")
	expert := &models.Expert{ID: "exp-1", Email: "login@example.com", Password: hash, Status: models.StatusActive}
	expertRepo.On("FindByEmail", mock.Anything, "login@example.com").Return(expert, nil)

	_, _, _, err := svc.Login("login@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	expertRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login("nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	hash, _ := auth.HashPassword("password123")
	expert := &models.Expert{ID: "exp-1", Email: "off@example.com", Password: hash, Status: models.StatusDisabled}
	expertRepo.On("FindByEmail", mock.Anything, "off@example.com").Return(expert, nil)

	_, _, _, err := svc.Login("off@example.com", "password123")

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshAccessToken_RotatesTokens(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "tok-1",
		ExpertID:  "exp-1",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	expert := &models.Expert{ID: "exp-1", Email: "login@example.com", Status: models.StatusActive}

	tokenRepo.On("FindByToken", "old-token").Return(stored, nil)
	tokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)
	tokenRepo.On("Revoke", "tok-1").Return(nil)
	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(expert, nil)

	newAccess, newRefresh, err := svc.RefreshAccessToken("old-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.NotEqual(t, "old-token", newRefresh)
	tokenRepo.AssertCalled(t, "Revoke", "tok-1")
}

func TestRefreshAccessToken_ExpiredToken(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(expertRepo, tokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "tok-1",
		ExpertID:  "exp-1",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	tokenRepo.On("FindByToken", "old-token").Return(stored, nil)
	tokenRepo.On("Delete", "tok-1").Return(nil)

	_, _, err := svc.RefreshAccessToken("old-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	tokenRepo.AssertCalled(t, "Delete", "tok-1")
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(new(MockExpertRepository), new(MockRefreshTokenRepository), testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}
