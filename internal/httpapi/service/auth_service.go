package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookdocker/internal/config"
	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"
	"bookdocker/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Claims is the validated identity extracted from an access token.
type Claims struct {
	ExpertID string
	Email    string
	Role     string
}

type AuthService interface {
	Register(req dto.RegisterRequest) (*models.Expert, error)
	Login(email, password string) (accessToken, refreshToken string, expert *models.Expert, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken, newRefreshToken string, err error)
	RevokeToken(refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	expertRepo       repository.ExpertRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	adminEmail       string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	expertRepo repository.ExpertRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		expertRepo:       expertRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		adminEmail:       strings.ToLower(cfg.AdminEmail),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register creates an account together with its marketplace profile.
// Emails are normalized to lower case so uniqueness is case-insensitive.
func (s *authService) Register(req dto.RegisterRequest) (*models.Expert, error) {
	ctx := context.TODO()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if email exists
	if _, err := s.expertRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleExpert
	}
	// The configured admin email always gets the admin role.
	if email == s.adminEmail {
		role = models.RoleAdmin
	}

	expert := &models.Expert{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		Genre:    req.Genre,
		Bio:      req.Bio,
		Country:  req.Country,
	}

	if err := s.expertRepo.Create(ctx, expert); err != nil {
		return nil, err
	}

	return expert, nil
}

// Login authenticates an account and returns access and refresh tokens.
func (s *authService) Login(email, password string) (string, string, *models.Expert, error) {
	ctx := context.TODO()
	expert, err := s.expertRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Unknown email: dummy compare to mitigate timing attacks
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(expert.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if expert.Status == models.StatusDisabled {
		return "", "", nil, ErrAccountDisabled
	}

	accessToken, err := s.generateAccessToken(expert)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(expert)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, expert, nil
}

func (s *authService) generateAccessToken(expert *models.Expert) (string, error) {
	claims := jwt.MapClaims{
		"expert_id": expert.ID,
		"email":     expert.Email,
		"role":      expert.Role,
		"exp":       time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":       time.Now().Unix(),
		"type":      "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(expert *models.Expert) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		ExpertID:  expert.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

// RefreshAccessToken rotates both tokens: the presented refresh token is
// revoked and a fresh pair is issued.
func (s *authService) RefreshAccessToken(refreshTokenString string) (string, string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil || refreshToken.Revoked {
		return "", "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken.ID)
		return "", "", ErrInvalidToken
	}

	expert, err := s.expertRepo.FindByID(context.TODO(), refreshToken.ExpertID)
	if err != nil {
		return "", "", err
	}
	if expert.Status == models.StatusDisabled {
		return "", "", ErrAccountDisabled
	}

	newAccessToken, err := s.generateAccessToken(expert)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err := s.generateRefreshToken(expert)
	if err != nil {
		return "", "", err
	}
	if err := s.refreshTokenRepo.Revoke(refreshToken.ID); err != nil {
		return "", "", err
	}

	return newAccessToken, newRefreshToken, nil
}

func (s *authService) RevokeToken(refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return ErrInvalidToken
	}
	return s.refreshTokenRepo.Revoke(refreshToken.ID)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	expertID, _ := mapClaims["expert_id"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if expertID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{ExpertID: expertID, Email: email, Role: role}, nil
}
