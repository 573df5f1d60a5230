package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
)

const operatorSubject = "operator"

var ErrInvalidToken = errors.New("invalid or expired token")

type Service interface {
	Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResponse, error)
	ValidateAccessToken(token string) (*Claims, error)
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type service struct {
	cfg *config.Config
	now func() time.Time
}

func NewService(cfg *config.Config) Service {
	return &service{cfg: cfg, now: time.Now}
}

// Login checks the single configured operator account. An empty password
// hash disables login.
func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" || s.cfg.OperatorPasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !strings.EqualFold(email, s.cfg.OperatorEmail) {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.JWTAccessExpiry)
	claims := &Claims{
		Email: s.cfg.OperatorEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   operatorSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != operatorSubject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
