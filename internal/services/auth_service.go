package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"plantshop/internal/apperrors"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TokenLifetime is how long an issued admin token stays valid. Tokens cannot be revoked.
const TokenLifetime = 7 * 24 * time.Hour

// AdminCredentials is the single static admin identity.
type AdminCredentials struct {
	ID       string
	Password string
	// PasswordHash, when set, is a bcrypt hash checked instead of Password.
	PasswordHash string
}

// Claims are the claims carried by an admin token.
type Claims struct {
	ID string `json:"id"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	admin         AdminCredentials
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(admin AdminCredentials, jwtSecret string) *AuthService {
	return &AuthService{
		admin:         admin,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: TokenLifetime,
		now:           time.Now,
	}
}

// LoginAdmin checks the credentials against the configured admin and returns
// a signed token. The error never says which of id or password was wrong.
func (s *AuthService) LoginAdmin(id, password string) (string, error) {
	if !s.checkCredentials(id, password) {
		return "", apperrors.ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID: id,
		StandardClaims: jwt.StandardClaims{
			Subject:   id,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenDuration).Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) checkCredentials(id, password string) bool {
	if s.admin.ID == "" {
		return false
	}
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(s.admin.ID)) == 1

	var passwordOK bool
	if s.admin.PasswordHash != "" {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
	} else {
		passwordOK = s.admin.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}
	return idOK && passwordOK
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}
	return claims, nil
}
