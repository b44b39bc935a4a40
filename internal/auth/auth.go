package auth

import (
	"time"

	"github.com/frahmantamala/asset-custody/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator creates and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *user.User) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *user.User `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	Issuer         string
}

// Identity is what the middleware learns about the caller after a token checks out.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}
