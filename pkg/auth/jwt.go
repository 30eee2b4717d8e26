package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT validation errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims represents the JWT claims for a logged-in user. Login is
// username-only, so the username doubles as the user identifier.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT validation configuration
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  []string
}

// Validator validates JWT tokens
type Validator struct {
	config JWTConfig
}

// NewValidator creates a new JWT validator
func NewValidator(config JWTConfig) (*Validator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	return &Validator{config: config}, nil
}

// ValidateToken validates a token and returns its claims
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(v.config.SecretKey), nil
	},
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GeneratorConfig holds JWT generation configuration
type GeneratorConfig struct {
	SecretKey  string
	Issuer     string
	Audience   []string
	ExpiryTime time.Duration
}

// Generator issues JWT tokens
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new JWT generator
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if config.ExpiryTime == 0 {
		config.ExpiryTime = 7 * 24 * time.Hour
	}
	return &Generator{config: config}, nil
}

// GenerateToken issues a signed token for the given username
func (g *Generator) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			Issuer:    g.config.Issuer,
			Audience:  g.config.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.config.ExpiryTime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.config.SecretKey))
}
