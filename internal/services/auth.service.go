package services

import (
	"errors"
	"time"

	"estimator/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// AuthService signs and verifies HS256 bearer tokens whose subject is the
// user id.
type AuthService struct {
	secret []byte
	issuer string
	log    logger.Logger
}

func NewAuthService(cfg config.Config) (*AuthService, error) {
	log := logger.New("AuthService")

	if cfg.JWTSecret == "" {
		return nil, log.ErrMsg("JWT secret is required")
	}

	return &AuthService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		log:    log,
	}, nil
}

func (s *AuthService) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	log := s.log.Function("IssueToken")

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, nil
}

// ValidateToken returns the user id carried in the token subject. Every
// failure wraps ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	log := s.log.Function("ValidateToken")

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, options...)
	if err != nil || !token.Valid {
		log.Debug("token rejected", "error", err)
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token subject is not a user id", "subject", claims.Subject)
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	return userID, nil
}
