package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/roeeblo/smart-job-tracker/config"
	"github.com/roeeblo/smart-job-tracker/internal/constants"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
)

// TokenKind selects which secret and lifetime a token is bound to.
// Access and refresh tokens are never interchangeable.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type TokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

func (s *TokenService) IssueAccess(userID uint) (string, error) {
	return s.issue(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

func (s *TokenService) IssueRefresh(userID uint) (string, error) {
	return s.issue(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

func (s *TokenService) issue(userID uint, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"uid": float64(userID),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify parses a token of the given kind and returns the user id it
// carries. Expired and forged tokens come back as distinct domain
// errors; handlers collapse both into the same 401 body.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (uint, error) {
	secret := s.cfg.AccessSecret
	if kind == RefreshToken {
		secret = s.cfg.RefreshSecret
	}

	claims, err := s.parse(tokenString, secret)
	if err != nil {
		return 0, err
	}

	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return uint(uid), nil
}

// SignState mints a short-lived single-purpose token that rides through
// the OAuth redirect as the state parameter.
func (s *TokenService) SignState() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iss":   constants.StateIssuer,
		"aud":   constants.StateAudience,
		"nonce": uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.StateTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.StateSecret))
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

func (s *TokenService) VerifyState(state string) error {
	claims, err := s.parse(state, s.cfg.StateSecret)
	if err != nil {
		return apperrors.ErrInvalidState
	}

	if iss, _ := claims["iss"].(string); iss != constants.StateIssuer {
		return apperrors.ErrInvalidState
	}
	aud, _ := claims.GetAudience()
	for _, a := range aud {
		if a == constants.StateAudience {
			return nil
		}
	}
	return apperrors.ErrInvalidState
}

func (s *TokenService) parse(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
