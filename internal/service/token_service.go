package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"barter-auth/internal/domain"
)

const (
	// DefaultSessionTTL es ~1 año (31556926 segundos).
	DefaultSessionTTL      = 31556926 * time.Second
	DefaultVerificationTTL = time.Hour

	tokenTypeSession = "session"
	tokenTypeVerify  = "verify"
)

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// SessionClaims son los claims del token de sesion.
type SessionClaims struct {
	AccountID string `json:"id"`
	LoginName string `json:"loginName"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// VerificationClaims son los claims del token del link de verificacion.
type VerificationClaims struct {
	AccountID string `json:"id"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService emite y valida tokens de sesion y de verificacion de email.
// Cada tipo usa su propio secreto.
type TokenService struct {
	sessionSecret      []byte
	verificationSecret []byte
	sessionTTL         time.Duration
	verificationTTL    time.Duration
	issuer             string
	now                func() time.Time
}

func NewTokenService(sessionSecret, verificationSecret string, sessionTTL, verificationTTL time.Duration, issuer string) *TokenService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if verificationTTL <= 0 {
		verificationTTL = DefaultVerificationTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "barter-auth"
	}
	return &TokenService{
		sessionSecret:      []byte(sessionSecret),
		verificationSecret: []byte(verificationSecret),
		sessionTTL:         sessionTTL,
		verificationTTL:    verificationTTL,
		issuer:             issuer,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// IssueSessionToken firma un token de sesion con id, login name y email de la cuenta.
func (s *TokenService) IssueSessionToken(account domain.Account) (string, error) {
	now := s.now()
	claims := SessionClaims{
		AccountID:        account.ID,
		LoginName:        account.LoginName,
		Email:            account.Email,
		TokenType:        tokenTypeSession,
		RegisteredClaims: s.registered(account.ID, now, s.sessionTTL),
	}
	return s.sign(claims, s.sessionSecret)
}

// IssueVerificationToken firma un token de corta vida con el id de la cuenta.
func (s *TokenService) IssueVerificationToken(accountID string) (string, error) {
	now := s.now()
	claims := VerificationClaims{
		AccountID:        accountID,
		TokenType:        tokenTypeVerify,
		RegisteredClaims: s.registered(accountID, now, s.verificationTTL),
	}
	return s.sign(claims, s.verificationSecret)
}

func (s *TokenService) ParseSessionToken(tokenString string) (SessionClaims, error) {
	var claims SessionClaims
	if err := s.parse(tokenString, s.sessionSecret, &claims); err != nil {
		return SessionClaims{}, err
	}
	if claims.TokenType != tokenTypeSession || !s.isValidRegistered(claims.AccountID, claims.RegisteredClaims) {
		return SessionClaims{}, ErrJWTInvalid
	}
	return claims, nil
}

// ParseVerificationToken valida el token del link y devuelve el id de cuenta.
func (s *TokenService) ParseVerificationToken(tokenString string) (string, error) {
	var claims VerificationClaims
	if err := s.parse(tokenString, s.verificationSecret, &claims); err != nil {
		if errors.Is(err, ErrJWTExpired) {
			return "", ErrVerificationTokenExpired
		}
		return "", ErrVerificationTokenInvalid
	}
	if claims.TokenType != tokenTypeVerify || !s.isValidRegistered(claims.AccountID, claims.RegisteredClaims) {
		return "", ErrVerificationTokenInvalid
	}
	return claims.AccountID, nil
}

func (s *TokenService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims jwt.Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: secret not configured", ErrSigning)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenString string, secret []byte, claims jwt.Claims) error {
	if len(secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return ErrJWTInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrJWTExpired
		}
		return ErrJWTInvalid
	}
	return nil
}

func (s *TokenService) isValidRegistered(accountID string, claims jwt.RegisteredClaims) bool {
	if strings.TrimSpace(accountID) == "" {
		return false
	}
	if claims.Subject != accountID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
