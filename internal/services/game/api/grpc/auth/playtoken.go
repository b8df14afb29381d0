package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
)

// RoleAdmin is the role claim granting access to AdminService.
const RoleAdmin = "admin"

// playTokenEnv holds raw env values before post-parse validation.
type playTokenEnv struct {
	Issuer    string `env:"NIGHTBUS_PLAY_TOKEN_ISSUER"`
	Audience  string `env:"NIGHTBUS_PLAY_TOKEN_AUDIENCE"`
	PublicKey string `env:"NIGHTBUS_PLAY_TOKEN_PUBLIC_KEY"`
}

// Config defines how play tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Claims are the validated claims of a play token.
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// Admin reports whether the token grants the admin role.
func (c Claims) Admin() bool {
	return c.Role == RoleAdmin
}

type playTokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// LoadConfigFromEnv reads play-token verification settings. It returns
// ok=false when none are set, which selects development mode.
func LoadConfigFromEnv(now func() time.Time) (cfg Config, ok bool, err error) {
	var raw playTokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, false, fmt.Errorf("parse play token env: %w", err)
	}
	return configFromRaw(raw, now)
}

func configFromRaw(raw playTokenEnv, now func() time.Time) (Config, bool, error) {
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{}, false, nil
	}
	if issuer == "" {
		return Config{}, false, errors.New("NIGHTBUS_PLAY_TOKEN_ISSUER is required")
	}
	if audience == "" {
		return Config{}, false, errors.New("NIGHTBUS_PLAY_TOKEN_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, false, errors.New("NIGHTBUS_PLAY_TOKEN_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, false, fmt.Errorf("decode play token public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, false, fmt.Errorf("play token public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, true, nil
}

// ValidatePlayToken verifies token against cfg and returns its claims.
func ValidatePlayToken(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "play token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("play token verifier is not configured")
	}

	var parsed playTokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != cfg.Issuer {
		return Claims{}, invalidToken("play token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, invalidToken("play token audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, invalidToken("play token exp is required")
	}
	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, invalidToken("play token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, invalidToken("play token not active yet")
	}
	userID := strings.TrimSpace(parsed.Subject)
	if userID == "" {
		return Claims{}, invalidToken("play token sub is required")
	}

	return Claims{UserID: userID, Role: parsed.Role, ExpiresAt: exp}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrEd25519Verification):
		return invalidToken("play token signature is invalid")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return invalidToken("play token alg is invalid")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return invalidToken("play token is malformed")
	default:
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "play token is invalid", err)
	}
}

func invalidToken(message string) error {
	return apperrors.New(apperrors.CodeUnauthenticated, message)
}

func audienceContains(audience jwt.ClaimStrings, expected string) bool {
	for _, value := range audience {
		if value == expected {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
