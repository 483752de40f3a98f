package utils

import (
	"errors"
	"strconv"
	"time"

	"leadhub-backend/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the session claims carried across requests: the user, the
// platform-admin flag, and the active tenant binding (empty for superadmin
// sessions). The token layer does not re-validate membership on update;
// callers re-check before reissuing.
type Claims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	TenantID     string `json:"tenant_id,omitempty"`
	TenantSlug   string `json:"tenant_slug,omitempty"`
	Role         string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte(getJWTSecret())

func getJWTSecret() string {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return "fallback-secret-key-for-development"
	}
	return cfg.JWTSecret
}

// GetJWTExpireDuration gets JWT expiration duration from config
func GetJWTExpireDuration() time.Duration {
	cfg := config.GetConfig()
	if cfg.JWTExpireHours == "" {
		return 12 * time.Hour
	}

	hours, err := strconv.Atoi(cfg.JWTExpireHours)
	if err != nil {
		return 12 * time.Hour
	}

	return time.Duration(hours) * time.Hour
}

// TenantBinding is the tenant part of a session: empty for platform
// sessions.
type TenantBinding struct {
	TenantID   uuid.UUID
	TenantSlug string
	Role       string
}

// GenerateJWT issues a signed session token for a user with an optional
// tenant binding.
func GenerateJWT(userID uuid.UUID, email string, isSuperAdmin bool, binding *TenantBinding) (string, error) {
	expireDuration := GetJWTExpireDuration()

	claims := Claims{
		UserID:       userID.String(),
		Email:        email,
		IsSuperAdmin: isSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	if binding != nil {
		claims.TenantID = binding.TenantID.String()
		claims.TenantSlug = binding.TenantSlug
		claims.Role = binding.Role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// UpdateTenantClaims reissues a token with the tenant binding replaced and
// everything else (user, superadmin flag, expiry) preserved. Used for
// tenant switching; membership validity is the caller's responsibility.
func UpdateTenantClaims(tokenString string, binding *TenantBinding) (string, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return "", err
	}

	if binding != nil {
		claims.TenantID = binding.TenantID.String()
		claims.TenantSlug = binding.TenantSlug
		claims.Role = binding.Role
	} else {
		claims.TenantID = ""
		claims.TenantSlug = ""
		claims.Role = ""
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a session token.
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
