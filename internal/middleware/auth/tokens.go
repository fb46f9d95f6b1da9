package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/models"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService signs, validates and rotates the cookie token pair.
type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func SignAccessToken(userID uint, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignRefreshToken(userID uint, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(RefreshTokenTTL).Unix(),
		"typ":  "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SaveRefreshToken(db *gorm.DB, token string, userID uint, role string) error {
	record := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		Role:      role,
		ExpiresAt: time.Now().Add(RefreshTokenTTL).Unix(),
	}
	if err := db.Create(&record).Error; err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ParseAccess validates an access token and returns its claims.
func ParseAccess(raw string, secret []byte) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateRefresh checks signature, typ claim and the stored token record.
func ValidateRefresh(raw string, secret []byte, db *gorm.DB) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	var stored models.RefreshToken
	if err := db.Where("token = ?", raw).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

// RotateToken exchanges a valid refresh token for a fresh pair. The old
// token is revoked so it cannot be replayed.
func (t *TokenService) RotateToken(raw string) (newAccess, newRefresh string, claims jwt.MapClaims, err error) {
	claims, err = ValidateRefresh(raw, t.RefreshSecret, t.DB)
	if err != nil {
		return "", "", nil, err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, err = SignAccessToken(userID, role, t.JWTSecret)
	if err != nil {
		return "", "", nil, err
	}
	newRefresh, err = SignRefreshToken(userID, role, t.RefreshSecret)
	if err != nil {
		return "", "", nil, err
	}

	if err := t.DB.Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error; err != nil {
		return "", "", nil, err
	}
	if err := SaveRefreshToken(t.DB, newRefresh, userID, role); err != nil {
		return "", "", nil, err
	}

	return newAccess, newRefresh, claims, nil
}
