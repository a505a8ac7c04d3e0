package utils

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"auth/models"

	"gorm.io/gorm"
)

const (
	AccessTokenExpiry  = 15 * time.Minute
	RefreshTokenExpiry = 7 * 24 * time.Hour

	refreshTokenBytes = 32
)

// GenerateTokenPair issues a short-lived access token plus a fresh refresh
// token. Earlier refresh tokens of the user are dropped so only one session
// chain stays valid.
func GenerateTokenPair(db *gorm.DB, user models.User) (*models.TokenResponse, error) {
	if err := RevokeAllUserTokens(db, user.ID); err != nil {
		return nil, err
	}
	return issuePair(db, user)
}

// RefreshAccessToken exchanges a refresh token for a new pair. The presented
// token is consumed whether or not it is still valid, so a leaked token can
// be used at most once.
func RefreshAccessToken(db *gorm.DB, token string) (*models.TokenResponse, error) {
	var stored models.RefreshToken
	if err := db.Preload("User").Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, err
	}

	if err := db.Delete(&stored).Error; err != nil {
		return nil, err
	}
	if stored.IsExpired() {
		return nil, gorm.ErrRecordNotFound
	}

	return issuePair(db, stored.User)
}

// RevokeRefreshToken invalidates a single refresh token
func RevokeRefreshToken(db *gorm.DB, token string) error {
	return db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

// RevokeAllUserTokens invalidates every refresh token of a user
func RevokeAllUserTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// CleanExpiredTokens removes expired refresh tokens, called from the scheduler
func CleanExpiredTokens(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}

func issuePair(db *gorm.DB, user models.User) (*models.TokenResponse, error) {
	access, err := GenerateToken(user)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	refresh := base64.RawURLEncoding.EncodeToString(raw)

	record := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(RefreshTokenExpiry),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}
