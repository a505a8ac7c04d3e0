package services

import (
	"log"
	"time"

	"core/models"
	"core/progression"

	authModels "auth/models"
	authUtils "auth/utils"

	"gorm.io/gorm"
)

// MaintenanceService handles the periodic housekeeping the scheduler drives:
// closing registration on events past their deadline and purging expired
// tokens and verification codes.
type MaintenanceService struct {
	db *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{
		db: db,
	}
}

// GetExpiredRegistrationCount counts open events whose registration deadline
// has passed
func (s *MaintenanceService) GetExpiredRegistrationCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Event{}).
		Where("status = ? AND registration_ends_at IS NOT NULL AND registration_ends_at < ?",
			progression.EventRegistrationOpen, time.Now()).
		Count(&count).Error
	return count, err
}

// CloseExpiredRegistrations moves events past their registration deadline to
// registration-closed
func (s *MaintenanceService) CloseExpiredRegistrations() error {
	result := s.db.Model(&models.Event{}).
		Where("status = ? AND registration_ends_at IS NOT NULL AND registration_ends_at < ?",
			progression.EventRegistrationOpen, time.Now()).
		Update("status", progression.EventRegistrationClosed)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Closed registration on %d events past their deadline", result.RowsAffected)
	}

	return nil
}

// PurgeExpiredTokens removes refresh tokens past their expiry
func (s *MaintenanceService) PurgeExpiredTokens() error {
	return authUtils.CleanExpiredTokens(s.db)
}

// PurgeStaleOTPCodes clears verification codes that expired without being used
func (s *MaintenanceService) PurgeStaleOTPCodes() error {
	cutoff := time.Now().Add(-authUtils.OTPExpiry)
	return s.db.Model(&authModels.User{}).
		Where("otp_code IS NOT NULL AND otp_requested_at < ?", cutoff).
		Updates(map[string]interface{}{
			"otp_code":         nil,
			"otp_requested_at": nil,
		}).Error
}
