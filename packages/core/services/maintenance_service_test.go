package services

import (
	"testing"
	"time"

	authModels "auth/models"
	"core/models"
	"core/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseExpiredRegistrations(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, user.ID)
	eventSvc := NewEventService(db)
	svc := NewMaintenanceService(db)

	expired := createOpenEvent(t, eventSvc, org.ID, "Expired Cup", 10)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", expired.ID).
		Update("registration_ends_at", past).Error)

	open := createOpenEvent(t, eventSvc, org.ID, "Open Cup", 10)
	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", open.ID).
		Update("registration_ends_at", future).Error)

	count, err := svc.GetExpiredRegistrationCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.CloseExpiredRegistrations())

	refreshed, _ := eventSvc.GetEventByID(expired.ID)
	assert.Equal(t, progression.EventRegistrationClosed, refreshed.Status)

	refreshed, _ = eventSvc.GetEventByID(open.ID)
	assert.Equal(t, progression.EventRegistrationOpen, refreshed.Status)
}

func TestPurgeStaleOTPCodes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMaintenanceService(db)

	code := "123456"
	stale := time.Now().Add(-time.Hour)
	fresh := time.Now()

	staleUser := createTestUser(t, db, "stale@test.local")
	require.NoError(t, db.Model(&authModels.User{}).Where("id = ?", staleUser.ID).
		Updates(map[string]interface{}{"otp_code": code, "otp_requested_at": stale}).Error)

	freshUser := createTestUser(t, db, "fresh@test.local")
	require.NoError(t, db.Model(&authModels.User{}).Where("id = ?", freshUser.ID).
		Updates(map[string]interface{}{"otp_code": code, "otp_requested_at": fresh}).Error)

	require.NoError(t, svc.PurgeStaleOTPCodes())

	var refreshed authModels.User
	require.NoError(t, db.First(&refreshed, staleUser.ID).Error)
	assert.Nil(t, refreshed.OTPCode)

	var refreshedFresh authModels.User
	require.NoError(t, db.First(&refreshedFresh, freshUser.ID).Error)
	require.NotNil(t, refreshedFresh.OTPCode)
	assert.Equal(t, code, *refreshedFresh.OTPCode)
}
