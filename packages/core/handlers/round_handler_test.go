package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	authModels "auth/models"
	"core/models"
	"core/progression"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupHandlerDB opens a fresh in-memory database with the full schema
func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&authModels.User{},
		&authModels.RefreshToken{},
		&models.Organization{},
		&models.Team{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Round{},
		&models.Group{},
		&models.Leaderboard{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// asUser stands in for the JWT middleware in handler tests
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
	}
}

// seedOwnedRound creates a user owning an organization, a live event of that
// organization and one round in the given status
func seedOwnedRound(t *testing.T, db *gorm.DB, roundStatus string) (uint, *models.Round) {
	t.Helper()

	user := &authModels.User{
		Email:    "organizer@example.com",
		Username: "organizer",
		Password: "hashed",
		Slug:     "organizer",
		Verified: true,
		Enabled:  true,
		Roles:    authModels.GetDefaultRoles(),
	}
	require.NoError(t, db.Create(user).Error)

	org := &models.Organization{Name: "Test Org", Slug: "test-org", OwnerID: user.ID}
	require.NoError(t, db.Create(org).Error)

	event := &models.Event{
		Title:    "Winter Clash",
		Slug:     "winter-clash",
		Game:     "BGMI",
		Type:     "tournament",
		Category: "squad",
		Status:   progression.EventLive,
		MaxSlots: 16,
		OrgID:    org.ID,
	}
	require.NoError(t, db.Create(event).Error)

	round := &models.Round{
		RoundName:   "Qualifiers",
		RoundNumber: 1,
		Status:      roundStatus,
		EventID:     event.ID,
	}
	require.NoError(t, db.Create(round).Error)

	return user.ID, round
}

func patchRoundStatus(t *testing.T, router *gin.Engine, roundID uint, status string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(models.UpdateRoundStatusRequest{Status: status})
	require.NoError(t, err)

	path := fmt.Sprintf("/rounds/%d/status", roundID)
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateRoundStatusRejectedTransitionIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerDB(t)
	userID, round := seedOwnedRound(t, db, progression.StageOngoing)

	router := gin.New()
	handler := NewRoundHandler(db)
	router.PATCH("/rounds/:id/status", asUser(userID), handler.UpdateRoundStatus)

	// Backwards move: the transition rules reject it and the handler answers
	// 409, not 400
	w := patchRoundStatus(t, router, round.ID, progression.StagePending)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "transition")

	// The forward move still goes through
	w = patchRoundStatus(t, router, round.ID, progression.StageCompleted)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Round
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, progression.StageCompleted, updated.Status)
}

func TestUpdateGroupRejectedTransitionIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupHandlerDB(t)
	userID, round := seedOwnedRound(t, db, progression.StageOngoing)

	group := &models.Group{GroupName: "Group A", TotalMatch: 3, Status: progression.StageOngoing, RoundID: round.ID}
	require.NoError(t, db.Create(group).Error)

	router := gin.New()
	handler := NewGroupHandler(db)
	router.PATCH("/groups/:id", asUser(userID), handler.UpdateGroup)

	status := progression.StagePending
	body, err := json.Marshal(models.UpdateGroupRequest{Status: &status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/groups/%d", group.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "transition")
}
