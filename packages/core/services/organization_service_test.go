package services

import (
	"testing"

	authModels "auth/models"
	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrganizationGrantsOrganizerRole(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@test.local")
	svc := NewOrganizationService(db)

	org, err := svc.CreateOrganization(user.ID, models.CreateOrganizationRequest{
		Name:  "Arena Esports",
		About: "Tournament organizer",
	})
	require.NoError(t, err)
	assert.Equal(t, "arena-esports", org.Slug)

	var refreshed authModels.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.True(t, refreshed.HasRole(authModels.RoleOrganizer))

	// One organization per user
	_, err = svc.CreateOrganization(user.ID, models.CreateOrganizationRequest{Name: "Second Org"})
	assert.EqualError(t, err, "you already own an organization")
}

func TestGetUserOrganization(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@test.local")
	svc := NewOrganizationService(db)

	_, err := svc.GetUserOrganization(user.ID)
	assert.EqualError(t, err, "organization not found")

	created, err := svc.CreateOrganization(user.ID, models.CreateOrganizationRequest{Name: "Arena Esports"})
	require.NoError(t, err)

	found, err := svc.GetUserOrganization(user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUpdateOrganizationOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@test.local")
	stranger := createTestUser(t, db, "stranger@test.local")
	svc := NewOrganizationService(db)

	org, err := svc.CreateOrganization(owner.ID, models.CreateOrganizationRequest{Name: "Arena Esports"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.UpdateOrganization(org.ID, stranger.ID, models.UpdateOrganizationRequest{Name: &name})
	assert.EqualError(t, err, "you must own the organization to update it")

	updated, err := svc.UpdateOrganization(org.ID, owner.ID, models.UpdateOrganizationRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestTeamLifecycle(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@test.local")
	stranger := createTestUser(t, db, "stranger@test.local")
	svc := NewTeamService(db)

	team, err := svc.CreateTeam(owner.ID, models.CreateTeamRequest{TeamName: "Night Owls"})
	require.NoError(t, err)
	assert.Equal(t, "night-owls", team.Slug)

	// Duplicate names get suffixed slugs
	second, err := svc.CreateTeam(owner.ID, models.CreateTeamRequest{TeamName: "Night Owls"})
	require.NoError(t, err)
	assert.Equal(t, "night-owls-1", second.Slug)

	teams, err := svc.GetUserTeams(owner.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	name := "Day Owls"
	_, err = svc.UpdateTeam(team.ID, stranger.ID, models.UpdateTeamRequest{TeamName: &name})
	assert.EqualError(t, err, "you must own the team to update it")

	updated, err := svc.UpdateTeam(team.ID, owner.ID, models.UpdateTeamRequest{TeamName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Day Owls", updated.TeamName)

	require.NoError(t, svc.DeleteTeam(team.ID, owner.ID))
	_, err = svc.GetTeamByID(team.ID)
	assert.EqualError(t, err, "team not found")
}

func TestDeleteTeamBlockedByRegistration(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	owner := createTestUser(t, db, "owner@test.local")
	teamSvc := NewTeamService(db)
	eventSvc := NewEventService(db)

	team, err := teamSvc.CreateTeam(owner.ID, models.CreateTeamRequest{TeamName: "Night Owls"})
	require.NoError(t, err)

	event := createOpenEvent(t, eventSvc, org.ID, "Open Cup", 10)
	_, err = eventSvc.RegisterTeam(event.ID, team.ID, owner.ID)
	require.NoError(t, err)

	err = teamSvc.DeleteTeam(team.ID, owner.ID)
	assert.EqualError(t, err, "team has active event registrations")
}
