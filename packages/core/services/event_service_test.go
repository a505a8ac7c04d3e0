package services

import (
	"testing"
	"time"

	"core/models"
	"core/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOpenEvent(t *testing.T, svc *EventService, orgID uint, title string, maxSlots int) *models.Event {
	t.Helper()

	event, err := svc.CreateEvent(orgID, models.CreateEventRequest{
		Title:    title,
		Game:     "BGMI",
		Type:     "tournament",
		Category: "squad",
		MaxSlots: maxSlots,
	}, "")
	require.NoError(t, err)
	return event
}

func TestCreateEvent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, user.ID)
	svc := NewEventService(db)

	event, err := svc.CreateEvent(org.ID, models.CreateEventRequest{
		Title:    "Winter Clash",
		Game:     "BGMI",
		Type:     "tournament",
		Category: "squad",
		MaxSlots: 50,
	}, "/uploads/cover.png")

	require.NoError(t, err)
	assert.Equal(t, "winter-clash", event.Slug)
	assert.Equal(t, progression.EventRegistrationOpen, event.Status)
	assert.Equal(t, "open", event.RegistrationMode)
	assert.Equal(t, "/uploads/cover.png", event.CoverImage)
	assert.Equal(t, 0, event.JoinedSlots)

	// A second event with the same title gets a suffixed slug
	second, err := svc.CreateEvent(org.ID, models.CreateEventRequest{
		Title:    "Winter Clash",
		Game:     "BGMI",
		Type:     "tournament",
		Category: "squad",
		MaxSlots: 50,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "winter-clash-1", second.Slug)
}

func TestCreateEventUnknownOrg(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db)

	_, err := svc.CreateEvent(999, models.CreateEventRequest{
		Title:    "Ghost Cup",
		Game:     "BGMI",
		Type:     "tournament",
		Category: "squad",
		MaxSlots: 50,
	}, "")

	assert.EqualError(t, err, "organization not found")
}

func TestListEventsCursorPagination(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, user.ID)
	svc := NewEventService(db)

	for i := 0; i < 5; i++ {
		createOpenEvent(t, svc, org.ID, "Event "+string(rune('A'+i)), 10)
	}

	// First page: newest first, one extra row signals another page
	page1, err := svc.ListEvents(0, 2, "")
	require.NoError(t, err)
	assert.Len(t, page1.Data, 2)
	assert.True(t, page1.HasMore)
	assert.Equal(t, "Event E", page1.Data[0].Title)
	assert.Equal(t, page1.Data[1].ID, page1.NextCursor)

	// Second page picks up strictly below the cursor
	page2, err := svc.ListEvents(page1.NextCursor, 2, "")
	require.NoError(t, err)
	assert.Len(t, page2.Data, 2)
	assert.True(t, page2.HasMore)
	assert.Less(t, page2.Data[0].ID, page1.NextCursor)

	// Final page exhausts the list
	page3, err := svc.ListEvents(page2.NextCursor, 2, "")
	require.NoError(t, err)
	assert.Len(t, page3.Data, 1)
	assert.False(t, page3.HasMore)
}

func TestListEventsSearch(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, user.ID)
	svc := NewEventService(db)

	createOpenEvent(t, svc, org.ID, "Winter Clash", 10)
	createOpenEvent(t, svc, org.ID, "Summer Skirmish", 10)

	result, err := svc.ListEvents(0, 10, "winter")
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Winter Clash", result.Data[0].Title)

	// Game name matches too
	result, err = svc.ListEvents(0, 10, "bgmi")
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
}

func TestRegisterTeamOpenEvent(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Open Cup", 2)

	registration, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, registration.Status)

	refreshed, err := svc.GetEventByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.JoinedSlots)

	// Registering the same team again conflicts
	_, err = svc.RegisterTeam(event.ID, team.ID, player.ID)
	assert.EqualError(t, err, "team is already registered for this event")
}

func TestRegisterTeamChecksOwnership(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	owner := createTestUser(t, db, "owner@test.local")
	stranger := createTestUser(t, db, "stranger@test.local")
	team := createTestTeam(t, db, "night-owls", owner.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Open Cup", 10)

	_, err := svc.RegisterTeam(event.ID, team.ID, stranger.ID)
	assert.EqualError(t, err, "you must own the team to register it")
}

func TestRegisterTeamFullEvent(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "team-a", player.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Tiny Cup", 2)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).Update("joined_slots", 2).Error)

	_, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	assert.EqualError(t, err, "event is full")
}

func TestRegisterTeamPastDeadline(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Late Cup", 10)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).Update("registration_ends_at", past).Error)

	_, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	assert.EqualError(t, err, "registration deadline has passed")
}

func TestInviteOnlyRegistrationFlow(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)

	event, err := svc.CreateEvent(org.ID, models.CreateEventRequest{
		Title:            "Invite Scrims",
		Game:             "Free Fire",
		Type:             "scrims",
		Category:         "squad",
		RegistrationMode: "invite-only",
		MaxSlots:         25,
	}, "")
	require.NoError(t, err)

	// Invite-only leaves the registration pending and consumes no slot
	registration, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, registration.Status)

	refreshed, _ := svc.GetEventByID(event.ID)
	assert.Equal(t, 0, refreshed.JoinedSlots)

	// Approval flips the status and takes the slot
	approved, err := svc.ApproveRegistration(event.ID, registration.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, approved.Status)

	refreshed, _ = svc.GetEventByID(event.ID)
	assert.Equal(t, 1, refreshed.JoinedSlots)

	// Double approval is rejected
	_, err = svc.ApproveRegistration(event.ID, registration.ID, org.ID)
	assert.EqualError(t, err, "registration is already approved")
}

func TestCancelRegistrationReleasesSlot(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Open Cup", 10)

	_, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRegistration(event.ID, team.ID, player.ID))

	refreshed, _ := svc.GetEventByID(event.ID)
	assert.Equal(t, 0, refreshed.JoinedSlots)

	status, err := svc.IsTeamRegistered(event.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.Equal(t, models.RegistrationNone, status.Status)
}

func TestIsTeamRegisteredStates(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Open Cup", 10)

	status, err := svc.IsTeamRegistered(event.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationNone, status.Status)

	_, err = svc.RegisterTeam(event.ID, team.ID, player.ID)
	require.NoError(t, err)

	status, err = svc.IsTeamRegistered(event.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, models.RegistrationApproved, status.Status)
}

func TestEventLifecycleGuards(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	svc := NewEventService(db)
	roundSvc := NewRoundService(db)

	event := createOpenEvent(t, svc, org.ID, "Lifecycle Cup", 10)

	// Cannot start straight from registration-open
	_, err := svc.StartEvent(event.ID, org.ID)
	assert.Error(t, err)

	closed, err := svc.CloseRegistration(event.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, progression.EventRegistrationClosed, closed.Status)

	// Cannot go live without a round
	_, err = svc.StartEvent(event.ID, org.ID)
	assert.EqualError(t, err, "event has no rounds")

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)

	live, err := svc.StartEvent(event.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, progression.EventLive, live.Status)

	// Cannot finish while a round is open
	_, err = svc.FinishEvent(event.ID, org.ID)
	assert.EqualError(t, err, "all rounds must be completed before finishing the event")

	require.NoError(t, db.Model(&models.Round{}).Where("id = ?", round.ID).Update("status", progression.StageCompleted).Error)

	done, err := svc.FinishEvent(event.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, progression.EventCompleted, done.Status)
}

func TestEventOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	other := createTestUser(t, db, "other@test.local")
	otherOrg := &models.Organization{Name: "Other Org", Slug: "other-org", OwnerID: other.ID}
	require.NoError(t, db.Create(otherOrg).Error)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Owned Cup", 10)

	_, err := svc.CloseRegistration(event.ID, otherOrg.ID)
	assert.EqualError(t, err, "event does not belong to your organization")

	err = svc.DeleteEvent(event.ID, otherOrg.ID)
	assert.EqualError(t, err, "event does not belong to your organization")
}

func TestDeleteEventCascades(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")
	team := createTestTeam(t, db, "night-owls", player.ID)
	svc := NewEventService(db)
	roundSvc := NewRoundService(db)
	groupSvc := NewGroupService(db)

	event := createOpenEvent(t, svc, org.ID, "Doomed Cup", 10)
	_, err := svc.RegisterTeam(event.ID, team.ID, player.ID)
	require.NoError(t, err)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)
	_, err = groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(event.ID, org.ID))

	var rounds, groups, registrations int64
	db.Model(&models.Round{}).Where("event_id = ?", event.ID).Count(&rounds)
	db.Model(&models.Group{}).Count(&groups)
	db.Model(&models.EventRegistration{}).Where("event_id = ?", event.ID).Count(&registrations)
	assert.Zero(t, rounds)
	assert.Zero(t, groups)
	assert.Zero(t, registrations)
}

func TestUpdateEventRejectsShrinkBelowJoined(t *testing.T) {
	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	svc := NewEventService(db)

	event := createOpenEvent(t, svc, org.ID, "Shrink Cup", 10)
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).Update("joined_slots", 5).Error)

	three := 3
	_, err := svc.UpdateEvent(event.ID, org.ID, models.UpdateEventRequest{MaxSlots: &three}, "")
	assert.EqualError(t, err, "max slots cannot be lower than joined slots")

	twenty := 20
	updated, err := svc.UpdateEvent(event.ID, org.ID, models.UpdateEventRequest{MaxSlots: &twenty}, "")
	require.NoError(t, err)
	assert.Equal(t, 20, updated.MaxSlots)
}
