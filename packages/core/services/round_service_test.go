package services

import (
	"testing"

	"core/models"
	"core/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEventWithTeams(t *testing.T, teamCount int) (*EventService, *RoundService, *GroupService, *models.Event, []uint) {
	t.Helper()

	db := setupTestDB(t)
	organizer := createTestUser(t, db, "organizer@test.local")
	org := createTestOrg(t, db, organizer.ID)
	player := createTestUser(t, db, "player@test.local")

	eventSvc := NewEventService(db)
	roundSvc := NewRoundService(db)
	groupSvc := NewGroupService(db)

	event := createOpenEvent(t, eventSvc, org.ID, "Bracket Cup", 100)

	var teamIDs []uint
	for i := 0; i < teamCount; i++ {
		team := createTestTeam(t, db, "team-"+string(rune('a'+i%26))+string(rune('0'+i/26)), player.ID)
		_, err := eventSvc.RegisterTeam(event.ID, team.ID, player.ID)
		require.NoError(t, err)
		teamIDs = append(teamIDs, team.ID)
	}

	return eventSvc, roundSvc, groupSvc, event, teamIDs
}

func TestCreateRoundNumbersSequentially(t *testing.T) {
	_, roundSvc, _, event, _ := setupEventWithTeams(t, 0)

	first, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.RoundNumber)
	assert.Equal(t, progression.StagePending, first.Status)
	assert.Equal(t, 1, first.MatchesPerGroup)

	second, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals", MatchesPerGroup: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, second.RoundNumber)
	assert.Equal(t, 5, second.MatchesPerGroup)
}

func TestGetRoundsRequiresEvent(t *testing.T) {
	_, roundSvc, _, event, _ := setupEventWithTeams(t, 0)

	_, err := roundSvc.GetRounds(0)
	assert.EqualError(t, err, "event id is required")

	_, err = roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)

	rounds, err := roundSvc.GetRounds(event.ID)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)

	// Other events see nothing
	rounds, err = roundSvc.GetRounds(event.ID + 1)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestUpdateRoundStatusTransitions(t *testing.T) {
	eventSvc, roundSvc, _, event, _ := setupEventWithTeams(t, 0)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)

	// Backwards and skipped transitions are rejected
	_, err = roundSvc.UpdateRoundStatus(round.ID, progression.StagePending)
	assert.Error(t, err)
	_, err = roundSvc.UpdateRoundStatus(round.ID, progression.StageCompleted)
	assert.Error(t, err)

	// A round cannot start while the event is not live
	_, err = roundSvc.UpdateRoundStatus(round.ID, progression.StageOngoing)
	assert.EqualError(t, err, "event is not live")

	orgID := event.OrgID
	_, err = eventSvc.CloseRegistration(event.ID, orgID)
	require.NoError(t, err)
	_, err = eventSvc.StartEvent(event.ID, orgID)
	require.NoError(t, err)

	ongoing, err := roundSvc.UpdateRoundStatus(round.ID, progression.StageOngoing)
	require.NoError(t, err)
	assert.Equal(t, progression.StageOngoing, ongoing.Status)

	completed, err := roundSvc.UpdateRoundStatus(round.ID, progression.StageCompleted)
	require.NoError(t, err)
	assert.Equal(t, progression.StageCompleted, completed.Status)
}

func TestRoundCannotCompleteWithOpenGroups(t *testing.T) {
	eventSvc, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)
	_, err = groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	orgID := event.OrgID
	_, err = eventSvc.CloseRegistration(event.ID, orgID)
	require.NoError(t, err)
	_, err = eventSvc.StartEvent(event.ID, orgID)
	require.NoError(t, err)

	_, err = roundSvc.UpdateRoundStatus(round.ID, progression.StageOngoing)
	require.NoError(t, err)

	_, err = roundSvc.UpdateRoundStatus(round.ID, progression.StageCompleted)
	assert.ErrorContains(t, err, "groups are still open")
}

func TestDeleteRoundRemovesGroupsAndLeaderboards(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)
	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	require.NoError(t, roundSvc.DeleteRound(round.ID))

	_, err = roundSvc.GetRoundByID(round.ID)
	assert.EqualError(t, err, "round not found")

	_, err = groupSvc.GetGroupByID(groups[0].ID)
	assert.EqualError(t, err, "group not found")

	lbSvc := NewLeaderboardService(groupSvc.db)
	_, err = lbSvc.GetLeaderboard(groups[0].ID)
	assert.EqualError(t, err, "leaderboard not found")
}

func TestCreateRoundOnCompletedEvent(t *testing.T) {
	_, roundSvc, _, event, _ := setupEventWithTeams(t, 0)

	require.NoError(t, roundSvc.db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("status", progression.EventCompleted).Error)

	_, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Too Late"})
	assert.EqualError(t, err, "event is already completed")
}
