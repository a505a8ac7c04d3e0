package services

import (
	"testing"

	"core/models"
	"core/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGroupWithLeaderboard(t *testing.T, qualifying, totalMatch int) (*GroupService, *LeaderboardService, *models.Group, []uint) {
	t.Helper()

	_, roundSvc, groupSvc, event, teamIDs := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{
		RoundName:       "Qualifiers",
		QualifyingTeams: qualifying,
	})
	require.NoError(t, err)

	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: totalMatch})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	return groupSvc, NewLeaderboardService(groupSvc.db), &groups[0], teamIDs
}

func TestUpdateTeamScoreRecomputesPositions(t *testing.T) {
	_, lbSvc, group, teamIDs := seedGroupWithLeaderboard(t, 0, 3)

	_, err := lbSvc.UpdateTeamScore(group.ID, teamIDs[0], models.TeamScoreRequest{Score: 10, Kills: 5, Wins: 1})
	require.NoError(t, err)
	leaderboard, err := lbSvc.UpdateTeamScore(group.ID, teamIDs[1], models.TeamScoreRequest{Score: 20, Kills: 2, Wins: 2})
	require.NoError(t, err)

	// Total points are score plus kills; entries come back ordered
	require.NotEmpty(t, leaderboard.Entries)
	assert.Equal(t, teamIDs[1], leaderboard.Entries[0].TeamID)
	assert.Equal(t, 22, leaderboard.Entries[0].TotalPoints)
	assert.Equal(t, 1, leaderboard.Entries[0].Position)
	assert.Equal(t, teamIDs[0], leaderboard.Entries[1].TeamID)
	assert.Equal(t, 15, leaderboard.Entries[1].TotalPoints)
	assert.Equal(t, 2, leaderboard.Entries[1].Position)
}

func TestUpdateTeamScoreRejectsUnknownTeam(t *testing.T) {
	_, lbSvc, group, _ := seedGroupWithLeaderboard(t, 0, 3)

	_, err := lbSvc.UpdateTeamScore(group.ID, 9999, models.TeamScoreRequest{Score: 10})
	assert.EqualError(t, err, "team has no entry on this leaderboard")
}

func TestUpdateGroupResultsAccumulates(t *testing.T) {
	_, lbSvc, group, teamIDs := seedGroupWithLeaderboard(t, 0, 3)

	result, err := lbSvc.UpdateGroupResults(group.ID, models.GroupResultsRequest{
		Results: []models.TeamResult{
			{TeamID: teamIDs[0], Score: 10, Kills: 4, Wins: 1},
			{TeamID: teamIDs[1], Score: 6, Kills: 2},
		},
	})
	require.NoError(t, err)

	// First match flips the group to ongoing
	assert.Equal(t, progression.StageOngoing, result.Group.Status)
	assert.Equal(t, 1, result.Group.MatchesPlayed)

	result, err = lbSvc.UpdateGroupResults(group.ID, models.GroupResultsRequest{
		Results: []models.TeamResult{
			{TeamID: teamIDs[0], Score: 5, Kills: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Group.MatchesPlayed)

	leaderboard, err := lbSvc.GetLeaderboard(group.ID)
	require.NoError(t, err)

	var top *models.LeaderboardEntry
	for i := range leaderboard.Entries {
		if leaderboard.Entries[i].TeamID == teamIDs[0] {
			top = &leaderboard.Entries[i]
		}
	}
	require.NotNil(t, top)
	assert.Equal(t, 15, top.Score)
	assert.Equal(t, 5, top.Kills)
	assert.Equal(t, 20, top.TotalPoints)
	assert.Equal(t, 2, top.MatchesPlayed)
	assert.Equal(t, 1, top.Position)
}

func TestUpdateGroupResultsCompletesAndQualifies(t *testing.T) {
	_, lbSvc, group, teamIDs := seedGroupWithLeaderboard(t, 2, 1)

	result, err := lbSvc.UpdateGroupResults(group.ID, models.GroupResultsRequest{
		Results: []models.TeamResult{
			{TeamID: teamIDs[0], Score: 30, Kills: 10, Wins: 1},
			{TeamID: teamIDs[1], Score: 20, Kills: 5},
			{TeamID: teamIDs[2], Score: 10, Kills: 2},
			{TeamID: teamIDs[3], Score: 5, Kills: 1},
		},
	})
	require.NoError(t, err)

	// Final match completes the group and flags the top teams
	assert.Equal(t, progression.StageCompleted, result.Group.Status)

	qualified := make(map[uint]bool)
	for _, entry := range result.Leaderboard.Entries {
		if entry.IsQualified {
			qualified[entry.TeamID] = true
		}
	}
	assert.Len(t, qualified, 2)
	assert.True(t, qualified[teamIDs[0]])
	assert.True(t, qualified[teamIDs[1]])

	// Further results are rejected
	_, err = lbSvc.UpdateGroupResults(group.ID, models.GroupResultsRequest{
		Results: []models.TeamResult{{TeamID: teamIDs[0], Score: 1}},
	})
	assert.EqualError(t, err, "group has already completed all matches")
}

func TestUpdateGroupResultsUnknownTeam(t *testing.T) {
	_, lbSvc, group, _ := seedGroupWithLeaderboard(t, 0, 3)

	_, err := lbSvc.UpdateGroupResults(group.ID, models.GroupResultsRequest{
		Results: []models.TeamResult{{TeamID: 9999, Score: 1}},
	})
	assert.EqualError(t, err, "team has no entry on this leaderboard")

	// Nothing was applied
	refreshed, err := lbSvc.GetLeaderboard(group.ID)
	require.NoError(t, err)
	for _, entry := range refreshed.Entries {
		assert.Zero(t, entry.MatchesPlayed)
	}
}
