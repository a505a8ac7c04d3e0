package services

import (
	"testing"

	"core/models"
	"core/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupsSeedsRoundOne(t *testing.T) {
	_, roundSvc, groupSvc, event, teamIDs := setupEventWithTeams(t, 6)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)

	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	// 6 teams fit in one lobby
	require.Len(t, groups, 1)
	assert.Equal(t, "Group A", groups[0].GroupName)
	assert.Equal(t, progression.StagePending, groups[0].Status)
	assert.Len(t, groups[0].Teams, len(teamIDs))

	// Every team gets a zeroed leaderboard entry
	lbSvc := NewLeaderboardService(groupSvc.db)
	leaderboard, err := lbSvc.GetLeaderboard(groups[0].ID)
	require.NoError(t, err)
	assert.Len(t, leaderboard.Entries, len(teamIDs))
	for _, entry := range leaderboard.Entries {
		assert.Zero(t, entry.TotalPoints)
		assert.False(t, entry.IsQualified)
	}
}

func TestCreateGroupsSplitsLargeFields(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 30)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)

	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	// 30 teams overflow one 25-team lobby into two balanced ones
	require.Len(t, groups, 2)
	assert.Equal(t, "Group A", groups[0].GroupName)
	assert.Equal(t, "Group B", groups[1].GroupName)
	assert.Len(t, groups[0].Teams, 15)
	assert.Len(t, groups[1].Teams, 15)
}

func TestCreateGroupsDefaultsMatchesFromRound(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{
		RoundName:       "Qualifiers",
		MatchesPerGroup: 4,
	})
	require.NoError(t, err)

	// No total_match in the request: the round's matches_per_group applies
	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0].TotalMatch)

	// An explicit total_match still wins
	second, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{
		RoundName:       "Finals",
		MatchesPerGroup: 4,
	})
	require.NoError(t, err)
	require.NoError(t, groupSvc.db.Model(&models.Round{}).Where("id = ?", second.ID).
		Update("round_number", 1).Error)
	groups, err = groupSvc.CreateGroups(second.ID, models.CreateGroupsRequest{TotalMatch: 2})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].TotalMatch)
}

func TestCreateGroupsGuards(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)

	_, err = groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	// Seeding twice is rejected
	_, err = groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	assert.EqualError(t, err, "round already has groups")

	// A non-pending round cannot be seeded
	second, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)
	require.NoError(t, groupSvc.db.Model(&models.Round{}).Where("id = ?", second.ID).
		Update("status", progression.StageOngoing).Error)
	_, err = groupSvc.CreateGroups(second.ID, models.CreateGroupsRequest{TotalMatch: 3})
	assert.EqualError(t, err, "groups can only be created while the round is pending")
}

func TestCreateGroupsLaterRoundUsesQualified(t *testing.T) {
	_, roundSvc, groupSvc, event, teamIDs := setupEventWithTeams(t, 4)

	first, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers", QualifyingTeams: 2})
	require.NoError(t, err)
	firstGroups, err := groupSvc.CreateGroups(first.ID, models.CreateGroupsRequest{TotalMatch: 1})
	require.NoError(t, err)

	second, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)

	// Previous round not completed yet
	_, err = groupSvc.CreateGroups(second.ID, models.CreateGroupsRequest{TotalMatch: 1})
	assert.EqualError(t, err, "previous round is not completed")

	// Complete the first round with two qualified teams
	lbSvc := NewLeaderboardService(groupSvc.db)
	leaderboard, err := lbSvc.GetLeaderboard(firstGroups[0].ID)
	require.NoError(t, err)
	require.NoError(t, groupSvc.db.Model(&models.LeaderboardEntry{}).
		Where("leaderboard_id = ? AND team_id IN ?", leaderboard.ID, teamIDs[:2]).
		Update("is_qualified", true).Error)
	require.NoError(t, groupSvc.db.Model(&models.Group{}).Where("id = ?", firstGroups[0].ID).
		Update("status", progression.StageCompleted).Error)
	require.NoError(t, groupSvc.db.Model(&models.Round{}).Where("id = ?", first.ID).
		Update("status", progression.StageCompleted).Error)

	groups, err := groupSvc.CreateGroups(second.ID, models.CreateGroupsRequest{TotalMatch: 1})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Teams, 2)
}

func TestUpdateGroupShallowMerge(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 4)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)
	groups, err := groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	name := "Lobby 1"
	five := 5
	updated, err := groupSvc.UpdateGroup(groups[0].ID, models.UpdateGroupRequest{
		GroupName:  &name,
		TotalMatch: &five,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lobby 1", updated.GroupName)
	assert.Equal(t, 5, updated.TotalMatch)
	// Untouched fields survive the merge
	assert.Equal(t, progression.StagePending, updated.Status)
	assert.Len(t, updated.Teams, 4)

	// Status changes go through the transition rules
	bad := progression.StageCompleted
	_, err = groupSvc.UpdateGroup(groups[0].ID, models.UpdateGroupRequest{Status: &bad})
	assert.Error(t, err)

	ongoing := progression.StageOngoing
	updated, err = groupSvc.UpdateGroup(groups[0].ID, models.UpdateGroupRequest{Status: &ongoing})
	require.NoError(t, err)
	assert.Equal(t, progression.StageOngoing, updated.Status)
}

func TestGetGroupsPagination(t *testing.T) {
	_, roundSvc, groupSvc, event, _ := setupEventWithTeams(t, 30)

	round, err := roundSvc.CreateRound(event.ID, models.CreateRoundRequest{RoundName: "Qualifiers"})
	require.NoError(t, err)
	_, err = groupSvc.CreateGroups(round.ID, models.CreateGroupsRequest{TotalMatch: 3})
	require.NoError(t, err)

	page, err := groupSvc.GetGroups(round.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.TotalGroups)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)

	page2, err := groupSvc.GetGroups(round.ID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page2.Data, 1)
	assert.NotEqual(t, page.Data[0].ID, page2.Data[0].ID)
}
