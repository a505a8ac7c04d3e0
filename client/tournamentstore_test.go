package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundWithID(id, eventID uint, name string) models.Round {
	return models.Round{ID: id, EventID: eventID, RoundName: name, RoundNumber: 1, Status: "pending"}
}

func groupWithID(id, roundID uint, name string) models.Group {
	return models.Group{ID: id, RoundID: roundID, GroupName: name, TotalMatch: 3, Status: "pending"}
}

func TestFetchRoundsResetsOnEventSwitch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("eventId") {
		case "1":
			writeJSON(t, w, http.StatusOK, []models.Round{
				roundWithID(10, 1, "Qualifiers"),
				roundWithID(11, 1, "Finals"),
			})
		case "2":
			writeJSON(t, w, http.StatusOK, []models.Round{roundWithID(20, 2, "Scrims")})
		default:
			t.Errorf("missing eventId filter")
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))

	rounds, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rounds, 2)
	assert.Len(t, store.Rounds(), 2)

	// Switching events drops the previous event's rounds
	rounds, err = store.FetchRounds(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, "Scrims", rounds[0].RoundName)
	assert.Len(t, store.Rounds(), 1)
}

func TestCreateRoundAppendsForCurrentEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []models.Round{roundWithID(10, 1, "Qualifiers")})
		case http.MethodPost:
			round := roundWithID(11, 1, "Finals")
			round.RoundNumber = 2
			writeJSON(t, w, http.StatusCreated, round)
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)

	round, err := store.CreateRound(context.Background(), 1, models.CreateRoundRequest{RoundName: "Finals"})
	require.NoError(t, err)
	assert.Equal(t, 2, round.RoundNumber)

	rounds := store.Rounds()
	require.Len(t, rounds, 2)
	assert.Equal(t, "Finals", rounds[1].RoundName)
}

func TestUpdateRoundStatusPatchesStatusOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			round := roundWithID(10, 1, "Qualifiers")
			round.QualifyingTeams = 8
			writeJSON(t, w, http.StatusOK, []models.Round{round})
		case http.MethodPatch:
			// Response deliberately omits fields the server did not touch
			writeJSON(t, w, http.StatusOK, models.Round{ID: 10, Status: "ongoing"})
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)

	_, err = store.UpdateRoundStatus(context.Background(), 10, "ongoing")
	require.NoError(t, err)

	rounds := store.Rounds()
	require.Len(t, rounds, 1)
	assert.Equal(t, "ongoing", rounds[0].Status)
	assert.Equal(t, "Qualifiers", rounds[0].RoundName)
	assert.Equal(t, 8, rounds[0].QualifyingTeams)
}

func TestUpdateRoundStatusConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{"error": "invalid status transition from completed to ongoing"})
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))

	_, err := store.UpdateRoundStatus(context.Background(), 10, "ongoing")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Error(t, store.Err())
}

func TestStartAndFinishEventAreFireAndForget(t *testing.T) {
	var posts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []models.Round{roundWithID(10, 1, "Qualifiers")})
		case http.MethodPost:
			posts = append(posts, r.URL.Path)
			writeJSON(t, w, http.StatusOK, eventWithID(1, "Cup"))
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, store.StartEvent(context.Background(), 1))
	require.NoError(t, store.FinishEvent(context.Background(), 1))
	assert.Equal(t, []string{"/events/1/start", "/events/1/finish"}, posts)

	// Nothing cached changes; callers refetch the event for its new status
	rounds := store.Rounds()
	require.Len(t, rounds, 1)
	assert.Equal(t, "pending", rounds[0].Status)
	assert.NoError(t, store.Err())
}

func TestDeleteRoundClearsGroupCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rounds":
			writeJSON(t, w, http.StatusOK, []models.Round{roundWithID(10, 1, "Qualifiers")})
		case r.Method == http.MethodGet && r.URL.Path == "/rounds/10/groups":
			writeJSON(t, w, http.StatusOK, models.PaginatedGroupsResponse{
				Data:        []models.Group{groupWithID(100, 10, "Group A")},
				TotalGroups: 1,
				CurrentPage: 1,
				TotalPages:  1,
			})
		case r.Method == http.MethodDelete:
			writeJSON(t, w, http.StatusOK, map[string]string{"message": "deleted"})
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)
	_, err = store.FetchGroups(context.Background(), 10, 1, 10)
	require.NoError(t, err)
	require.Len(t, store.Groups(), 1)

	require.NoError(t, store.DeleteRound(context.Background(), 10))

	assert.Empty(t, store.Rounds())
	assert.Empty(t, store.Groups())
	assert.Zero(t, store.TotalGroups())
}

func TestFetchGroupsReplacesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, http.StatusOK, models.PaginatedGroupsResponse{
				Data:        []models.Group{groupWithID(102, 10, "Group C")},
				TotalGroups: 3,
				CurrentPage: 2,
				TotalPages:  2,
			})
			return
		}
		writeJSON(t, w, http.StatusOK, models.PaginatedGroupsResponse{
			Data:        []models.Group{groupWithID(100, 10, "Group A"), groupWithID(101, 10, "Group B")},
			TotalGroups: 3,
			CurrentPage: 1,
			TotalPages:  2,
		})
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))

	_, err := store.FetchGroups(context.Background(), 10, 1, 2)
	require.NoError(t, err)
	assert.Len(t, store.Groups(), 2)
	assert.Equal(t, int64(3), store.TotalGroups())

	// Pages replace each other instead of accumulating
	_, err = store.FetchGroups(context.Background(), 10, 2, 2)
	require.NoError(t, err)
	groups := store.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Group C", groups[0].GroupName)
}

func TestUpdateGroupKeepsCachedTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			group := groupWithID(100, 10, "Group A")
			group.Teams = []models.Team{{ID: 1, TeamName: "Night Owls"}}
			writeJSON(t, w, http.StatusOK, models.PaginatedGroupsResponse{
				Data:        []models.Group{group},
				TotalGroups: 1,
				CurrentPage: 1,
				TotalPages:  1,
			})
		case http.MethodPatch:
			// Updated record comes back without its team list
			updated := groupWithID(100, 10, "Group Alpha")
			updated.TotalMatch = 5
			writeJSON(t, w, http.StatusOK, updated)
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchGroups(context.Background(), 10, 1, 10)
	require.NoError(t, err)

	name := "Group Alpha"
	_, err = store.UpdateGroup(context.Background(), 100, models.UpdateGroupRequest{GroupName: &name})
	require.NoError(t, err)

	groups := store.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Group Alpha", groups[0].GroupName)
	assert.Equal(t, 5, groups[0].TotalMatch)
	require.Len(t, groups[0].Teams, 1)
	assert.Equal(t, "Night Owls", groups[0].Teams[0].TeamName)
}

func TestUpdateGroupResultsFansOutToBothCaches(t *testing.T) {
	completedGroup := groupWithID(100, 10, "Group A")
	completedGroup.Status = "completed"
	completedGroup.MatchesPlayed = 3

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rounds":
			round := roundWithID(10, 1, "Qualifiers")
			round.Groups = []models.Group{groupWithID(100, 10, "Group A")}
			writeJSON(t, w, http.StatusOK, []models.Round{round})
		case r.Method == http.MethodGet && r.URL.Path == "/rounds/10/groups":
			writeJSON(t, w, http.StatusOK, models.PaginatedGroupsResponse{
				Data:        []models.Group{groupWithID(100, 10, "Group A")},
				TotalGroups: 1,
				CurrentPage: 1,
				TotalPages:  1,
			})
		case r.Method == http.MethodPost:
			writeJSON(t, w, http.StatusOK, models.GroupResultsResponse{
				Group: completedGroup,
				Leaderboard: models.Leaderboard{
					ID:      50,
					GroupID: 100,
					Entries: []models.LeaderboardEntry{
						{TeamID: 1, TotalPoints: 25, Position: 1, IsQualified: true},
					},
				},
			})
		}
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))
	_, err := store.FetchRounds(context.Background(), 1)
	require.NoError(t, err)
	_, err = store.FetchGroups(context.Background(), 10, 1, 10)
	require.NoError(t, err)

	result, err := store.UpdateGroupResults(context.Background(), 100, models.GroupResultsRequest{
		Results: []models.TeamResult{{TeamID: 1, Score: 20, Kills: 5, Wins: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Group.Status)

	// Leaderboard cache holds the refreshed board
	leaderboard := store.Leaderboard(100)
	require.NotNil(t, leaderboard)
	require.Len(t, leaderboard.Entries, 1)
	assert.True(t, leaderboard.Entries[0].IsQualified)

	// The group is patched both in the page cache and inside its round
	groups := store.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "completed", groups[0].Status)
	assert.Equal(t, 3, groups[0].MatchesPlayed)

	rounds := store.Rounds()
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0].Groups, 1)
	assert.Equal(t, "completed", rounds[0].Groups[0].Status)
}

func TestUpdateTeamScoreCachesRefreshedBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.Leaderboard{
			ID:      50,
			GroupID: 100,
			Entries: []models.LeaderboardEntry{
				{TeamID: 1, Score: 20, Kills: 5, TotalPoints: 25, Position: 1},
			},
		})
	}))
	defer server.Close()

	store := NewTournamentStore(New(server.URL))

	board, err := store.UpdateTeamScore(context.Background(), 100, 1, models.TeamScoreRequest{Score: 20, Kills: 5})
	require.NoError(t, err)
	assert.Equal(t, 25, board.Entries[0].TotalPoints)

	cached := store.Leaderboard(100)
	require.NotNil(t, cached)
	assert.Equal(t, 25, cached.Entries[0].TotalPoints)
	assert.Nil(t, store.Leaderboard(999))
}
