package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"core/models"
)

// TournamentStore caches the bracket of one event: its rounds, the groups of
// the round being viewed and the leaderboards fetched so far. Switching
// events bumps the generation counter so in-flight responses for the old
// event are discarded.
type TournamentStore struct {
	mu     sync.Mutex
	client *Client

	eventID uint
	rounds  []models.Round

	groups      []models.Group
	totalGroups int64
	currentPage int
	totalPages  int

	leaderboards map[uint]*models.Leaderboard

	isLoading bool
	lastErr   error
	gen       uint64
}

func NewTournamentStore(client *Client) *TournamentStore {
	return &TournamentStore{
		client:       client,
		leaderboards: make(map[uint]*models.Leaderboard),
	}
}

// Rounds returns a copy of the cached rounds
func (s *TournamentStore) Rounds() []models.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Round, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Groups returns a copy of the cached group page
func (s *TournamentStore) Groups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// TotalGroups returns the cached group count of the current round
func (s *TournamentStore) TotalGroups() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalGroups
}

// Leaderboard returns the cached leaderboard of a group, or nil
func (s *TournamentStore) Leaderboard(groupID uint) *models.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	lb, ok := s.leaderboards[groupID]
	if !ok {
		return nil
	}
	out := *lb
	return &out
}

// Err returns the error of the last failed operation
func (s *TournamentStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FetchRounds replaces the cached rounds with the server's list for one
// event. Changing events resets the whole store.
func (s *TournamentStore) FetchRounds(ctx context.Context, eventID uint) ([]models.Round, error) {
	s.mu.Lock()
	if s.eventID != eventID {
		s.gen++
		s.eventID = eventID
		s.rounds = nil
		s.groups = nil
		s.totalGroups = 0
		s.currentPage = 0
		s.totalPages = 0
		s.leaderboards = make(map[uint]*models.Leaderboard)
	}
	gen := s.gen
	s.isLoading = true
	s.mu.Unlock()

	query := url.Values{}
	query.Set("eventId", strconv.FormatUint(uint64(eventID), 10))

	var rounds []models.Round
	err := s.client.do(ctx, "GET", "/rounds", query, nil, &rounds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if s.gen != gen {
		return nil, nil
	}

	if err != nil {
		s.lastErr = err
		return nil, err
	}

	s.lastErr = nil
	s.rounds = rounds
	return rounds, nil
}

// CreateRound appends a new round server-side and to the cache
func (s *TournamentStore) CreateRound(ctx context.Context, eventID uint, req models.CreateRoundRequest) (*models.Round, error) {
	var round models.Round
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/events/%d/rounds", eventID), nil, req, &round); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	if s.eventID == eventID {
		s.rounds = append(s.rounds, round)
	}
	s.mu.Unlock()
	return &round, nil
}

// UpdateRoundStatus patches one round's status on the server and in the
// cache. Only the status field changes locally; the rest of the cached
// record is kept.
func (s *TournamentStore) UpdateRoundStatus(ctx context.Context, roundID uint, status string) (*models.Round, error) {
	req := models.UpdateRoundStatusRequest{Status: status}
	var updated models.Round
	if err := s.client.do(ctx, "PATCH", fmt.Sprintf("/rounds/%d/status", roundID), nil, req, &updated); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	for i := range s.rounds {
		if s.rounds[i].ID == roundID {
			s.rounds[i].Status = updated.Status
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

// DeleteRound removes a round and clears the cached groups, which belonged
// to it
func (s *TournamentStore) DeleteRound(ctx context.Context, roundID uint) error {
	if err := s.client.do(ctx, "DELETE", fmt.Sprintf("/rounds/%d", roundID), nil, nil, nil); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.lastErr = nil
	out := s.rounds[:0]
	for _, round := range s.rounds {
		if round.ID != roundID {
			out = append(out, round)
		}
	}
	s.rounds = out
	s.groups = nil
	s.totalGroups = 0
	s.currentPage = 0
	s.totalPages = 0
	s.mu.Unlock()
	return nil
}

// StartEvent moves an event to live. Fire-and-forget: nothing cached here
// changes; callers refetch the event to observe its new status.
func (s *TournamentStore) StartEvent(ctx context.Context, eventID uint) error {
	return s.eventAction(ctx, eventID, "start")
}

// FinishEvent moves an event to completed. Fire-and-forget like StartEvent.
func (s *TournamentStore) FinishEvent(ctx context.Context, eventID uint) error {
	return s.eventAction(ctx, eventID, "finish")
}

func (s *TournamentStore) eventAction(ctx context.Context, eventID uint, action string) error {
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/events/%d/%s", eventID, action), nil, nil, nil); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// FetchGroups replaces the cached group page with one page of a round's
// groups
func (s *TournamentStore) FetchGroups(ctx context.Context, roundID uint, page, limit int) (*models.PaginatedGroupsResponse, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result models.PaginatedGroupsResponse
	err := s.client.do(ctx, "GET", fmt.Sprintf("/rounds/%d/groups", roundID), query, nil, &result)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return nil, nil
	}

	if err != nil {
		s.lastErr = err
		return nil, err
	}

	s.lastErr = nil
	s.groups = result.Data
	s.totalGroups = result.TotalGroups
	s.currentPage = result.CurrentPage
	s.totalPages = result.TotalPages
	return &result, nil
}

// CreateGroups seeds a round's groups and refreshes the first page of the
// cache
func (s *TournamentStore) CreateGroups(ctx context.Context, roundID uint, req models.CreateGroupsRequest) error {
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/rounds/%d/groups", roundID), nil, req, nil); err != nil {
		s.setErr(err)
		return err
	}

	_, err := s.FetchGroups(ctx, roundID, 1, 0)
	return err
}

// UpdateGroup patches a group server-side and shallow-merges the returned
// record into the cache
func (s *TournamentStore) UpdateGroup(ctx context.Context, groupID uint, req models.UpdateGroupRequest) (*models.Group, error) {
	var updated models.Group
	if err := s.client.do(ctx, "PATCH", fmt.Sprintf("/groups/%d", groupID), nil, req, &updated); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mergeGroupLocked(updated)
	s.mu.Unlock()
	return &updated, nil
}

// FetchLeaderboard loads a group's leaderboard into the cache
func (s *TournamentStore) FetchLeaderboard(ctx context.Context, groupID uint) (*models.Leaderboard, error) {
	var leaderboard models.Leaderboard
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/groups/%d/leaderboard", groupID), nil, nil, &leaderboard); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.leaderboards[groupID] = &leaderboard
	s.mu.Unlock()
	return &leaderboard, nil
}

// UpdateTeamScore overwrites one team's stats on a leaderboard and caches
// the refreshed board
func (s *TournamentStore) UpdateTeamScore(ctx context.Context, groupID, teamID uint, req models.TeamScoreRequest) (*models.Leaderboard, error) {
	var leaderboard models.Leaderboard
	if err := s.client.do(ctx, "PUT", fmt.Sprintf("/groups/%d/leaderboard/%d", groupID, teamID), nil, req, &leaderboard); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.leaderboards[groupID] = &leaderboard
	s.mu.Unlock()
	return &leaderboard, nil
}

// UpdateGroupResults submits match results and fans the response out to both
// caches: the leaderboard map and the group wherever it appears
func (s *TournamentStore) UpdateGroupResults(ctx context.Context, groupID uint, req models.GroupResultsRequest) (*models.GroupResultsResponse, error) {
	var result models.GroupResultsResponse
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/groups/%d/results", groupID), nil, req, &result); err != nil {
		s.setErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	leaderboard := result.Leaderboard
	s.leaderboards[groupID] = &leaderboard
	s.mergeGroupLocked(result.Group)
	s.mu.Unlock()
	return &result, nil
}

// mergeGroupLocked patches a group in the page cache and inside its round's
// embedded group list
func (s *TournamentStore) mergeGroupLocked(updated models.Group) {
	for i := range s.groups {
		if s.groups[i].ID == updated.ID {
			teams := s.groups[i].Teams
			s.groups[i] = updated
			if len(updated.Teams) == 0 {
				s.groups[i].Teams = teams
			}
		}
	}
	for i := range s.rounds {
		for j := range s.rounds[i].Groups {
			if s.rounds[i].Groups[j].ID == updated.ID {
				teams := s.rounds[i].Groups[j].Teams
				s.rounds[i].Groups[j] = updated
				if len(updated.Teams) == 0 {
					s.rounds[i].Groups[j].Teams = teams
				}
			}
		}
	}
}

func (s *TournamentStore) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
