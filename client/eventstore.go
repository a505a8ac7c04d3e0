package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"core/models"
)

// EventStore caches event pages on the client side. It keeps one list for
// browsing, one for the caller's organization, and the currently selected
// event. A generation counter discards responses that arrive after the
// search query or event scope changed, so stale pages never overwrite newer
// state.
type EventStore struct {
	mu     sync.Mutex
	client *Client

	events      []models.Event
	nextCursor  uint
	hasMore     bool
	searchQuery string
	isSearching bool

	orgEvents     []models.Event
	orgNextCursor uint
	orgHasMore    bool

	selectedEvent *models.Event

	isLoading bool
	lastErr   error
	gen       uint64
}

func NewEventStore(client *Client) *EventStore {
	return &EventStore{
		client:  client,
		hasMore: true,
	}
}

// Events returns a copy of the cached event list
func (s *EventStore) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// OrgEvents returns a copy of the cached organization event list
func (s *EventStore) OrgEvents() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.orgEvents))
	copy(out, s.orgEvents)
	return out
}

// SelectedEvent returns the cached selected event, or nil
func (s *EventStore) SelectedEvent() *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedEvent == nil {
		return nil
	}
	event := *s.selectedEvent
	return &event
}

// HasMore reports whether another page of events exists
func (s *EventStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// IsSearching reports whether the event list currently shows search results
// rather than the full listing
func (s *EventStore) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSearching
}

// IsLoading reports whether a fetch is in flight
func (s *EventStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the error of the last failed operation, cleared on the next
// successful one
func (s *EventStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FetchEvents loads the next page into the cache. Events already cached are
// skipped, so retried or overlapping pages never produce duplicates. On
// failure hasMore flips to false so callers do not loop on a broken cursor.
func (s *EventStore) FetchEvents(ctx context.Context, limit int) error {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return nil
	}
	if !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.isLoading = true
	gen := s.gen
	cursor := s.nextCursor
	search := s.searchQuery
	s.mu.Unlock()

	query := url.Values{}
	if cursor > 0 {
		query.Set("cursor", strconv.FormatUint(uint64(cursor), 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		query.Set("search", search)
	}

	var page models.EventListResponse
	err := s.client.do(ctx, "GET", "/events", query, nil, &page)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if s.gen != gen {
		// The query changed while this request was in flight
		return nil
	}

	if err != nil {
		s.lastErr = err
		s.hasMore = false
		return err
	}

	s.lastErr = nil
	s.appendEventsLocked(page.Data)
	s.nextCursor = page.NextCursor
	s.hasMore = page.HasMore
	return nil
}

// SetSearchQuery resets the event list for a new query and loads its first
// page. An empty query clears search mode and restores the full listing.
func (s *EventStore) SetSearchQuery(ctx context.Context, query string, limit int) error {
	s.mu.Lock()
	s.gen++
	s.searchQuery = query
	s.isSearching = query != ""
	s.events = nil
	s.nextCursor = 0
	s.hasMore = true
	s.isLoading = false
	s.mu.Unlock()

	return s.FetchEvents(ctx, limit)
}

// FetchOrgEvents loads the next page of the caller's organization events
func (s *EventStore) FetchOrgEvents(ctx context.Context, limit int) error {
	s.mu.Lock()
	if s.isLoading {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	cursor := s.orgNextCursor
	if cursor > 0 && !s.orgHasMore {
		s.mu.Unlock()
		return nil
	}
	s.isLoading = true
	s.mu.Unlock()

	query := url.Values{}
	if cursor > 0 {
		query.Set("cursor", strconv.FormatUint(uint64(cursor), 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page models.EventListResponse
	err := s.client.do(ctx, "GET", "/events/mine", query, nil, &page)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false

	if s.gen != gen {
		return nil
	}

	if err != nil {
		s.lastErr = err
		s.orgHasMore = false
		return err
	}

	s.lastErr = nil
	seen := make(map[uint]bool, len(s.orgEvents))
	for _, event := range s.orgEvents {
		seen[event.ID] = true
	}
	for _, event := range page.Data {
		if !seen[event.ID] {
			s.orgEvents = append(s.orgEvents, event)
		}
	}
	s.orgNextCursor = page.NextCursor
	s.orgHasMore = page.HasMore
	return nil
}

// SelectEvent loads one event into the selected slot
func (s *EventStore) SelectEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := s.client.do(ctx, "GET", fmt.Sprintf("/events/%d", eventID), nil, nil, &event); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.selectedEvent = &event
	s.mu.Unlock()
	return &event, nil
}

// RegisterTeam registers a team for an event. Conflicts (team already
// registered) surface as an APIError with status 409. The cached slot counts
// are left untouched; callers refetch the event to observe them.
func (s *EventStore) RegisterTeam(ctx context.Context, eventID, teamID uint) (*models.EventRegistration, error) {
	body := models.RegisterEventRequest{TeamID: teamID}
	var registration models.EventRegistration
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/events/%d/register", eventID), nil, body, &registration); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return &registration, nil
}

// CancelRegistration cancels a team's registration. As with RegisterTeam the
// cache is not patched; slot counts come from the next fetch.
func (s *EventStore) CancelRegistration(ctx context.Context, eventID, teamID uint) error {
	if err := s.client.do(ctx, "DELETE", fmt.Sprintf("/events/%d/register/%d", eventID, teamID), nil, nil, nil); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// IsTeamRegistered reports a team's registration status for an event. On
// transport failure it reports "none" alongside the error; callers must not
// treat that as a confirmed absence.
func (s *EventStore) IsTeamRegistered(ctx context.Context, eventID, teamID uint) (*models.RegistrationStatusResponse, error) {
	var status models.RegistrationStatusResponse
	err := s.client.do(ctx, "GET", fmt.Sprintf("/events/%d/registration-status/%d", eventID, teamID), nil, nil, &status)
	if err != nil {
		return &models.RegistrationStatusResponse{Registered: false, Status: models.RegistrationNone}, err
	}
	return &status, nil
}

// UpdateEvent pushes an update and fans the returned record out to every
// cached copy: the browse list, the organization list and the selected event
func (s *EventStore) UpdateEvent(ctx context.Context, eventID uint, body interface{}) (*models.Event, error) {
	var updated models.Event
	if err := s.client.do(ctx, "PUT", fmt.Sprintf("/events/%d", eventID), nil, body, &updated); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.replaceEventLocked(updated)
	s.mu.Unlock()
	return &updated, nil
}

// DeleteEvent removes an event server-side and evicts it from every cache
func (s *EventStore) DeleteEvent(ctx context.Context, eventID uint) error {
	if err := s.client.do(ctx, "DELETE", fmt.Sprintf("/events/%d", eventID), nil, nil, nil); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.events = removeEvent(s.events, eventID)
	s.orgEvents = removeEvent(s.orgEvents, eventID)
	if s.selectedEvent != nil && s.selectedEvent.ID == eventID {
		s.selectedEvent = nil
	}
	s.mu.Unlock()
	return nil
}

// CloseRegistration closes registration and fans out the returned record
func (s *EventStore) CloseRegistration(ctx context.Context, eventID uint) (*models.Event, error) {
	var updated models.Event
	if err := s.client.do(ctx, "POST", fmt.Sprintf("/events/%d/close-registration", eventID), nil, nil, &updated); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.replaceEventLocked(updated)
	s.mu.Unlock()
	return &updated, nil
}

func (s *EventStore) appendEventsLocked(page []models.Event) {
	seen := make(map[uint]bool, len(s.events))
	for _, event := range s.events {
		seen[event.ID] = true
	}
	for _, event := range page {
		if !seen[event.ID] {
			s.events = append(s.events, event)
		}
	}
}

func (s *EventStore) replaceEventLocked(updated models.Event) {
	for i := range s.events {
		if s.events[i].ID == updated.ID {
			s.events[i] = updated
		}
	}
	for i := range s.orgEvents {
		if s.orgEvents[i].ID == updated.ID {
			s.orgEvents[i] = updated
		}
	}
	if s.selectedEvent != nil && s.selectedEvent.ID == updated.ID {
		event := updated
		s.selectedEvent = &event
	}
}

func removeEvent(events []models.Event, eventID uint) []models.Event {
	out := events[:0]
	for _, event := range events {
		if event.ID != eventID {
			out = append(out, event)
		}
	}
	return out
}
