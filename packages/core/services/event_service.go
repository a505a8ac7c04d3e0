package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"core/models"
	"core/progression"

	"gorm.io/gorm"
)

const maxPageSize = 100

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		db: db,
	}
}

func parseRFC3339(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected RFC 3339", value)
	}
	return &t, nil
}

func (s *EventService) CreateEvent(orgID uint, req models.CreateEventRequest, coverImage string) (*models.Event, error) {
	var org models.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("organization not found")
		}
		return nil, err
	}

	startDate, err := parseRFC3339(req.StartDate)
	if err != nil {
		return nil, err
	}
	registrationEndsAt, err := parseRFC3339(req.RegistrationEndsAt)
	if err != nil {
		return nil, err
	}

	registrationMode := req.RegistrationMode
	if registrationMode == "" {
		registrationMode = "open"
	}

	event := &models.Event{
		Title:              req.Title,
		Slug:               s.generateUniqueSlug(req.Title),
		Game:               req.Game,
		Type:               req.Type,
		Category:           req.Category,
		Status:             progression.EventRegistrationOpen,
		RegistrationMode:   registrationMode,
		Description:        req.Description,
		CoverImage:         coverImage,
		PrizePool:          req.PrizePool,
		MaxSlots:           req.MaxSlots,
		StartDate:          startDate,
		RegistrationEndsAt: registrationEndsAt,
		OrgID:              orgID,
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event

	result := s.db.Preload("Organization").First(&event, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, result.Error
	}

	return &event, nil
}

// ListEvents returns a cursor page of events, newest first. A zero cursor
// starts from the top; the next cursor is the id of the last event returned.
func (s *EventService) ListEvents(cursor uint, limit int, search string) (*models.EventListResponse, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 10
	}

	query := s.db.Model(&models.Event{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(game) LIKE ?", pattern, pattern)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	// Fetch one extra row to learn whether another page exists
	var events []models.Event
	if err := query.Order("id DESC").Limit(limit + 1).Find(&events).Error; err != nil {
		return nil, err
	}

	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	var nextCursor uint
	if len(events) > 0 {
		nextCursor = events[len(events)-1].ID
	}

	return &models.EventListResponse{
		Data:       events,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// ListOrgEvents returns a cursor page of one organization's events
func (s *EventService) ListOrgEvents(orgID, cursor uint, limit int) (*models.EventListResponse, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 10
	}

	query := s.db.Model(&models.Event{}).Where("org_id = ?", orgID)

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var events []models.Event
	if err := query.Order("id DESC").Limit(limit + 1).Find(&events).Error; err != nil {
		return nil, err
	}

	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	var nextCursor uint
	if len(events) > 0 {
		nextCursor = events[len(events)-1].ID
	}

	return &models.EventListResponse{
		Data:       events,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (s *EventService) UpdateEvent(id, orgID uint, req models.UpdateEventRequest, coverImage string) (*models.Event, error) {
	event, err := s.getOwnedEvent(id, orgID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Game != nil {
		updates["game"] = *req.Game
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PrizePool != nil {
		updates["prize_pool"] = *req.PrizePool
	}
	if req.MaxSlots != nil {
		if *req.MaxSlots < event.JoinedSlots {
			return nil, errors.New("max slots cannot be lower than joined slots")
		}
		updates["max_slots"] = *req.MaxSlots
	}
	if req.StartDate != nil {
		startDate, err := parseRFC3339(*req.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = startDate
	}
	if req.RegistrationEndsAt != nil {
		registrationEndsAt, err := parseRFC3339(*req.RegistrationEndsAt)
		if err != nil {
			return nil, err
		}
		updates["registration_ends_at"] = registrationEndsAt
	}
	if coverImage != "" {
		updates["cover_image"] = coverImage
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Event{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetEventByID(id)
}

func (s *EventService) DeleteEvent(id, orgID uint) error {
	if _, err := s.getOwnedEvent(id, orgID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var roundIDs []uint
		if err := tx.Model(&models.Round{}).Where("event_id = ?", id).Pluck("id", &roundIDs).Error; err != nil {
			return err
		}
		if len(roundIDs) > 0 {
			if err := deleteGroupsForRounds(tx, roundIDs); err != nil {
				return err
			}
			if err := tx.Where("event_id = ?", id).Delete(&models.Round{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

// RegisterTeam registers a team for an event. Open events approve the
// registration immediately and consume a slot; invite-only events leave it
// pending for the organizer.
func (s *EventService) RegisterTeam(eventID, teamID, userID uint) (*models.EventRegistration, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, err
	}

	if event.Status != progression.EventRegistrationOpen {
		return nil, errors.New("event is not open for registration")
	}

	if event.RegistrationEndsAt != nil && time.Now().After(*event.RegistrationEndsAt) {
		return nil, errors.New("registration deadline has passed")
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("team not found")
		}
		return nil, err
	}

	if team.OwnerID != userID {
		return nil, errors.New("you must own the team to register it")
	}

	var existing models.EventRegistration
	if err := s.db.Where("event_id = ? AND team_id = ?", eventID, teamID).First(&existing).Error; err == nil {
		return nil, errors.New("team is already registered for this event")
	}

	status := models.RegistrationPending
	if event.RegistrationMode == "open" {
		if event.JoinedSlots >= event.MaxSlots {
			return nil, errors.New("event is full")
		}
		status = models.RegistrationApproved
	}

	registration := &models.EventRegistration{
		EventID: eventID,
		TeamID:  teamID,
		Status:  status,
	}

	if err := s.db.Create(registration).Error; err != nil {
		return nil, err
	}

	if status == models.RegistrationApproved {
		s.db.Model(&models.Event{}).Where("id = ?", eventID).
			Update("joined_slots", gorm.Expr("joined_slots + 1"))
	}

	if err := s.db.Preload("Team").First(registration, registration.ID).Error; err != nil {
		return nil, err
	}

	return registration, nil
}

// ApproveRegistration approves a pending invite-only registration
func (s *EventService) ApproveRegistration(eventID, registrationID, orgID uint) (*models.EventRegistration, error) {
	event, err := s.getOwnedEvent(eventID, orgID)
	if err != nil {
		return nil, err
	}

	var registration models.EventRegistration
	if err := s.db.Where("id = ? AND event_id = ?", registrationID, eventID).First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("registration not found")
		}
		return nil, err
	}

	if registration.Status == models.RegistrationApproved {
		return nil, errors.New("registration is already approved")
	}

	if event.JoinedSlots >= event.MaxSlots {
		return nil, errors.New("event is full")
	}

	registration.Status = models.RegistrationApproved
	if err := s.db.Save(&registration).Error; err != nil {
		return nil, err
	}

	s.db.Model(&models.Event{}).Where("id = ?", eventID).
		Update("joined_slots", gorm.Expr("joined_slots + 1"))

	if err := s.db.Preload("Team").First(&registration, registration.ID).Error; err != nil {
		return nil, err
	}

	return &registration, nil
}

func (s *EventService) CancelRegistration(eventID, teamID, userID uint) error {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("event not found")
		}
		return err
	}

	if event.Status != progression.EventRegistrationOpen {
		return errors.New("event is not open for registration")
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("team not found")
		}
		return err
	}

	if team.OwnerID != userID {
		return errors.New("you must own the team to cancel its registration")
	}

	var registration models.EventRegistration
	if err := s.db.Where("event_id = ? AND team_id = ?", eventID, teamID).First(&registration).Error; err != nil {
		return errors.New("team is not registered for this event")
	}

	wasApproved := registration.Status == models.RegistrationApproved

	if err := s.db.Delete(&registration).Error; err != nil {
		return err
	}

	if wasApproved {
		s.db.Model(&models.Event{}).Where("id = ? AND joined_slots > 0", eventID).
			Update("joined_slots", gorm.Expr("joined_slots - 1"))
	}

	return nil
}

// IsTeamRegistered reports the registration state of one team against one
// event: approved, pending or none
func (s *EventService) IsTeamRegistered(eventID, teamID uint) (*models.RegistrationStatusResponse, error) {
	var registration models.EventRegistration
	err := s.db.Where("event_id = ? AND team_id = ?", eventID, teamID).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.RegistrationStatusResponse{Registered: false, Status: models.RegistrationNone}, nil
		}
		return nil, err
	}

	return &models.RegistrationStatusResponse{
		Registered: registration.Status == models.RegistrationApproved,
		Status:     registration.Status,
	}, nil
}

func (s *EventService) GetRegisteredTeams(eventID uint, page, pageSize int) (*models.PaginatedRegistrationsResponse, error) {
	var registrations []models.EventRegistration
	var total int64

	query := s.db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.Where("event_id = ?", eventID).
		Preload("Team").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	items := make([]models.RegisteredTeamItem, len(registrations))
	for i, reg := range registrations {
		items[i] = models.RegisteredTeamItem{
			ID:     reg.ID,
			TeamID: reg.TeamID,
			Status: reg.Status,
			Team:   reg.Team,
		}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedRegistrationsResponse{
		Data:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// CloseRegistration moves an event from registration-open to
// registration-closed
func (s *EventService) CloseRegistration(eventID, orgID uint) (*models.Event, error) {
	event, err := s.getOwnedEvent(eventID, orgID)
	if err != nil {
		return nil, err
	}

	next, err := progression.TransitionEvent(event.Status, progression.EventRegistrationClosed)
	if err != nil {
		return nil, err
	}

	event.Status = next
	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

// StartEvent moves an event to live. At least one round must exist so the
// bracket is not empty when play begins.
func (s *EventService) StartEvent(eventID, orgID uint) (*models.Event, error) {
	event, err := s.getOwnedEvent(eventID, orgID)
	if err != nil {
		return nil, err
	}

	next, err := progression.TransitionEvent(event.Status, progression.EventLive)
	if err != nil {
		return nil, err
	}

	var roundCount int64
	if err := s.db.Model(&models.Round{}).Where("event_id = ?", eventID).Count(&roundCount).Error; err != nil {
		return nil, err
	}
	if roundCount == 0 {
		return nil, errors.New("event has no rounds")
	}

	event.Status = next
	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

// FinishEvent moves a live event to completed. Every round must already be
// completed.
func (s *EventService) FinishEvent(eventID, orgID uint) (*models.Event, error) {
	event, err := s.getOwnedEvent(eventID, orgID)
	if err != nil {
		return nil, err
	}

	next, err := progression.TransitionEvent(event.Status, progression.EventCompleted)
	if err != nil {
		return nil, err
	}

	var openRounds int64
	if err := s.db.Model(&models.Round{}).
		Where("event_id = ? AND status != ?", eventID, progression.StageCompleted).
		Count(&openRounds).Error; err != nil {
		return nil, err
	}
	if openRounds > 0 {
		return nil, errors.New("all rounds must be completed before finishing the event")
	}

	event.Status = next
	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) getOwnedEvent(eventID, orgID uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, err
	}

	if event.OrgID != orgID {
		return nil, errors.New("event does not belong to your organization")
	}

	return &event, nil
}

func (s *EventService) generateSlug(title string) string {
	slug := strings.ToLower(title)

	reg := regexp.MustCompile(`[^a-z0-9]+`)
	slug = reg.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")

	return slug
}

func (s *EventService) generateUniqueSlug(title string) string {
	baseSlug := s.generateSlug(title)
	slug := baseSlug
	counter := 1

	for {
		var existing models.Event
		result := s.db.Where("slug = ?", slug).First(&existing)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			break
		}

		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}

	return slug
}
