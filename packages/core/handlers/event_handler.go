package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"core/models"
	"core/services"

	authMiddleware "auth/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	eventService *services.EventService
	orgService   *services.OrganizationService
	db           *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		eventService: services.NewEventService(db),
		orgService:   services.NewOrganizationService(db),
		db:           db,
	}
}

// callerOrg resolves the organization owned by the authenticated user
func (h *EventHandler) callerOrg(c *gin.Context) (uint, bool) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}

	org, err := h.orgService.GetUserOrganization(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must own an organization to manage events"})
		return 0, false
	}

	return org.ID, true
}

// saveCoverImage stores an uploaded cover image and returns its public path.
// An empty string means no file was part of the request.
func saveCoverImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("coverImage")
	if err != nil {
		return "", nil
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	dst := filepath.Join(uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}

	return "/" + filepath.ToSlash(dst), nil
}

// CreateEvent creates a new event
// @Summary Create a new event
// @Description Create a new event for the caller's organization (organizer only)
// @Tags events
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param title formData string true "Event title"
// @Param game formData string true "Game name"
// @Param type formData string true "Event type" Enums(tournament, scrims)
// @Param category formData string true "Team category" Enums(solo, duo, squad)
// @Param registrationMode formData string false "Registration mode" Enums(open, invite-only)
// @Param description formData string false "Description"
// @Param prizePool formData string false "Prize pool"
// @Param maxSlots formData int true "Maximum team slots"
// @Param startDate formData string false "Start date (RFC 3339)"
// @Param registrationEndsAt formData string false "Registration deadline (RFC 3339)"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coverImage, err := saveCoverImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cover image"})
		return
	}

	event, err := h.eventService.CreateEvent(orgID, req, coverImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvents lists events with cursor pagination
// @Summary List events
// @Description Get a cursor page of events, newest first, with optional title/game search
// @Tags events
// @Produce json
// @Param cursor query int false "Cursor (id of last event from previous page)"
// @Param limit query int false "Page size (default: 10, max: 100)"
// @Param search query string false "Search in title and game"
// @Success 200 {object} models.EventListResponse
// @Failure 500 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) GetEvents(c *gin.Context) {
	var cursor uint
	if cursorParam := c.Query("cursor"); cursorParam != "" {
		if v, err := strconv.ParseUint(cursorParam, 10, 32); err == nil {
			cursor = uint(v)
		}
	}

	limit := 10
	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	result, err := h.eventService.ListEvents(cursor, limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyEvents lists the caller's organization events
// @Summary List my organization's events
// @Description Get a cursor page of events owned by the caller's organization
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param cursor query int false "Cursor (id of last event from previous page)"
// @Param limit query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} models.EventListResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events/mine [get]
func (h *EventHandler) GetMyEvents(c *gin.Context) {
	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	var cursor uint
	if cursorParam := c.Query("cursor"); cursorParam != "" {
		if v, err := strconv.ParseUint(cursorParam, 10, 32); err == nil {
			cursor = uint(v)
		}
	}

	limit := 10
	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	result, err := h.eventService.ListOrgEvents(orgID, cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEvent gets an event by ID
// @Summary Get event by ID
// @Description Get event details with its organization
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.eventService.GetEventByID(uint(id))
	if err != nil {
		if err.Error() == "event not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent updates an event
// @Summary Update event
// @Description Update event fields (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path int true "Event ID"
// @Param title formData string false "Event title"
// @Param game formData string false "Game name"
// @Param description formData string false "Description"
// @Param prizePool formData string false "Prize pool"
// @Param maxSlots formData int false "Maximum team slots"
// @Param startDate formData string false "Start date (RFC 3339)"
// @Param registrationEndsAt formData string false "Registration deadline (RFC 3339)"
// @Param coverImage formData file false "Cover image"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coverImage, err := saveCoverImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cover image"})
		return
	}

	event, err := h.eventService.UpdateEvent(uint(id), orgID, req, coverImage)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent deletes an event
// @Summary Delete event
// @Description Delete an event with its rounds, groups and registrations (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(uint(id), orgID); err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// RegisterTeam registers a team for an event
// @Summary Register for event
// @Description Register one of your teams for an event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body models.RegisterEventRequest true "Registration request"
// @Success 201 {object} models.EventRegistration
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/register [post]
func (h *EventHandler) RegisterTeam(c *gin.Context) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.RegisterEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	registration, err := h.eventService.RegisterTeam(uint(eventID), req.TeamID, userID)
	if err != nil {
		switch {
		case err.Error() == "event not found" || err.Error() == "team not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case strings.Contains(err.Error(), "already registered"):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// CancelRegistration removes a team's registration
// @Summary Cancel event registration
// @Description Cancel a team's registration while registration is still open
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Param teamId path int true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/register/{teamId} [delete]
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	teamIDParam := c.Param("teamId")
	teamID, err := strconv.ParseUint(teamIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.eventService.CancelRegistration(uint(eventID), uint(teamID), userID); err != nil {
		switch err.Error() {
		case "event not found", "team not found", "team is not registered for this event":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration cancelled successfully"})
}

// IsTeamRegistered checks a team's registration status
// @Summary Check registration status
// @Description Report whether a team is registered for an event (approved, pending or none)
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param teamId path int true "Team ID"
// @Success 200 {object} models.RegistrationStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /events/{id}/registration-status/{teamId} [get]
func (h *EventHandler) IsTeamRegistered(c *gin.Context) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	teamIDParam := c.Param("teamId")
	teamID, err := strconv.ParseUint(teamIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	result, err := h.eventService.IsTeamRegistered(uint(eventID), uint(teamID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRegisteredTeams lists the teams registered for an event
// @Summary Get registered teams
// @Description Get paginated list of teams registered for an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedRegistrationsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /events/{id}/teams [get]
func (h *EventHandler) GetRegisteredTeams(c *gin.Context) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	page := 1
	pageSize := 10

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	if sizeParam := c.Query("pageSize"); sizeParam != "" {
		if ps, err := strconv.Atoi(sizeParam); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}

	result, err := h.eventService.GetRegisteredTeams(uint(eventID), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ApproveRegistration approves a pending registration
// @Summary Approve registration
// @Description Approve a pending invite-only registration (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Param registrationId path int true "Registration ID"
// @Success 200 {object} models.EventRegistration
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/registrations/{registrationId}/approve [post]
func (h *EventHandler) ApproveRegistration(c *gin.Context) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	registrationIDParam := c.Param("registrationId")
	registrationID, err := strconv.ParseUint(registrationIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	registration, err := h.eventService.ApproveRegistration(uint(eventID), uint(registrationID), orgID)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// CloseRegistration closes event registration
// @Summary Close registration
// @Description Move an event from registration-open to registration-closed (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/close-registration [post]
func (h *EventHandler) CloseRegistration(c *gin.Context) {
	h.transition(c, h.eventService.CloseRegistration)
}

// StartEvent starts an event
// @Summary Start event
// @Description Move an event to live; requires at least one round (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/start [post]
func (h *EventHandler) StartEvent(c *gin.Context) {
	h.transition(c, h.eventService.StartEvent)
}

// FinishEvent finishes an event
// @Summary Finish event
// @Description Move a live event to completed; all rounds must be completed (organizer only, own events)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/finish [post]
func (h *EventHandler) FinishEvent(c *gin.Context) {
	h.transition(c, h.eventService.FinishEvent)
}

func (h *EventHandler) transition(c *gin.Context, fn func(eventID, orgID uint) (*models.Event, error)) {
	idParam := c.Param("id")
	eventID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	event, err := fn(uint(eventID), orgID)
	if err != nil {
		h.writeEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) writeEventError(c *gin.Context, err error) {
	switch {
	case err.Error() == "event not found" || err.Error() == "registration not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case strings.Contains(err.Error(), "does not belong"):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case strings.Contains(err.Error(), "transition"):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
