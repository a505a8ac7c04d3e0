package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"core/models"
	"core/services"

	authMiddleware "auth/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoundHandler struct {
	roundService *services.RoundService
	orgService   *services.OrganizationService
	db           *gorm.DB
}

func NewRoundHandler(db *gorm.DB) *RoundHandler {
	return &RoundHandler{
		roundService: services.NewRoundService(db),
		orgService:   services.NewOrganizationService(db),
		db:           db,
	}
}

// ownsEvent checks that the authenticated user's organization owns the event
func (h *RoundHandler) ownsEvent(c *gin.Context, eventID uint) bool {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}

	org, err := h.orgService.GetUserOrganization(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must own an organization to manage rounds"})
		return false
	}

	var event models.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return false
	}

	if event.OrgID != org.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "event does not belong to your organization"})
		return false
	}

	return true
}

// GetRounds lists the rounds of an event
// @Summary List event rounds
// @Description Get all rounds of one event ordered by round number
// @Tags rounds
// @Produce json
// @Param eventId query int true "Event ID"
// @Success 200 {array} models.Round
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /rounds [get]
func (h *RoundHandler) GetRounds(c *gin.Context) {
	eventIDParam := c.Query("eventId")
	eventID, err := strconv.ParseUint(eventIDParam, 10, 32)
	if err != nil || eventID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId query parameter is required"})
		return
	}

	rounds, err := h.roundService.GetRounds(uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rounds)
}

// GetRound gets a round by ID
// @Summary Get round by ID
// @Description Get one round
// @Tags rounds
// @Produce json
// @Param id path int true "Round ID"
// @Success 200 {object} models.Round
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id} [get]
func (h *RoundHandler) GetRound(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	round, err := h.roundService.GetRoundByID(uint(id))
	if err != nil {
		if err.Error() == "round not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, round)
}

// CreateRound creates a round for an event
// @Summary Create round
// @Description Append a new round to an event (organizer only, own events)
// @Tags rounds
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param round body models.CreateRoundRequest true "Round data"
// @Success 201 {object} models.Round
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rounds [post]
func (h *RoundHandler) CreateRound(c *gin.Context) {
	eventIDParam := c.Param("id")
	eventID, err := strconv.ParseUint(eventIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if !h.ownsEvent(c, uint(eventID)) {
		return
	}

	var req models.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.roundService.CreateRound(uint(eventID), req)
	if err != nil {
		if err.Error() == "event not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, round)
}

// UpdateRoundStatus updates a round's status
// @Summary Update round status
// @Description Advance a round through pending, ongoing and completed (organizer only, own events)
// @Tags rounds
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Round ID"
// @Param request body models.UpdateRoundStatusRequest true "New status"
// @Success 200 {object} models.Round
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/status [patch]
func (h *RoundHandler) UpdateRoundStatus(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	round, err := h.roundService.GetRoundByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.ownsEvent(c, round.EventID) {
		return
	}

	var req models.UpdateRoundStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.roundService.UpdateRoundStatus(uint(id), req.Status)
	if err != nil {
		switch {
		case err.Error() == "round not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case strings.Contains(err.Error(), "transition"):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRound deletes a round
// @Summary Delete round
// @Description Delete a round with its groups and leaderboards (organizer only, own events)
// @Tags rounds
// @Security BearerAuth
// @Produce json
// @Param id path int true "Round ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id} [delete]
func (h *RoundHandler) DeleteRound(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	round, err := h.roundService.GetRoundByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.ownsEvent(c, round.EventID) {
		return
	}

	if err := h.roundService.DeleteRound(uint(id)); err != nil {
		if err.Error() == "round not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Round deleted successfully"})
}
