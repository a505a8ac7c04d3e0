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

type GroupHandler struct {
	groupService *services.GroupService
	orgService   *services.OrganizationService
	db           *gorm.DB
}

func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{
		groupService: services.NewGroupService(db),
		orgService:   services.NewOrganizationService(db),
		db:           db,
	}
}

// ownsRound checks that the caller's organization owns the event the round
// belongs to
func (h *GroupHandler) ownsRound(c *gin.Context, roundID uint) bool {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}

	org, err := h.orgService.GetUserOrganization(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must own an organization to manage groups"})
		return false
	}

	var round models.Round
	if err := h.db.First(&round, roundID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "round not found"})
		return false
	}

	var event models.Event
	if err := h.db.First(&event, round.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return false
	}

	if event.OrgID != org.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "event does not belong to your organization"})
		return false
	}

	return true
}

// CreateGroups seeds the groups of a round
// @Summary Create round groups
// @Description Seed the teams entering a round into groups with empty leaderboards (organizer only, own events)
// @Tags groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Round ID"
// @Param request body models.CreateGroupsRequest true "Group creation parameters"
// @Success 201 {array} models.Group
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rounds/{id}/groups [post]
func (h *GroupHandler) CreateGroups(c *gin.Context) {
	roundIDParam := c.Param("id")
	roundID, err := strconv.ParseUint(roundIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	if !h.ownsRound(c, uint(roundID)) {
		return
	}

	var req models.CreateGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groups, err := h.groupService.CreateGroups(uint(roundID), req)
	if err != nil {
		switch {
		case err.Error() == "round not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case strings.Contains(err.Error(), "already has groups"):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, groups)
}

// GetGroups lists the groups of a round
// @Summary List round groups
// @Description Get one page of a round's groups with their teams
// @Tags groups
// @Produce json
// @Param id path int true "Round ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedGroupsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /rounds/{id}/groups [get]
func (h *GroupHandler) GetGroups(c *gin.Context) {
	roundIDParam := c.Param("id")
	roundID, err := strconv.ParseUint(roundIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	page := 1
	limit := 10

	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	result, err := h.groupService.GetGroups(uint(roundID), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGroup gets a group by ID
// @Summary Get group by ID
// @Description Get one group with its teams
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	group, err := h.groupService.GetGroupByID(uint(id))
	if err != nil {
		if err.Error() == "group not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, group)
}

// UpdateGroup updates a group
// @Summary Update group
// @Description Shallow-merge the provided fields into a group (organizer only, own events)
// @Tags groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body models.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} models.Group
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{id} [patch]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	group, err := h.groupService.GetGroupByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.ownsRound(c, group.RoundID) {
		return
	}

	var req models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.groupService.UpdateGroup(uint(id), req)
	if err != nil {
		switch {
		case err.Error() == "group not found":
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
