package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"core/models"
	"core/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	groupHandler       *GroupHandler
	db                 *gorm.DB
}

func NewLeaderboardHandler(db *gorm.DB) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: services.NewLeaderboardService(db),
		groupHandler:       NewGroupHandler(db),
		db:                 db,
	}
}

// GetLeaderboard gets a group's leaderboard
// @Summary Get group leaderboard
// @Description Get the leaderboard of a group with entries ordered by position
// @Tags leaderboards
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Leaderboard
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{id}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	groupIDParam := c.Param("id")
	groupID, err := strconv.ParseUint(groupIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	leaderboard, err := h.leaderboardService.GetLeaderboard(uint(groupID))
	if err != nil {
		if err.Error() == "leaderboard not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// UpdateTeamScore overwrites one team's stats on a leaderboard
// @Summary Update team score
// @Description Set one team's score, kills and wins on a group leaderboard (organizer only, own events)
// @Tags leaderboards
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param teamId path int true "Team ID"
// @Param request body models.TeamScoreRequest true "Team stats"
// @Success 200 {object} models.Leaderboard
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /groups/{id}/leaderboard/{teamId} [put]
func (h *LeaderboardHandler) UpdateTeamScore(c *gin.Context) {
	groupIDParam := c.Param("id")
	groupID, err := strconv.ParseUint(groupIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	teamIDParam := c.Param("teamId")
	teamID, err := strconv.ParseUint(teamIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	group, err := h.groupHandler.groupService.GetGroupByID(uint(groupID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.groupHandler.ownsRound(c, group.RoundID) {
		return
	}

	var req models.TeamScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leaderboard, err := h.leaderboardService.UpdateTeamScore(uint(groupID), uint(teamID), req)
	if err != nil {
		h.writeLeaderboardError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// UpdateGroupResults applies one match's results to a group
// @Summary Update group results
// @Description Apply per-team match results to a group leaderboard; completes the group after its final match (organizer only, own events)
// @Tags leaderboards
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body models.GroupResultsRequest true "Match results"
// @Success 200 {object} models.GroupResultsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /groups/{id}/results [post]
func (h *LeaderboardHandler) UpdateGroupResults(c *gin.Context) {
	groupIDParam := c.Param("id")
	groupID, err := strconv.ParseUint(groupIDParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	group, err := h.groupHandler.groupService.GetGroupByID(uint(groupID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if !h.groupHandler.ownsRound(c, group.RoundID) {
		return
	}

	var req models.GroupResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.leaderboardService.UpdateGroupResults(uint(groupID), req)
	if err != nil {
		if strings.Contains(err.Error(), "already completed") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeLeaderboardError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *LeaderboardHandler) writeLeaderboardError(c *gin.Context, err error) {
	switch err.Error() {
	case "group not found", "leaderboard not found", "team has no entry on this leaderboard":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
