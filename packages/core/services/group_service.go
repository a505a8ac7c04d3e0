package services

import (
	"errors"
	"fmt"
	"time"

	"core/models"
	"core/progression"

	"gorm.io/gorm"
)

// maxTeamsPerGroup caps lobby size; battle-royale lobbies top out at 25
// squads
const maxTeamsPerGroup = 25

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{
		db: db,
	}
}

func groupName(index int) string {
	if index < 26 {
		return fmt.Sprintf("Group %c", 'A'+index)
	}
	return fmt.Sprintf("Group %d", index+1)
}

// CreateGroups seeds the teams entering a round into lobbies. Round one
// draws from approved registrations; later rounds draw from the teams that
// qualified out of the previous round. Teams are dealt round-robin so group
// sizes stay within one of each other, and each group gets an empty
// leaderboard with one entry per team.
func (s *GroupService) CreateGroups(roundID uint, req models.CreateGroupsRequest) ([]models.Group, error) {
	var round models.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("round not found")
		}
		return nil, err
	}

	if round.Status != progression.StagePending {
		return nil, errors.New("groups can only be created while the round is pending")
	}

	var existing int64
	if err := s.db.Model(&models.Group{}).Where("round_id = ?", roundID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, errors.New("round already has groups")
	}

	matchTime, err := parseRFC3339(req.MatchTime)
	if err != nil {
		return nil, err
	}

	teamIDs, err := s.enteringTeams(&round)
	if err != nil {
		return nil, err
	}
	if len(teamIDs) == 0 {
		return nil, errors.New("no teams available for this round")
	}

	totalMatch := req.TotalMatch
	if totalMatch == 0 {
		totalMatch = round.MatchesPerGroup
	}
	if totalMatch == 0 {
		totalMatch = 1
	}

	groupCount := (len(teamIDs) + maxTeamsPerGroup - 1) / maxTeamsPerGroup

	var groups []models.Group
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < groupCount; i++ {
			groupMatchTime := matchTime
			if matchTime != nil && round.GapMinutes > 0 {
				t := matchTime.Add(time.Duration(i*round.GapMinutes) * time.Minute)
				groupMatchTime = &t
			}

			group := models.Group{
				GroupName:  groupName(i),
				TotalMatch: totalMatch,
				MatchTime:  groupMatchTime,
				Status:     progression.StagePending,
				RoundID:    roundID,
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}

			leaderboard := models.Leaderboard{GroupID: group.ID}
			if err := tx.Create(&leaderboard).Error; err != nil {
				return err
			}

			// Deal teams round-robin: team j goes to group j % groupCount
			for j := i; j < len(teamIDs); j += groupCount {
				if err := tx.Exec("INSERT INTO group_teams (group_id, team_id) VALUES (?, ?)", group.ID, teamIDs[j]).Error; err != nil {
					return err
				}
				entry := models.LeaderboardEntry{
					LeaderboardID: leaderboard.ID,
					TeamID:        teamIDs[j],
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}

			groups = append(groups, group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range groups {
		if err := s.db.Preload("Teams").First(&groups[i], groups[i].ID).Error; err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// enteringTeams resolves which teams play this round
func (s *GroupService) enteringTeams(round *models.Round) ([]uint, error) {
	if round.RoundNumber <= 1 {
		var teamIDs []uint
		err := s.db.Model(&models.EventRegistration{}).
			Where("event_id = ? AND status = ?", round.EventID, models.RegistrationApproved).
			Order("created_at ASC").
			Pluck("team_id", &teamIDs).Error
		return teamIDs, err
	}

	var previous models.Round
	if err := s.db.Where("event_id = ? AND round_number = ?", round.EventID, round.RoundNumber-1).
		First(&previous).Error; err != nil {
		return nil, errors.New("previous round not found")
	}
	if previous.Status != progression.StageCompleted {
		return nil, errors.New("previous round is not completed")
	}

	var teamIDs []uint
	err := s.db.Model(&models.LeaderboardEntry{}).
		Joins("JOIN leaderboards ON leaderboards.id = leaderboard_entries.leaderboard_id").
		Joins("JOIN groups ON groups.id = leaderboards.group_id").
		Where("groups.round_id = ? AND leaderboard_entries.is_qualified = ?", previous.ID, true).
		Order("leaderboard_entries.total_points DESC").
		Pluck("leaderboard_entries.team_id", &teamIDs).Error
	return teamIDs, err
}

// GetGroups returns one page of a round's groups in creation order
func (s *GroupService) GetGroups(roundID uint, page, limit int) (*models.PaginatedGroupsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&models.Group{}).Where("round_id = ?", roundID).Count(&total).Error; err != nil {
		return nil, err
	}

	var groups []models.Group
	if err := s.db.Where("round_id = ?", roundID).
		Preload("Teams").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&groups).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &models.PaginatedGroupsResponse{
		Data:        groups,
		TotalGroups: total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

func (s *GroupService) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.Preload("Teams").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("group not found")
		}
		return nil, err
	}
	return &group, nil
}

// UpdateGroup shallow-merges the provided fields into the group. Status
// changes go through the stage transition rules.
func (s *GroupService) UpdateGroup(groupID uint, req models.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.GetGroupByID(groupID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.GroupName != nil {
		updates["group_name"] = *req.GroupName
	}
	if req.TotalMatch != nil {
		if *req.TotalMatch < group.MatchesPlayed {
			return nil, errors.New("total matches cannot be lower than matches already played")
		}
		updates["total_match"] = *req.TotalMatch
	}
	if req.MatchTime != nil {
		matchTime, err := parseRFC3339(*req.MatchTime)
		if err != nil {
			return nil, err
		}
		updates["match_time"] = matchTime
	}
	if req.Status != nil {
		next, err := progression.TransitionStage(group.Status, *req.Status)
		if err != nil {
			return nil, err
		}
		updates["status"] = next
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetGroupByID(groupID)
}
