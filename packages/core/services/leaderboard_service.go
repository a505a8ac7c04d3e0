package services

import (
	"errors"
	"sort"

	"core/models"
	"core/progression"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{
		db: db,
	}
}

// GetLeaderboard returns the leaderboard of a group with entries ordered by
// position
func (s *LeaderboardService) GetLeaderboard(groupID uint) (*models.Leaderboard, error) {
	var leaderboard models.Leaderboard
	err := s.db.Where("group_id = ?", groupID).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, total_points DESC")
		}).
		Preload("Entries.Team").
		First(&leaderboard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("leaderboard not found")
		}
		return nil, err
	}

	return &leaderboard, nil
}

// UpdateTeamScore overwrites one team's stats on a group leaderboard and
// recomputes total points and positions. The merge is keyed by team id; a
// team without an entry is rejected rather than silently inserted.
func (s *LeaderboardService) UpdateTeamScore(groupID, teamID uint, req models.TeamScoreRequest) (*models.Leaderboard, error) {
	leaderboard, err := s.GetLeaderboard(groupID)
	if err != nil {
		return nil, err
	}

	var entry models.LeaderboardEntry
	if err := s.db.Where("leaderboard_id = ? AND team_id = ?", leaderboard.ID, teamID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("team has no entry on this leaderboard")
		}
		return nil, err
	}

	entry.Score = req.Score
	entry.Kills = req.Kills
	entry.Wins = req.Wins
	entry.TotalPoints = req.Score + req.Kills

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return recomputePositions(tx, leaderboard.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetLeaderboard(groupID)
}

// UpdateGroupResults applies one match's results to a group: per-team stats
// accumulate into the leaderboard, the group's played counter advances and,
// once the group has played all its scheduled matches, it completes and the
// top teams are flagged as qualified for the next round.
func (s *LeaderboardService) UpdateGroupResults(groupID uint, req models.GroupResultsRequest) (*models.GroupResultsResponse, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("group not found")
		}
		return nil, err
	}

	if group.Status == progression.StageCompleted {
		return nil, errors.New("group has already completed all matches")
	}

	leaderboard, err := s.GetLeaderboard(groupID)
	if err != nil {
		return nil, err
	}

	var round models.Round
	if err := s.db.First(&round, group.RoundID).Error; err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, result := range req.Results {
			var entry models.LeaderboardEntry
			if err := tx.Where("leaderboard_id = ? AND team_id = ?", leaderboard.ID, result.TeamID).
				First(&entry).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("team has no entry on this leaderboard")
				}
				return err
			}

			entry.Score += result.Score
			entry.Kills += result.Kills
			entry.Wins += result.Wins
			entry.MatchesPlayed++
			entry.TotalPoints = entry.Score + entry.Kills

			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		}

		if err := recomputePositions(tx, leaderboard.ID); err != nil {
			return err
		}

		group.MatchesPlayed++
		if group.Status == progression.StagePending {
			group.Status = progression.StageOngoing
		}

		if group.MatchesPlayed >= group.TotalMatch {
			group.Status = progression.StageCompleted
			if err := markQualified(tx, leaderboard.ID, round.QualifyingTeams); err != nil {
				return err
			}
		}

		return tx.Save(&group).Error
	})
	if err != nil {
		return nil, err
	}

	refreshed, err := s.GetLeaderboard(groupID)
	if err != nil {
		return nil, err
	}

	var updatedGroup models.Group
	if err := s.db.Preload("Teams").First(&updatedGroup, groupID).Error; err != nil {
		return nil, err
	}

	return &models.GroupResultsResponse{
		Leaderboard: *refreshed,
		Group:       updatedGroup,
	}, nil
}

// recomputePositions reorders a leaderboard by total points, breaking ties
// on wins then kills
func recomputePositions(tx *gorm.DB, leaderboardID uint) error {
	var entries []models.LeaderboardEntry
	if err := tx.Where("leaderboard_id = ?", leaderboardID).Find(&entries).Error; err != nil {
		return err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Kills > entries[j].Kills
	})

	for i := range entries {
		if err := tx.Model(&models.LeaderboardEntry{}).
			Where("id = ?", entries[i].ID).
			Update("position", i+1).Error; err != nil {
			return err
		}
	}

	return nil
}

// markQualified flags the top n entries of a completed group
func markQualified(tx *gorm.DB, leaderboardID uint, qualifyingTeams int) error {
	if qualifyingTeams <= 0 {
		return nil
	}

	var entries []models.LeaderboardEntry
	if err := tx.Where("leaderboard_id = ?", leaderboardID).
		Order("total_points DESC, wins DESC, kills DESC").
		Limit(qualifyingTeams).
		Find(&entries).Error; err != nil {
		return err
	}

	for i := range entries {
		if err := tx.Model(&models.LeaderboardEntry{}).
			Where("id = ?", entries[i].ID).
			Update("is_qualified", true).Error; err != nil {
			return err
		}
	}

	return nil
}
