package services

import (
	"errors"
	"fmt"

	"core/models"
	"core/progression"

	"gorm.io/gorm"
)

type RoundService struct {
	db *gorm.DB
}

func NewRoundService(db *gorm.DB) *RoundService {
	return &RoundService{
		db: db,
	}
}

// GetRounds returns the rounds of one event ordered by round number. The
// event id is mandatory: rounds are never listed across events.
func (s *RoundService) GetRounds(eventID uint) ([]models.Round, error) {
	if eventID == 0 {
		return nil, errors.New("event id is required")
	}

	var rounds []models.Round
	if err := s.db.Where("event_id = ?", eventID).
		Order("round_number ASC").
		Find(&rounds).Error; err != nil {
		return nil, err
	}

	return rounds, nil
}

func (s *RoundService) GetRoundByID(id uint) (*models.Round, error) {
	var round models.Round
	if err := s.db.First(&round, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("round not found")
		}
		return nil, err
	}
	return &round, nil
}

func (s *RoundService) CreateRound(eventID uint, req models.CreateRoundRequest) (*models.Round, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, err
	}

	if event.Status == progression.EventCompleted {
		return nil, errors.New("event is already completed")
	}

	startTime, err := parseRFC3339(req.StartTime)
	if err != nil {
		return nil, err
	}

	var roundCount int64
	if err := s.db.Model(&models.Round{}).Where("event_id = ?", eventID).Count(&roundCount).Error; err != nil {
		return nil, err
	}

	matchesPerGroup := req.MatchesPerGroup
	if matchesPerGroup <= 0 {
		matchesPerGroup = 1
	}

	round := &models.Round{
		RoundName:       req.RoundName,
		RoundNumber:     int(roundCount) + 1,
		Status:          progression.StagePending,
		EventID:         eventID,
		StartTime:       startTime,
		GapMinutes:      req.GapMinutes,
		MatchesPerGroup: matchesPerGroup,
		QualifyingTeams: req.QualifyingTeams,
	}

	if err := s.db.Create(round).Error; err != nil {
		return nil, err
	}

	return round, nil
}

// UpdateRoundStatus applies a validated monotonic status transition. A round
// can only go ongoing while its event is live.
func (s *RoundService) UpdateRoundStatus(roundID uint, status string) (*models.Round, error) {
	round, err := s.GetRoundByID(roundID)
	if err != nil {
		return nil, err
	}

	next, err := progression.TransitionStage(round.Status, status)
	if err != nil {
		return nil, err
	}

	if next == progression.StageOngoing {
		var event models.Event
		if err := s.db.First(&event, round.EventID).Error; err != nil {
			return nil, err
		}
		if event.Status != progression.EventLive {
			return nil, errors.New("event is not live")
		}
	}

	if next == progression.StageCompleted {
		var openGroups int64
		if err := s.db.Model(&models.Group{}).
			Where("round_id = ? AND status != ?", roundID, progression.StageCompleted).
			Count(&openGroups).Error; err != nil {
			return nil, err
		}
		if openGroups > 0 {
			return nil, fmt.Errorf("%d groups are still open in this round", openGroups)
		}
	}

	round.Status = next
	if err := s.db.Save(round).Error; err != nil {
		return nil, err
	}

	return round, nil
}

// DeleteRound removes a round together with its groups and their
// leaderboards
func (s *RoundService) DeleteRound(roundID uint) error {
	var round models.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("round not found")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteGroupsForRounds(tx, []uint{roundID}); err != nil {
			return err
		}
		return tx.Delete(&round).Error
	})
}

// deleteGroupsForRounds removes the groups under the given rounds along with
// their leaderboards and entries
func deleteGroupsForRounds(tx *gorm.DB, roundIDs []uint) error {
	var groupIDs []uint
	if err := tx.Model(&models.Group{}).Where("round_id IN ?", roundIDs).Pluck("id", &groupIDs).Error; err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}

	var leaderboardIDs []uint
	if err := tx.Model(&models.Leaderboard{}).Where("group_id IN ?", groupIDs).Pluck("id", &leaderboardIDs).Error; err != nil {
		return err
	}
	if len(leaderboardIDs) > 0 {
		if err := tx.Where("leaderboard_id IN ?", leaderboardIDs).Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", leaderboardIDs).Delete(&models.Leaderboard{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Exec("DELETE FROM group_teams WHERE group_id IN ?", groupIDs).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", groupIDs).Delete(&models.Group{}).Error
}
