package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"core/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db: db,
	}
}

func (s *TeamService) CreateTeam(ownerID uint, req models.CreateTeamRequest) (*models.Team, error) {
	team := &models.Team{
		TeamName: req.TeamName,
		Slug:     s.generateUniqueSlug(req.TeamName),
		TeamLogo: req.TeamLogo,
		OwnerID:  ownerID,
	}

	if err := s.db.Create(team).Error; err != nil {
		return nil, err
	}

	return team, nil
}

func (s *TeamService) GetTeamByID(id uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("team not found")
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetUserTeams(ownerID uint) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *TeamService) GetAllTeams(page, pageSize int) (*models.PaginatedTeamsResponse, error) {
	var teams []models.Team
	var total int64

	if err := s.db.Model(&models.Team{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&teams).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedTeamsResponse{
		Data:       teams,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *TeamService) UpdateTeam(id, userID uint, req models.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.GetTeamByID(id)
	if err != nil {
		return nil, err
	}

	if team.OwnerID != userID {
		return nil, errors.New("you must own the team to update it")
	}

	updates := make(map[string]interface{})
	if req.TeamName != nil {
		updates["team_name"] = *req.TeamName
	}
	if req.TeamLogo != nil {
		updates["team_logo"] = *req.TeamLogo
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Team{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetTeamByID(id)
}

func (s *TeamService) DeleteTeam(id, userID uint) error {
	team, err := s.GetTeamByID(id)
	if err != nil {
		return err
	}

	if team.OwnerID != userID {
		return errors.New("you must own the team to delete it")
	}

	var activeRegistrations int64
	if err := s.db.Model(&models.EventRegistration{}).Where("team_id = ?", id).Count(&activeRegistrations).Error; err != nil {
		return err
	}
	if activeRegistrations > 0 {
		return errors.New("team has active event registrations")
	}

	return s.db.Delete(team).Error
}

func (s *TeamService) generateUniqueSlug(name string) string {
	slug := strings.ToLower(name)
	reg := regexp.MustCompile(`[^a-z0-9]+`)
	slug = reg.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	baseSlug := slug
	counter := 1
	for {
		var existing models.Team
		result := s.db.Where("slug = ?", slug).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			break
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}

	return slug
}
