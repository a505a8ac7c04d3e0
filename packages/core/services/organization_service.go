package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	authModels "auth/models"
	"core/models"

	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{
		db: db,
	}
}

// CreateOrganization creates an organization and grants its owner the
// organizer role
func (s *OrganizationService) CreateOrganization(ownerID uint, req models.CreateOrganizationRequest) (*models.Organization, error) {
	var existing models.Organization
	if err := s.db.Where("owner_id = ?", ownerID).First(&existing).Error; err == nil {
		return nil, errors.New("you already own an organization")
	}

	org := &models.Organization{
		Name:    req.Name,
		Slug:    s.generateUniqueSlug(req.Name),
		About:   req.About,
		Logo:    req.Logo,
		OwnerID: ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		var user authModels.User
		if err := tx.First(&user, ownerID).Error; err != nil {
			return err
		}
		user.AddRole(authModels.RoleOrganizer)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

func (s *OrganizationService) GetOrganizationByID(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("organization not found")
		}
		return nil, err
	}
	return &org, nil
}

// GetUserOrganization returns the organization owned by a user
func (s *OrganizationService) GetUserOrganization(ownerID uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.Where("owner_id = ?", ownerID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("organization not found")
		}
		return nil, err
	}
	return &org, nil
}

func (s *OrganizationService) UpdateOrganization(id, userID uint, req models.UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.GetOrganizationByID(id)
	if err != nil {
		return nil, err
	}

	if org.OwnerID != userID {
		return nil, errors.New("you must own the organization to update it")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.Logo != nil {
		updates["logo"] = *req.Logo
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetOrganizationByID(id)
}

func (s *OrganizationService) generateUniqueSlug(name string) string {
	slug := strings.ToLower(name)
	reg := regexp.MustCompile(`[^a-z0-9]+`)
	slug = reg.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	baseSlug := slug
	counter := 1
	for {
		var existing models.Organization
		result := s.db.Where("slug = ?", slug).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			break
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}

	return slug
}
