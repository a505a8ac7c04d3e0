package fixtures

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	authModels "auth/models"
	authUtils "auth/utils"
	"core/models"

	"gorm.io/gorm"
)

type Fixtures struct {
	db *gorm.DB
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{db: db}
}

// GenerateTestData creates a demo organizer with events plus player accounts
// with teams and registrations
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	organizer, players, err := f.generateUsers()
	if err != nil {
		return fmt.Errorf("failed to generate users: %w", err)
	}

	org, err := f.generateOrganization(organizer)
	if err != nil {
		return fmt.Errorf("failed to generate organization: %w", err)
	}

	teams, err := f.generateTeams(players)
	if err != nil {
		return fmt.Errorf("failed to generate teams: %w", err)
	}

	events, err := f.generateEvents(org)
	if err != nil {
		return fmt.Errorf("failed to generate events: %w", err)
	}

	if err := f.generateRegistrations(events, teams); err != nil {
		return fmt.Errorf("failed to generate registrations: %w", err)
	}

	if err := f.generateRounds(events); err != nil {
		return fmt.Errorf("failed to generate rounds: %w", err)
	}

	log.Printf("Created %d users, 1 organization, %d teams and %d events", len(players)+1, len(teams), len(events))
	return nil
}

func (f *Fixtures) generateUsers() (*authModels.User, []authModels.User, error) {
	password, err := authUtils.HashPassword("password123")
	if err != nil {
		return nil, nil, err
	}

	organizer := authModels.User{
		Email:    "organizer@arena.test",
		Username: "demo-org-admin",
		Password: password,
		Slug:     "demo-org-admin",
		Verified: true,
		Enabled:  true,
		Roles:    authModels.GetDefaultRoles(),
	}
	if err := f.db.Create(&organizer).Error; err != nil {
		return nil, nil, err
	}

	var players []authModels.User
	for i := 1; i <= 8; i++ {
		player := authModels.User{
			Email:    fmt.Sprintf("player%d@arena.test", i),
			Username: fmt.Sprintf("player%d", i),
			Password: password,
			Slug:     fmt.Sprintf("player%d", i),
			Verified: true,
			Enabled:  true,
			Roles:    authModels.GetDefaultRoles(),
		}
		if err := f.db.Create(&player).Error; err != nil {
			return nil, nil, err
		}
		players = append(players, player)
	}

	return &organizer, players, nil
}

func (f *Fixtures) generateOrganization(owner *authModels.User) (*models.Organization, error) {
	org := models.Organization{
		Name:    "Arena Esports",
		Slug:    "arena-esports",
		About:   "Demo tournament organizer",
		OwnerID: owner.ID,
	}
	if err := f.db.Create(&org).Error; err != nil {
		return nil, err
	}

	owner.AddRole(authModels.RoleOrganizer)
	if err := f.db.Save(owner).Error; err != nil {
		return nil, err
	}

	return &org, nil
}

func (f *Fixtures) generateTeams(players []authModels.User) ([]models.Team, error) {
	names := []string{"Night Owls", "Crimson Wolves", "Phantom Squad", "Iron Falcons",
		"Void Raiders", "Storm Breakers", "Silent Aces", "Lunar Titans"}

	var teams []models.Team
	for i, player := range players {
		team := models.Team{
			TeamName: names[i%len(names)],
			Slug:     strings.ReplaceAll(strings.ToLower(names[i%len(names)]), " ", "-"),
			OwnerID:  player.ID,
		}
		if err := f.db.Create(&team).Error; err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, nil
}

func (f *Fixtures) generateEvents(org *models.Organization) ([]models.Event, error) {
	now := time.Now()
	weekOut := now.Add(7 * 24 * time.Hour)
	dayOut := now.Add(24 * time.Hour)

	events := []models.Event{
		{
			Title:              "Winter Clash",
			Slug:               "winter-clash",
			Game:               "BGMI",
			Type:               "tournament",
			Category:           "squad",
			Status:             "registration-open",
			RegistrationMode:   "open",
			Description:        "Open squad tournament with daily qualifiers",
			PrizePool:          "50000",
			MaxSlots:           100,
			StartDate:          &weekOut,
			RegistrationEndsAt: &dayOut,
			OrgID:              org.ID,
		},
		{
			Title:            "Invite Scrims",
			Slug:             "invite-scrims",
			Game:             "Free Fire",
			Type:             "scrims",
			Category:         "squad",
			Status:           "registration-open",
			RegistrationMode: "invite-only",
			Description:      "Invite-only practice lobby",
			MaxSlots:         25,
			StartDate:        &weekOut,
			OrgID:            org.ID,
		},
	}

	for i := range events {
		if err := f.db.Create(&events[i]).Error; err != nil {
			return nil, err
		}
	}

	return events, nil
}

func (f *Fixtures) generateRegistrations(events []models.Event, teams []models.Team) error {
	for _, team := range teams {
		status := models.RegistrationApproved
		if rand.Intn(4) == 0 {
			status = models.RegistrationPending
		}

		registration := models.EventRegistration{
			EventID: events[0].ID,
			TeamID:  team.ID,
			Status:  status,
		}
		if err := f.db.Create(&registration).Error; err != nil {
			return err
		}

		if status == models.RegistrationApproved {
			if err := f.db.Model(&models.Event{}).Where("id = ?", events[0].ID).
				Update("joined_slots", gorm.Expr("joined_slots + 1")).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func (f *Fixtures) generateRounds(events []models.Event) error {
	startTime := time.Now().Add(8 * 24 * time.Hour)

	rounds := []models.Round{
		{
			RoundName:       "Qualifiers",
			RoundNumber:     1,
			Status:          "pending",
			EventID:         events[0].ID,
			StartTime:       &startTime,
			GapMinutes:      30,
			MatchesPerGroup: 3,
			QualifyingTeams: 10,
		},
		{
			RoundName:       "Grand Finals",
			RoundNumber:     2,
			Status:          "pending",
			EventID:         events[0].ID,
			MatchesPerGroup: 5,
			QualifyingTeams: 3,
		},
	}

	for i := range rounds {
		if err := f.db.Create(&rounds[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// ClearAllData removes all fixture data in dependency order
func (f *Fixtures) ClearAllData() error {
	tables := []string{
		"leaderboard_entries",
		"leaderboards",
		"group_teams",
		"groups",
		"rounds",
		"event_registrations",
		"events",
		"teams",
		"organizations",
		"refresh_tokens",
		"users",
	}

	for _, table := range tables {
		if err := f.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}

	return nil
}
