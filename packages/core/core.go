package core

import (
	"log"

	"core/cron"
	"core/handlers"
	"core/services"

	authMiddleware "auth/middleware"
	authModels "auth/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	EventHandler        *handlers.EventHandler
	RoundHandler        *handlers.RoundHandler
	GroupHandler        *handlers.GroupHandler
	LeaderboardHandler  *handlers.LeaderboardHandler
	TeamHandler         *handlers.TeamHandler
	OrganizationHandler *handlers.OrganizationHandler
	MaintenanceService  *services.MaintenanceService
	Scheduler           *cron.Scheduler
	db                  *gorm.DB
}

func NewModule(db *gorm.DB) *Module {
	maintenanceService := services.NewMaintenanceService(db)

	return &Module{
		EventHandler:        handlers.NewEventHandler(db),
		RoundHandler:        handlers.NewRoundHandler(db),
		GroupHandler:        handlers.NewGroupHandler(db),
		LeaderboardHandler:  handlers.NewLeaderboardHandler(db),
		TeamHandler:         handlers.NewTeamHandler(db),
		OrganizationHandler: handlers.NewOrganizationHandler(db),
		MaintenanceService:  maintenanceService,
		Scheduler:           cron.NewScheduler(maintenanceService),
		db:                  db,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	events := r.Group("/events")
	{
		events.GET("", m.EventHandler.GetEvents)
		events.GET("/mine", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.GetMyEvents)
		events.GET("/:id", m.EventHandler.GetEvent)
		events.POST("", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.CreateEvent)
		events.PUT("/:id", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.UpdateEvent)
		events.DELETE("/:id", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.DeleteEvent)

		events.POST("/:id/register", authMiddleware.JWTMiddleware(), m.EventHandler.RegisterTeam)
		events.DELETE("/:id/register/:teamId", authMiddleware.JWTMiddleware(), m.EventHandler.CancelRegistration)
		events.GET("/:id/registration-status/:teamId", m.EventHandler.IsTeamRegistered)
		events.GET("/:id/teams", m.EventHandler.GetRegisteredTeams)
		events.POST("/:id/registrations/:registrationId/approve", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.ApproveRegistration)

		events.POST("/:id/close-registration", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.CloseRegistration)
		events.POST("/:id/start", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.StartEvent)
		events.POST("/:id/finish", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.EventHandler.FinishEvent)

		events.POST("/:id/rounds", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.RoundHandler.CreateRound)
	}

	rounds := r.Group("/rounds")
	{
		rounds.GET("", m.RoundHandler.GetRounds)
		rounds.GET("/:id", m.RoundHandler.GetRound)
		rounds.PATCH("/:id/status", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.RoundHandler.UpdateRoundStatus)
		rounds.DELETE("/:id", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.RoundHandler.DeleteRound)

		rounds.GET("/:id/groups", m.GroupHandler.GetGroups)
		rounds.POST("/:id/groups", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.GroupHandler.CreateGroups)
	}

	groups := r.Group("/groups")
	{
		groups.GET("/:id", m.GroupHandler.GetGroup)
		groups.PATCH("/:id", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.GroupHandler.UpdateGroup)

		groups.GET("/:id/leaderboard", m.LeaderboardHandler.GetLeaderboard)
		groups.PUT("/:id/leaderboard/:teamId", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.LeaderboardHandler.UpdateTeamScore)
		groups.POST("/:id/results", authMiddleware.JWTMiddleware(), authMiddleware.RequireRole(m.db, authModels.RoleOrganizer), m.LeaderboardHandler.UpdateGroupResults)
	}

	teams := r.Group("/teams")
	{
		teams.GET("", m.TeamHandler.GetAllTeams)
		teams.GET("/mine", authMiddleware.JWTMiddleware(), m.TeamHandler.GetMyTeams)
		teams.GET("/:id", m.TeamHandler.GetTeam)
		teams.POST("", authMiddleware.JWTMiddleware(), m.TeamHandler.CreateTeam)
		teams.PUT("/:id", authMiddleware.JWTMiddleware(), m.TeamHandler.UpdateTeam)
		teams.DELETE("/:id", authMiddleware.JWTMiddleware(), m.TeamHandler.DeleteTeam)
	}

	organizations := r.Group("/organizations")
	{
		organizations.GET("/mine", authMiddleware.JWTMiddleware(), m.OrganizationHandler.GetMyOrganization)
		organizations.GET("/:id", m.OrganizationHandler.GetOrganization)
		organizations.POST("", authMiddleware.JWTMiddleware(), m.OrganizationHandler.CreateOrganization)
		organizations.PUT("/:id", authMiddleware.JWTMiddleware(), m.OrganizationHandler.UpdateOrganization)
	}
}

// StartScheduler starts the cron scheduler for periodic maintenance
func (m *Module) StartScheduler() error {
	log.Println("Starting core module scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	log.Println("Stopping core module scheduler...")
	m.Scheduler.Stop()
}
