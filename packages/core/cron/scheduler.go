package cron

import (
	"log"

	"core/services"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron               *cron.Cron
	maintenanceService *services.MaintenanceService
}

func NewScheduler(maintenanceService *services.MaintenanceService) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:               c,
		maintenanceService: maintenanceService,
	}
}

// Start registers and starts all scheduled jobs
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	// Close expired registrations every minute
	if _, err := s.cron.AddFunc("0 * * * * *", s.runRegistrationSweep); err != nil {
		log.Printf("Error scheduling registration sweep: %v", err)
		return err
	}

	// Purge expired tokens and stale verification codes hourly
	if _, err := s.cron.AddFunc("0 0 * * * *", s.runTokenCleanup); err != nil {
		log.Printf("Error scheduling token cleanup: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

func (s *Scheduler) runRegistrationSweep() {
	expired, err := s.maintenanceService.GetExpiredRegistrationCount()
	if err != nil {
		log.Printf("Error checking expired registrations: %v", err)
		return
	}

	if expired == 0 {
		return
	}

	log.Printf("Found %d events past their registration deadline", expired)

	if err := s.maintenanceService.CloseExpiredRegistrations(); err != nil {
		log.Printf("Error closing expired registrations: %v", err)
	}
}

func (s *Scheduler) runTokenCleanup() {
	log.Println("Running token cleanup job...")

	if err := s.maintenanceService.PurgeExpiredTokens(); err != nil {
		log.Printf("Error purging expired refresh tokens: %v", err)
	}

	if err := s.maintenanceService.PurgeStaleOTPCodes(); err != nil {
		log.Printf("Error purging stale verification codes: %v", err)
	}
}

// RunNow manually triggers the registration sweep (useful for testing)
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering registration sweep...")
	s.runRegistrationSweep()
}
