// Package scheduler runs the optional periodic cloud backup. A failed run
// is logged and abandoned; the next scheduled run is an independent
// attempt, there is no retry loop.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/fundrecords/fund-records-backend/internal/service"
)

// Scheduler wraps the cron runner.
type Scheduler struct {
	cron *cron.Cron
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// ScheduleBackup registers a cloud upload on the given cron expression.
func (s *Scheduler) ScheduleBackup(spec string, syncService *service.SyncService) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := syncService.Upload(context.Background()); err != nil {
			log.Printf("scheduled backup failed: %v", err)
			return
		}
		log.Printf("scheduled backup completed")
	})
	return err
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and returns once running jobs have finished.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
