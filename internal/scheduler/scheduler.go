package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic usage report and housekeeping jobs.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	spec       string
	reportFunc func(ctx context.Context) error
}

// New creates a scheduler firing on the given cron spec, evaluated in UTC.
func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetReportFunction sets the job run on every tick.
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the report job, if any, and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
	} else if err := s.AddJob(s.spec, "usage report", s.reportFunc); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started with %d jobs", len(s.cron.Entries()))
	return nil
}

// AddJob schedules fn on a cron spec, evaluated in UTC. Failures are logged.
func (s *Scheduler) AddJob(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("🕘 Triggered %s (%s UTC)", name, spec)
		if err := fn(s.ctx); err != nil {
			log.Printf("❌ %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
