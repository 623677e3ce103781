package recommendation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Specs maps a recommendation frequency to its cron schedule.
var Specs = map[string]string{
	"high":   "@every 4h",
	"medium": "@daily",
	"low":    "@weekly",
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs the inventory scan on a cron schedule that can be changed
// while running.
type Scheduler struct {
	svc     Service
	cron    *cron.Cron
	timeout time.Duration

	mu        sync.Mutex
	entry     cron.EntryID
	frequency string
}

// NewScheduler creates a scheduler in loc. It does nothing until Start.
func NewScheduler(svc Service, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		svc:     svc,
		cron:    cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		timeout: 5 * time.Minute,
	}
}

// SetFrequency replaces the scan schedule with the one for frequency.
func (s *Scheduler) SetFrequency(frequency string) error {
	spec, ok := Specs[frequency]
	if !ok {
		return fmt.Errorf("unknown recommendation frequency %q", frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if frequency == s.frequency {
		return nil
	}
	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return err
	}
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = id
	s.frequency = frequency
	zap.S().Infof("recommendation scan scheduled %s (%s)", frequency, spec)
	return nil
}

// Frequency is the active frequency, empty before the first SetFrequency.
func (s *Scheduler) Frequency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.svc.ScanInventory(ctx); err != nil {
		zap.S().Errorf("scheduled inventory scan: %v", err)
	}
}
