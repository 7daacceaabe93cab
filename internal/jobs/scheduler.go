package job

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the publish job from a cron timer.
type Scheduler struct {
	job      *PublishJob
	interval time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewScheduler(job *PublishJob, interval time.Duration) *Scheduler {
	return &Scheduler{job: job, interval: interval}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddJob(fmt.Sprintf("@every %s", s.interval), s.job); err != nil {
		return fmt.Errorf("registering publish job: %w", err)
	}
	c.Start()

	s.cron = c
	s.running = true
	slog.Info("scheduler service started", "interval", s.interval.String())
	return nil
}

// Stop halts the timer and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	slog.Info("scheduler service stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
