package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-team/internal/weather"
)

// Scheduler periodically resolves configured places so that dynamic
// geocoding results are already cached when a query asks for them.
type Scheduler struct {
	scheduler *gocron.Scheduler
	resolver  weather.Resolver
	places    []string
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(places []string, interval time.Duration, resolver weather.Resolver) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		resolver:  resolver,
		places:    places,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the warm-up job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.places) == 0 {
		log.Println("scheduler: no places configured; nothing to warm")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running cache warm-up job")
		failed := s.RunOnce(context.Background())
		log.Printf("scheduler: completed cache warm-up job (%d/%d failed)", failed, len(s.places))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce resolves every place concurrently and returns how many failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, place := range s.places {
		place := place
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if _, err := s.resolver.Resolve(ctx, place); err != nil {
				log.Printf("scheduler: warm-up failed for %s: %v", place, err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
