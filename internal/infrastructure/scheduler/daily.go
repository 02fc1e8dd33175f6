package scheduler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"DailyDigest/internal/ports"
)

const (
	defaultHour   = 8
	defaultMinute = 0
)

// DailyScheduler fires a job once per day at a fixed wall-clock time.
type DailyScheduler struct {
	hour     int
	minute   int
	location *time.Location
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler parses an HH:MM firing time; malformed values fall back
// to 08:00.
func NewDailyScheduler(at string, location *time.Location) *DailyScheduler {
	if location == nil {
		location = time.UTC
	}
	hour, minute := parseAt(at)
	return &DailyScheduler{hour: hour, minute: minute, location: location}
}

// Start arms the timer for the next firing time and reschedules after every
// run. Calling Start twice is a no-op.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		timer := time.NewTimer(d.untilNextRun(time.Now()))
		defer timer.Stop()
		for {
			select {
			case t := <-timer.C:
				job(t)
				timer.Reset(d.untilNextRun(time.Now()))
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

func (d *DailyScheduler) untilNextRun(now time.Time) time.Duration {
	now = now.In(d.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, d.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func parseAt(value string) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return defaultHour, defaultMinute
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return defaultHour, defaultMinute
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return defaultHour, defaultMinute
	}

	return hour, minute
}
