package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemEntry struct {
	system System
	stats  SystemStats
}

// Scheduler runs startup systems once, then every registered system each frame,
// in registration order.
type Scheduler struct {
	storage     *Storage
	startup     []System
	systems     []*systemEntry
	startupDone bool
	frames      int64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register binds the system's Query and Singleton fields and appends it to the
// per-frame list.
func (s *Scheduler) Register(system System) {
	s.bindFields(system)
	s.systems = append(s.systems, &systemEntry{
		system: system,
		stats: SystemStats{
			Name:        systemName(system),
			MinDuration: time.Duration(1<<63 - 1),
		},
	})
}

// RegisterStartup binds the system's fields and runs it once, before the
// per-frame systems of the first frame (and of the first frame after Restart).
func (s *Scheduler) RegisterStartup(system System) {
	s.bindFields(system)
	s.startup = append(s.startup, system)
}

// Restart makes the next frame run the startup systems again.
func (s *Scheduler) Restart() {
	s.startupDone = false
}

func (s *Scheduler) bindFields(system System) {
	v := reflect.ValueOf(system)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()

	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if b, ok := field.Addr().Interface().(binder); ok {
			b.bind(s.storage)
		}
	}
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once executes one frame with the given delta time in seconds. Commands issued
// by startup systems are flushed before the per-frame systems run.
func (s *Scheduler) Once(dt float64) {
	if !s.startupDone {
		frame := newUpdateFrame(dt, s.storage)
		for _, system := range s.startup {
			system.Execute(frame)
		}
		frame.Commands.Flush(s.storage)
		s.startupDone = true
	}

	frame := newUpdateFrame(dt, s.storage)
	for _, entry := range s.systems {
		start := time.Now()
		entry.system.Execute(frame)
		entry.record(time.Since(start))
	}
	frame.Commands.Flush(s.storage)
	s.frames++
}

func (e *systemEntry) record(d time.Duration) {
	e.stats.ExecutionCount++
	e.stats.LastDuration = d
	e.stats.TotalDuration += d
	e.stats.MinDuration = min(e.stats.MinDuration, d)
	e.stats.MaxDuration = max(e.stats.MaxDuration, d)
}

// Run executes frames at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, entry := range s.systems {
		st := entry.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
