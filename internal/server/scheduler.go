package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"github.com/factsift/factsift/internal/credibility"
	"github.com/factsift/factsift/internal/store"
)

// Scheduler re-verifies monitored topics when their schedule comes due.
type Scheduler struct {
	Store  *store.Store
	Engine *credibility.Engine
	Rdb    *redis.Client
	Stop   chan struct{}
	Logger *log.Logger

	// Tick overrides the polling interval, mainly for tests.
	Tick time.Duration
}

// Start launches the scheduling loop in the background.
func (s *Scheduler) Start() {
	tick := s.Tick
	if tick == 0 {
		tick = 10 * time.Minute
	}
	ticker := time.NewTicker(tick)
	go func() {
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	monitors, err := s.Store.ListMonitors(ctx)
	if err != nil {
		s.Logger.Printf("list monitors: %v", err)
		return
	}
	for _, m := range monitors {
		last, _ := s.Store.LatestVerificationTime(ctx, m.Topic)
		if !isDue(m.ScheduleCron, last) {
			continue
		}

		// Distributed lock avoids duplicate runs across replicas.
		if s.Rdb != nil {
			lockKey := "monitor:lock:" + m.ID
			ok, _ := s.Rdb.SetNX(ctx, lockKey, "1", 2*time.Minute).Result()
			if !ok {
				continue
			}
		}

		go s.verify(ctx, m)
	}
}

func (s *Scheduler) verify(ctx context.Context, m store.Monitor) {
	result := s.Engine.VerifyTopic(ctx, m.Topic, credibility.VerifyOptions{})
	if result.Status != credibility.StatusSuccess {
		s.Logger.Printf("monitor %s (%q) failed: %s", m.ID, m.Topic, result.Message)
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.Logger.Printf("monitor %s marshal: %v", m.ID, err)
		return
	}
	if _, err := s.Store.SaveVerification(ctx, store.VerificationRecord{
		Topic:         m.Topic,
		Strategy:      "verify_topic",
		CombinedScore: result.CombinedScore,
		Assessment:    result.Assessment,
		Result:        payload,
	}); err != nil {
		s.Logger.Printf("monitor %s save: %v", m.ID, err)
	}
}

// isDue determines if a monitor with cronSpec should run now based on its
// last verification time. Supports "@daily", "@hourly", and standard
// 5-field cron expressions.
func isDue(cronSpec string, last *time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@daily":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		if last == nil {
			return true
		}
		return now.Sub(*last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			return false
		}
		if last == nil {
			return true
		}
		next := expr.Next(*last)
		return !next.IsZero() && !next.After(now)
	}
}
