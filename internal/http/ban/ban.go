package ban

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Store persists strikes, active bans and the ban log.
type Store interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	// AddStrike counts one strike against target and returns the total within window.
	AddStrike(ctx context.Context, target string, window time.Duration) (int, error)
	Ban(ctx context.Context, target string, d time.Duration) error
	AppendLog(ctx context.Context, entry BanLogEntry) error
	Log(ctx context.Context) ([]BanLogEntry, error)
}

// Manager bans a target once it collects maxStrikes strikes within duration.
type Manager struct {
	store      Store
	maxStrikes int
	duration   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewManager(store Store, maxStrikes int, duration time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:      store,
		maxStrikes: maxStrikes,
		duration:   duration,
		logger:     logger,
		now:        time.Now,
	}
}

// Banned fails open: a store error is logged and the target is let through.
func (m *Manager) Banned(ctx context.Context, target string) bool {
	banned, err := m.store.IsBanned(ctx, target)
	if err != nil {
		m.logger.Error("ban lookup failed", zap.String("target", target), zap.Error(err))
		return false
	}
	return banned
}

// Strike records a rate-limit violation and reports whether it led to a ban.
func (m *Manager) Strike(ctx context.Context, target, route string) (bool, error) {
	strikes, err := m.store.AddStrike(ctx, target, m.duration)
	if err != nil {
		return false, fmt.Errorf("failed to record strike: %w", err)
	}
	if strikes < m.maxStrikes {
		return false, nil
	}

	if err := m.store.Ban(ctx, target, m.duration); err != nil {
		return false, fmt.Errorf("failed to ban %s: %w", target, err)
	}

	entry := BanLogEntry{Target: target, Route: route, Strikes: strikes, Time: m.now().UTC()}
	if err := m.store.AppendLog(ctx, entry); err != nil {
		m.logger.Error("failed to log ban event", zap.String("target", target), zap.Error(err))
	}
	m.logger.Warn("client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int("strikes", strikes),
		zap.Duration("duration", m.duration),
	)
	return true, nil
}

func (m *Manager) Entries(ctx context.Context) ([]BanLogEntry, error) {
	entries, err := m.store.Log(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ban log: %w", err)
	}
	if entries == nil {
		entries = []BanLogEntry{}
	}
	return entries, nil
}

// Summary aggregates ban log entries for the periodic report.
type Summary struct {
	Total    int            `json:"total"`
	ByRoute  map[string]int `json:"byRoute"`
	ByTarget map[string]int `json:"byTarget"`
}

// Summarize counts the entries logged at or after since.
func Summarize(entries []BanLogEntry, since time.Time) Summary {
	s := Summary{ByRoute: map[string]int{}, ByTarget: map[string]int{}}
	for _, e := range entries {
		if e.Time.Before(since) {
			continue
		}
		s.Total++
		s.ByRoute[e.Route]++
		s.ByTarget[e.Target]++
	}
	return s
}

// LogSummary writes the bans since the given time to the logger.
func (m *Manager) LogSummary(ctx context.Context, since time.Time) (Summary, error) {
	entries, err := m.Entries(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := Summarize(entries, since)
	if s.Total == 0 {
		return s, nil
	}
	m.logger.Info("ban summary",
		zap.Time("since", since),
		zap.Int("total", s.Total),
		zap.Any("by_route", s.ByRoute),
		zap.Any("by_target", s.ByTarget),
	)
	return s, nil
}

// nextSummaryAt is 23:59 local time today, or tomorrow once that has passed.
func nextSummaryAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartDailySummary logs a ban summary every day at 23:59 until ctx is done.
func (m *Manager) StartDailySummary(ctx context.Context) {
	since := m.now()
	for {
		timer := time.NewTimer(time.Until(nextSummaryAt(m.now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		now := m.now()
		if _, err := m.LogSummary(ctx, since); err != nil {
			m.logger.Error("failed to build ban summary", zap.Error(err))
		}
		since = now
	}
}
