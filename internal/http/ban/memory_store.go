package ban

import (
	"context"
	"sync"
	"time"
)

type strikeWindow struct {
	count   int
	expires time.Time
}

// MemoryStore is the single-instance Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	bans    map[string]time.Time
	strikes map[string]strikeWindow
	log     []BanLogEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bans:    map[string]time.Time{},
		strikes: map[string]strikeWindow{},
		now:     time.Now,
	}
}

func (s *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) AddStrike(_ context.Context, target string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.strikes[target]
	if !now.Before(w.expires) {
		w = strikeWindow{expires: now.Add(window)}
	}
	w.count++
	s.strikes[target] = w
	return w.count, nil
}

func (s *MemoryStore) Ban(_ context.Context, target string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[target] = s.now().Add(d)
	delete(s.strikes, target)
	return nil
}

func (s *MemoryStore) AppendLog(_ context.Context, entry BanLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, entry)
	if len(s.log) > maxLogEntries {
		s.log = s.log[len(s.log)-maxLogEntries:]
	}
	return nil
}

func (s *MemoryStore) Log(_ context.Context) ([]BanLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BanLogEntry(nil), s.log...), nil
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans = map[string]time.Time{}
	s.strikes = map[string]strikeWindow{}
	s.log = nil
}
