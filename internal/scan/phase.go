package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/marketdesk/pkg/enums"
	"github.com/angelmondragon/marketdesk/pkg/redis"
)

// PhaseStore remembers the phase of each scan until its TTL runs out.
// An unknown or expired scan id is idle.
type PhaseStore interface {
	SetPhase(ctx context.Context, scanID string, phase enums.ScanPhase, ttl time.Duration) error
	Phase(ctx context.Context, scanID string) (enums.ScanPhase, error)
}

type phaseEntry struct {
	phase     enums.ScanPhase
	expiresAt time.Time
}

// MemoryPhases keeps phases in process memory.
type MemoryPhases struct {
	mu      sync.Mutex
	entries map[string]phaseEntry
	now     func() time.Time
}

func NewMemoryPhases() *MemoryPhases {
	return &MemoryPhases{entries: map[string]phaseEntry{}, now: time.Now}
}

func (m *MemoryPhases) SetPhase(_ context.Context, scanID string, phase enums.ScanPhase, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	if phase == enums.ScanPhaseIdle {
		delete(m.entries, scanID)
		return nil
	}
	entry := phaseEntry{phase: phase}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[scanID] = entry
	return nil
}

func (m *MemoryPhases) Phase(_ context.Context, scanID string) (enums.ScanPhase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[scanID]
	if !ok || m.expired(entry) {
		delete(m.entries, scanID)
		return enums.ScanPhaseIdle, nil
	}
	return entry.phase, nil
}

func (m *MemoryPhases) expired(entry phaseEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

func (m *MemoryPhases) sweep() {
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
		}
	}
}

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	ScanPhaseKey(scanID string) string
}

// RedisPhases keeps phases in redis so every replica sees the same state.
type RedisPhases struct {
	store redisStore
}

func NewRedisPhases(store redisStore) *RedisPhases {
	return &RedisPhases{store: store}
}

func (r *RedisPhases) SetPhase(ctx context.Context, scanID string, phase enums.ScanPhase, ttl time.Duration) error {
	key := r.store.ScanPhaseKey(scanID)
	if phase == enums.ScanPhaseIdle {
		return r.store.Del(ctx, key)
	}
	return r.store.Set(ctx, key, phase.String(), ttl)
}

func (r *RedisPhases) Phase(ctx context.Context, scanID string) (enums.ScanPhase, error) {
	value, err := r.store.Get(ctx, r.store.ScanPhaseKey(scanID))
	if errors.Is(err, redis.ErrNil) {
		return enums.ScanPhaseIdle, nil
	}
	if err != nil {
		return "", err
	}
	phase, err := enums.ParseScanPhase(value)
	if err != nil {
		return enums.ScanPhaseIdle, nil
	}
	return phase, nil
}
