package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
)

// MemoryGuard is the single-process Guard used when no Redis is configured.
type MemoryGuard struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	gen   uint64
	now   func() time.Time
}

type memoryLock struct {
	expires time.Time
	gen     uint64
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{locks: make(map[string]memoryLock), now: time.Now}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, l := range g.locks {
		if !now.Before(l.expires) {
			delete(g.locks, k)
		}
	}
	if _, ok := g.locks[key]; ok {
		return nil, common.ErrCheckoutInProgress
	}

	g.gen++
	gen := g.gen
	g.locks[key] = memoryLock{expires: now.Add(ttl), gen: gen}

	return func(context.Context) error {
		g.mu.Lock()
		defer g.mu.Unlock()
		if l, ok := g.locks[key]; ok && l.gen == gen {
			delete(g.locks, key)
		}
		return nil
	}, nil
}
