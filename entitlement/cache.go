package entitlement

import (
	"sync"
	"time"
)

// cacheTTL bounds staleness for reads that bypass invalidation (e.g. a tier
// change made directly in the database).
const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	profile  *Profile
	loadedAt time.Time
}

// profileLoader is the read side of the repository.
type profileLoader interface {
	GetProfileByUserID(userID int) (*Profile, error)
}

// Cache is a small in-process profile cache in front of the repository.
// The admin mutator invalidates the target user on success so the next
// entitlement evaluation sees the new tier immediately.
type Cache struct {
	repo profileLoader

	mu      sync.Mutex
	entries map[int]cacheEntry
}

func NewCache(repo *Repository) *Cache {
	return &Cache{repo: repo, entries: make(map[int]cacheEntry)}
}

func (c *Cache) ProfileByUserID(userID int) (*Profile, error) {
	c.mu.Lock()
	if e, ok := c.entries[userID]; ok && time.Since(e.loadedAt) < cacheTTL {
		c.mu.Unlock()
		return e.profile, nil
	}
	c.mu.Unlock()

	p, err := c.repo.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// A missing row is not pinned: the profile may be created a moment
		// later (registration hook, legacy backfill) and must be seen on
		// the next read, not after the TTL.
		return nil, nil
	}
	c.mu.Lock()
	c.entries[userID] = cacheEntry{profile: p, loadedAt: time.Now()}
	c.mu.Unlock()
	return p, nil
}

func (c *Cache) Invalidate(userID int) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
