package entitlement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	profile *Profile
	err     error
	calls   int
}

func (s *stubLoader) GetProfileByUserID(userID int) (*Profile, error) {
	s.calls++
	return s.profile, s.err
}

func newTestCache(loader *stubLoader) *Cache {
	return &Cache{repo: loader, entries: make(map[int]cacheEntry)}
}

func TestCacheServesRepeatReadsWithoutRepo(t *testing.T) {
	loader := &stubLoader{profile: &Profile{UserID: 7, SubscriptionType: SubscriptionPremium}}
	c := newTestCache(loader)

	first, err := c.ProfileByUserID(7)
	require.NoError(t, err)
	require.True(t, first.Premium())

	second, err := c.ProfileByUserID(7)
	require.NoError(t, err)
	require.True(t, second.Premium())
	require.Equal(t, 1, loader.calls)
}

func TestCacheDoesNotPinMissingProfile(t *testing.T) {
	loader := &stubLoader{}
	c := newTestCache(loader)

	p, err := c.ProfileByUserID(7)
	require.NoError(t, err)
	require.Nil(t, p)

	// The row appears (registration hook ran); the very next read must see
	// it rather than a cached absence.
	loader.profile = &Profile{UserID: 7, SubscriptionType: SubscriptionFree}
	p, err = c.ProfileByUserID(7)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 2, loader.calls)
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	loader := &stubLoader{profile: &Profile{UserID: 7, SubscriptionType: SubscriptionFree}}
	c := newTestCache(loader)

	p, _ := c.ProfileByUserID(7)
	require.False(t, p.Premium())

	loader.profile = &Profile{UserID: 7, SubscriptionType: SubscriptionPremium}
	c.Invalidate(7)

	p, _ = c.ProfileByUserID(7)
	require.True(t, p.Premium())
}

func TestCacheErrorIsNotCached(t *testing.T) {
	loader := &stubLoader{err: errors.New("db down")}
	c := newTestCache(loader)

	_, err := c.ProfileByUserID(7)
	require.Error(t, err)

	loader.err = nil
	loader.profile = &Profile{UserID: 7, SubscriptionType: SubscriptionPremium}
	p, err := c.ProfileByUserID(7)
	require.NoError(t, err)
	require.True(t, p.Premium())
}
