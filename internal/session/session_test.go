package session

import (
	"testing"
	"time"

	"github.com/hyperjump/marquee/internal/metadata"
	"github.com/hyperjump/marquee/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(ttl time.Duration, max int) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newResolver := func() *metadata.CachingResolver {
		return metadata.NewCachingResolver(nil, metadata.NewCache(8))
	}
	return NewManager(newResolver, ttl, max, WithClock(clock.now)), clock
}

func TestAcquire_reusesLiveSession(t *testing.T) {
	m, _ := newTestManager(time.Minute, 0)
	s := m.Acquire("")
	if s.ID == "" {
		t.Fatal("expected a session id")
	}
	again := m.Acquire(s.ID)
	if again != s {
		t.Error("expected the same session")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestAcquire_unknownIDGetsFreshSession(t *testing.T) {
	m, _ := newTestManager(time.Minute, 0)
	s := m.Acquire("not-a-session")
	if s.ID == "not-a-session" {
		t.Error("client-chosen ids must not be adopted")
	}
}

func TestAcquire_expiredSessionIsReplaced(t *testing.T) {
	m, clock := newTestManager(time.Minute, 0)
	s := m.Acquire("")
	s.Resolver.Cache().Put(metadata.Key{ExternalID: "1"}, models.MetadataRecord{})

	clock.advance(2 * time.Minute)
	fresh := m.Acquire(s.ID)
	if fresh.ID == s.ID {
		t.Fatal("expected a new session after expiry")
	}
	if fresh.Resolver.Cache().Len() != 0 {
		t.Error("new session must start with an empty cache")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestAcquire_activityExtendsLifetime(t *testing.T) {
	m, clock := newTestManager(time.Minute, 0)
	s := m.Acquire("")
	for i := 0; i < 3; i++ {
		clock.advance(45 * time.Second)
		if got := m.Acquire(s.ID); got != s {
			t.Fatalf("session expired despite activity at step %d", i)
		}
	}
}

func TestAcquire_evictsLeastRecentlyUsed(t *testing.T) {
	m, clock := newTestManager(0, 2)
	a := m.Acquire("")
	clock.advance(time.Second)
	b := m.Acquire("")
	clock.advance(time.Second)
	m.Acquire(a.ID) // a is now more recent than b
	clock.advance(time.Second)
	m.Acquire("")

	if m.Len() != 2 {
		t.Errorf("Len = %d", m.Len())
	}
	if got := m.Acquire(a.ID); got != a {
		t.Error("a should have survived")
	}
	if got := m.Acquire(b.ID); got == b {
		t.Error("b should have been evicted")
	}
}

func TestReset(t *testing.T) {
	m, _ := newTestManager(time.Minute, 0)
	s := m.Acquire("")
	s.Resolver.Cache().Put(metadata.Key{ExternalID: "1"}, models.MetadataRecord{})

	if !m.Reset(s.ID) {
		t.Fatal("Reset returned false for a live session")
	}
	if s.Resolver.Cache().Len() != 0 {
		t.Error("cache not cleared")
	}
	if m.Reset("missing") {
		t.Error("Reset returned true for an unknown session")
	}
}
