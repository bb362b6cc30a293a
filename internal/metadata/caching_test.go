package metadata

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/tmdb"
)

type countingResolver struct {
	calls   atomic.Int32
	release chan struct{}
}

func (c *countingResolver) Resolve(ctx context.Context, id, title string, year int) models.MetadataRecord {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	return models.MetadataRecord{Status: models.PosterSuccess, Overview: id + title, Genres: []string{}}
}

func TestCachingResolver_secondCallIsCacheHit(t *testing.T) {
	p := newFakeProvider()
	p.movies["1"] = &tmdb.Movie{ID: 1, Overview: "one", Genres: []tmdb.Genre{{Name: "Drama"}}}
	cr := NewCachingResolver(NewResolver(p, fastRetry()), NewCache(16))
	ctx := context.Background()

	first := cr.Resolve(ctx, "1", "One", 2001)
	second := cr.Resolve(ctx, "1", "One", 2001)
	if p.totalDetailCalls() != 1 {
		t.Errorf("provider calls = %d, want 1", p.totalDetailCalls())
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached record differs: %+v vs %+v", first, second)
	}
}

func TestCachingResolver_cachesDegradedRecords(t *testing.T) {
	p := newFakeProvider()
	for i := 0; i < 5; i++ {
		p.detailsErrs = append(p.detailsErrs, &tmdb.StatusError{StatusCode: 500})
	}
	cr := NewCachingResolver(NewResolver(p, fastRetry()), NewCache(16))
	ctx := context.Background()

	first := cr.Resolve(ctx, "1", "One", 0)
	second := cr.Resolve(ctx, "1", "One", 0)
	if first.Status != models.PosterError || !reflect.DeepEqual(first, second) {
		t.Errorf("records: %+v / %+v", first, second)
	}
	if p.totalDetailCalls() != 5 {
		t.Errorf("provider calls = %d, want 5", p.totalDetailCalls())
	}
}

func TestCachingResolver_freshSessionStartsEmpty(t *testing.T) {
	inner := &countingResolver{}
	ctx := context.Background()
	NewCachingResolver(inner, NewCache(16)).Resolve(ctx, "1", "One", 0)
	NewCachingResolver(inner, NewCache(16)).Resolve(ctx, "1", "One", 0)
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestCachingResolver_concurrentMissesShareOneCall(t *testing.T) {
	inner := &countingResolver{release: make(chan struct{})}
	cr := NewCachingResolver(inner, NewCache(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]models.MetadataRecord, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cr.Resolve(ctx, "1", "One", 0)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	for _, r := range results {
		if r.Overview != "1One" {
			t.Errorf("unexpected record %+v", r)
		}
	}
}

func TestCachingResolver_cancelledCallIsNotCached(t *testing.T) {
	inner := &countingResolver{}
	cr := NewCachingResolver(inner, NewCache(16))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cr.Resolve(ctx, "1", "One", 0)
	if cr.Cache().Len() != 0 {
		t.Errorf("cache Len = %d, want 0", cr.Cache().Len())
	}
}

// leaderResolver blocks its first call until ctx is done, then degrades; later calls succeed.
type leaderResolver struct {
	calls   atomic.Int32
	entered chan struct{}
}

func (l *leaderResolver) Resolve(ctx context.Context, id, title string, year int) models.MetadataRecord {
	if l.calls.Add(1) == 1 {
		close(l.entered)
		<-ctx.Done()
		return models.MetadataRecord{Status: models.PosterError, Overview: FailureMessage(ctx.Err()), Genres: []string{}}
	}
	return models.MetadataRecord{Status: models.PosterSuccess, Overview: id + title, Genres: []string{}}
}

func TestCachingResolver_cancelledLeaderDoesNotDegradeLiveCaller(t *testing.T) {
	inner := &leaderResolver{entered: make(chan struct{})}
	cr := NewCachingResolver(inner, NewCache(16))
	ctx, cancel := context.WithCancel(context.Background())

	leader := make(chan models.MetadataRecord, 1)
	go func() { leader <- cr.Resolve(ctx, "1", "One", 0) }()
	<-inner.entered

	follower := make(chan models.MetadataRecord, 1)
	go func() { follower <- cr.Resolve(context.Background(), "1", "One", 0) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	if got := <-leader; got.Status != models.PosterError {
		t.Errorf("leader status = %q, want error", got.Status)
	}
	got := <-follower
	if got.Status != models.PosterSuccess || got.Overview != "1One" {
		t.Errorf("live caller got status=%q overview=%q, want success", got.Status, got.Overview)
	}
	if cached, ok := cr.Cache().Get(Key{ExternalID: "1", Title: "One"}); !ok || cached.Status != models.PosterSuccess {
		t.Errorf("cache = %+v, %v; want the success record", cached, ok)
	}
}
