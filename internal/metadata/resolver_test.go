package metadata

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/tmdb"
)

type fakeProvider struct {
	mu          sync.Mutex
	movies      map[string]*tmdb.Movie
	search      map[string][]tmdb.SearchResult
	detailsErrs []error // returned in order before consulting movies
	searchErr   error
	detailCalls map[string]int
	searchCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		movies:      map[string]*tmdb.Movie{},
		search:      map[string][]tmdb.SearchResult{},
		detailCalls: map[string]int{},
	}
}

func (f *fakeProvider) GetMovie(ctx context.Context, id string) (*tmdb.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls[id]++
	if len(f.detailsErrs) > 0 {
		err := f.detailsErrs[0]
		f.detailsErrs = f.detailsErrs[1:]
		return nil, err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return m, nil
}

func (f *fakeProvider) SearchMovie(ctx context.Context, title string, year int) ([]tmdb.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search[title], nil
}

func (f *fakeProvider) totalDetailCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.detailCalls {
		n += c
	}
	return n
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }

func fastRetry() Option {
	return WithRetryPolicy(RetryPolicy{MaxAttempts: 5, Delay: time.Millisecond})
}

func resetErr() error {
	return &url.Error{Op: "Get", URL: "https://api.example/movie/1", Err: &net.OpError{
		Op: "read", Net: "tcp", Err: syscall.ECONNRESET,
	}}
}

func assertWellFormed(t *testing.T, rec models.MetadataRecord) {
	t.Helper()
	if rec.Status == "" || rec.PosterURL == "" || rec.Overview == "" || rec.Genres == nil {
		t.Errorf("record not well formed: %+v", rec)
	}
}

func TestResolve_success(t *testing.T) {
	p := newFakeProvider()
	p.movies["19995"] = &tmdb.Movie{
		ID:          19995,
		PosterPath:  strPtr("/kyeqWdyUXW608qlYkRqosgbbJyK.jpg"),
		Overview:    "In the 22nd century...",
		VoteAverage: floatPtr(7.2),
		Genres:      []tmdb.Genre{{Name: "Action"}, {Name: "Adventure"}, {Name: "Fantasy"}},
	}
	r := NewResolver(p, WithImageBaseURL("https://image.tmdb.org/t/p/w500/"))
	rec := r.Resolve(context.Background(), "19995", "Avatar", 2009)

	assertWellFormed(t, rec)
	if rec.Status != models.PosterSuccess {
		t.Errorf("Status = %s", rec.Status)
	}
	if rec.PosterURL != "https://image.tmdb.org/t/p/w500/kyeqWdyUXW608qlYkRqosgbbJyK.jpg" {
		t.Errorf("PosterURL = %s", rec.PosterURL)
	}
	if rec.GenreText != "Action, Adventure, Fantasy" {
		t.Errorf("GenreText = %q", rec.GenreText)
	}
	if !rec.Rating.Available || rec.Rating.Value != 7.2 {
		t.Errorf("Rating = %+v", rec.Rating)
	}
}

func TestResolve_missingFieldsUseDefaults(t *testing.T) {
	p := newFakeProvider()
	p.movies["1"] = &tmdb.Movie{ID: 1}
	r := NewResolver(p, WithPlaceholders(Placeholders{NoPoster: "np", NotFound: "nf", Error: "err"}))
	rec := r.Resolve(context.Background(), "1", "Obscure", 0)

	assertWellFormed(t, rec)
	if rec.Status != models.PosterMissing || rec.PosterURL != "np" {
		t.Errorf("poster = %s %s", rec.Status, rec.PosterURL)
	}
	if rec.Overview != models.DefaultOverview {
		t.Errorf("Overview = %q", rec.Overview)
	}
	if rec.Rating.Available {
		t.Error("rating should be unavailable")
	}
	if rec.GenreText != "" || len(rec.Genres) != 0 {
		t.Errorf("genres = %v %q", rec.Genres, rec.GenreText)
	}
}

func TestResolve_notFoundFallsBackToTitleSearch(t *testing.T) {
	p := newFakeProvider()
	p.search["Heat"] = []tmdb.SearchResult{{ID: 949, Title: "Heat"}}
	p.movies["949"] = &tmdb.Movie{ID: 949, PosterPath: strPtr("/heat.jpg"), Overview: "Obsessive master thief."}
	r := NewResolver(p, fastRetry(), WithImageBaseURL("https://img/"))

	rec := r.Resolve(context.Background(), "123456", "Heat", 1995)
	if rec.Status != models.PosterSuccess {
		t.Fatalf("Status = %s (%s)", rec.Status, rec.Overview)
	}
	if rec.PosterURL != "https://img/heat.jpg" || rec.Overview != "Obsessive master thief." {
		t.Errorf("record reflects wrong movie: %+v", rec)
	}
	if p.detailCalls["123456"] != 1 {
		t.Errorf("not-found id should not be retried; calls = %d", p.detailCalls["123456"])
	}
	if p.searchCalls != 1 {
		t.Errorf("search calls = %d", p.searchCalls)
	}
}

func TestResolve_notFoundAndNoSearchResults(t *testing.T) {
	p := newFakeProvider()
	r := NewResolver(p, fastRetry(), WithPlaceholders(Placeholders{NotFound: "nf"}))
	rec := r.Resolve(context.Background(), "42", "Nothing Here", 0)

	if rec.Status != models.PosterNotFound || rec.PosterURL != "nf" {
		t.Errorf("poster = %s %s", rec.Status, rec.PosterURL)
	}
	if want := "Movie 'Nothing Here' not found (id: 42)"; rec.Overview != want {
		t.Errorf("Overview = %q, want %q", rec.Overview, want)
	}
	if rec.Rating.Available || len(rec.Genres) != 0 {
		t.Errorf("expected empty rating and genres: %+v", rec)
	}
}

func TestResolve_retriesTransientFailures(t *testing.T) {
	p := newFakeProvider()
	p.detailsErrs = []error{&tmdb.StatusError{StatusCode: 502}, tmdb.ErrMalformedResponse}
	p.movies["7"] = &tmdb.Movie{ID: 7, Overview: "ok"}
	rec := NewResolver(p, fastRetry()).Resolve(context.Background(), "7", "Seven", 0)

	if rec.Overview != "ok" {
		t.Errorf("Overview = %q", rec.Overview)
	}
	if p.detailCalls["7"] != 3 {
		t.Errorf("calls = %d, want 3", p.detailCalls["7"])
	}
}

func TestResolve_genericErrorAfterExhaustingRetries(t *testing.T) {
	p := newFakeProvider()
	for i := 0; i < 10; i++ {
		p.detailsErrs = append(p.detailsErrs, &tmdb.StatusError{StatusCode: 500, Body: "boom"})
	}
	rec := NewResolver(p, fastRetry(), WithPlaceholders(Placeholders{Error: "err"})).
		Resolve(context.Background(), "7", "Seven", 0)

	assertWellFormed(t, rec)
	if p.detailCalls["7"] != 5 {
		t.Errorf("calls = %d, want 5", p.detailCalls["7"])
	}
	if rec.Status != models.PosterError || rec.PosterURL != "err" {
		t.Errorf("poster = %s %s", rec.Status, rec.PosterURL)
	}
	if !strings.HasPrefix(rec.Overview, "(API error: ") || !strings.Contains(rec.Overview, "500") {
		t.Errorf("Overview = %q", rec.Overview)
	}
}

func TestResolve_connectionResetIsProviderUnavailable(t *testing.T) {
	p := newFakeProvider()
	for i := 0; i < 5; i++ {
		p.detailsErrs = append(p.detailsErrs, resetErr())
	}
	rec := NewResolver(p, fastRetry()).Resolve(context.Background(), "7", "Seven", 0)

	if p.detailCalls["7"] != 5 {
		t.Errorf("calls = %d, want 5", p.detailCalls["7"])
	}
	if rec.Status != models.PosterError {
		t.Errorf("Status = %s", rec.Status)
	}
	if !strings.Contains(rec.Overview, "unavailable") || strings.Contains(rec.Overview, "API error") {
		t.Errorf("Overview = %q", rec.Overview)
	}
}

func TestResolve_connectionResetOverHTTP(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("hijacking not supported")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Error(err)
			return
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetLinger(0)
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	client := tmdb.NewClient(srv.URL, "k", tmdb.WithTimeout(2*time.Second))
	rec := NewResolver(client, fastRetry()).Resolve(context.Background(), "1", "Avatar", 2009)

	mu.Lock()
	defer mu.Unlock()
	if calls != 5 {
		t.Errorf("server calls = %d, want 5", calls)
	}
	if !strings.Contains(rec.Overview, "unavailable") {
		t.Errorf("Overview = %q", rec.Overview)
	}
}

func TestResolve_breakerRejectionStopsRetrying(t *testing.T) {
	p := newFakeProvider()
	for i := 0; i < 5; i++ {
		p.detailsErrs = append(p.detailsErrs, gobreaker.ErrOpenState)
	}
	rec := NewResolver(p, fastRetry()).Resolve(context.Background(), "7", "Seven", 0)

	if p.detailCalls["7"] != 1 {
		t.Errorf("calls = %d, want 1", p.detailCalls["7"])
	}
	if !strings.Contains(rec.Overview, "unavailable") {
		t.Errorf("Overview = %q", rec.Overview)
	}
}

func TestResolve_cancelledContextStopsRetrying(t *testing.T) {
	p := newFakeProvider()
	for i := 0; i < 5; i++ {
		p.detailsErrs = append(p.detailsErrs, &tmdb.StatusError{StatusCode: 503})
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := NewResolver(p, WithRetryPolicy(RetryPolicy{MaxAttempts: 5, Delay: time.Hour}))
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	done := make(chan models.MetadataRecord, 1)
	go func() { done <- r.Resolve(ctx, "7", "Seven", 0) }()

	select {
	case rec := <-done:
		if rec.Status != models.PosterError {
			t.Errorf("Status = %s", rec.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Resolve did not return after cancellation")
	}
	if p.totalDetailCalls() != 1 {
		t.Errorf("calls = %d, want 1", p.totalDetailCalls())
	}
}

func TestResolve_searchFailureDegrades(t *testing.T) {
	p := newFakeProvider()
	p.searchErr = &tmdb.StatusError{StatusCode: 500}
	rec := NewResolver(p, fastRetry()).Resolve(context.Background(), "7", "Seven", 0)
	if rec.Status != models.PosterError {
		t.Errorf("Status = %s", rec.Status)
	}
	if p.searchCalls != 5 {
		t.Errorf("search calls = %d, want 5", p.searchCalls)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"econnreset", resetErr(), true},
		{"econnaborted", &net.OpError{Op: "read", Err: syscall.ECONNABORTED}, true},
		{"message", errors.New("read tcp: connection reset by peer"), true},
		{"rejected", gobreaker.ErrOpenState, true},
		{"status", &tmdb.StatusError{StatusCode: 500}, false},
		{"malformed", tmdb.ErrMalformedResponse, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(Classify(tt.err), ErrProviderUnavailable)
			if got != tt.unavailable {
				t.Errorf("Classify(%v) unavailable = %v, want %v", tt.err, got, tt.unavailable)
			}
		})
	}
}
