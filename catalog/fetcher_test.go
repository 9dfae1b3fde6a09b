package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/domain"
)

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Essence Mascara", Brand: "Essence", Category: "beauty", Price: 9.99, Rating: 4.9, Stock: 5, Images: []string{"a.png"}},
		{ID: 2, Title: "Red Lipstick", Brand: "Chic", Category: "beauty", Price: 12.99, Rating: 4.1, Stock: 91, Images: []string{"b.png"}},
		{ID: 3, Title: "Office Chair", Brand: "Furnix", Category: "furniture", Price: 149.99, Rating: 3.6, Stock: 12, Images: []string{"c.png"}},
	}
}

func writeCatalog(t *testing.T, w http.ResponseWriter, products []domain.Product) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ProductsResponse{Products: products, Total: len(products), Limit: 100})
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "limit=100", r.URL.RawQuery)
		writeCatalog(t, w, fixtureProducts())
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL + "/"})
	require.NoError(t, f.Fetch(context.Background()))

	snap := f.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.Equal(t, fixtureProducts(), snap.Products)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFetch_CustomLimitAndEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"products":[],"total":0,"skip":0,"limit":10}`))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Limit: 10})
	require.NoError(t, f.Fetch(context.Background()))
	assert.Empty(t, f.Products())
	assert.NoError(t, f.Snapshot().Err)
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: StatusFailureMessage,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"products": [`))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "failed to decode catalog response",
		},
		{
			name: "missing products field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"total": 0}`))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "failed to decode catalog response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewFetcher(Options{BaseURL: srv.URL})
			err := f.Fetch(context.Background())
			require.Error(t, err)

			var fe *domain.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantStatus, fe.Status)

			snap := f.Snapshot()
			assert.False(t, snap.Loading)
			assert.Equal(t, tt.wantMessage, snap.ErrorMessage())
			assert.Empty(t, snap.Products)
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(Options{BaseURL: url})
	err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsFetchError(err))
	assert.Equal(t, "failed to reach catalog service", f.Snapshot().ErrorMessage())
}

func TestFetch_FailureClearsPreviousCatalog(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeCatalog(t, w, fixtureProducts())
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	require.NoError(t, f.Fetch(context.Background()))
	require.Len(t, f.Products(), 3)

	fail.Store(true)
	require.Error(t, f.Retry(context.Background()))
	assert.Empty(t, f.Products(), "a failed fetch does not keep a stale catalog")

	fail.Store(false)
	require.NoError(t, f.Retry(context.Background()))
	assert.Len(t, f.Products(), 3)
	assert.NoError(t, f.Snapshot().Err, "a successful retry clears the error")
}

func TestFetch_NotifiesTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCatalog(t, w, fixtureProducts())
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	var mu sync.Mutex
	var loading []bool
	unsubscribe := f.Subscribe(func(s Snapshot) {
		mu.Lock()
		loading = append(loading, s.Loading)
		mu.Unlock()
	})

	require.NoError(t, f.Fetch(context.Background()))
	unsubscribe()
	require.NoError(t, f.Fetch(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, loading)
}

// racingServer answers the first request only after release is closed, with
// first; every later request gets second immediately.
func racingServer(t *testing.T, first, second []domain.Product) (*httptest.Server, chan struct{}, chan struct{}) {
	var n atomic.Int32
	release := make(chan struct{})
	firstArrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			close(firstArrived)
			<-release
			writeCatalog(t, w, first)
			return
		}
		writeCatalog(t, w, second)
	}))
	return srv, release, firstArrived
}

func runRace(t *testing.T, guard bool) []domain.Product {
	all := fixtureProducts()
	srv, release, firstArrived := racingServer(t, all[:1], all[1:])
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, GuardStale: guard})
	done := make(chan error, 1)
	go func() { done <- f.Fetch(context.Background()) }()

	select {
	case <-firstArrived:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never arrived")
	}
	require.NoError(t, f.Retry(context.Background()))
	close(release)
	require.NoError(t, <-done)

	snap := f.Snapshot()
	assert.False(t, snap.Loading)
	return snap.Products
}

func TestFetch_OverlappingRetriesLastResponseWins(t *testing.T) {
	got := runRace(t, false)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID, "the slower, older response overwrites the newer one")
}

func TestFetch_GuardStaleKeepsNewestResponse(t *testing.T) {
	got := runRace(t, true)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCatalog(t, w, fixtureProducts())
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	require.NoError(t, f.Fetch(context.Background()))

	p := f.Products()
	p[0].Title = "mutated"
	assert.Equal(t, "Essence Mascara", f.Products()[0].Title)
}
