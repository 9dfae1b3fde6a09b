// Package catalog fetches the product catalog and tracks its loading state.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/domain"
	"storefront/logx"
	"storefront/util"
)

const (
	// DefaultBaseURL serves the {products,total,skip,limit} catalog shape.
	DefaultBaseURL = "https://dummyjson.com"
	// DefaultLimit is the page size requested on every fetch.
	DefaultLimit = 100
	// StatusFailureMessage is shown when the API answers with a non-2xx status.
	StatusFailureMessage = "Failed to fetch products"
)

// ProductsResponse is the catalog API payload.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// Options configures a Fetcher.
type Options struct {
	BaseURL string
	Limit   int
	// HTTPClient defaults to http.DefaultClient (no timeout beyond transport defaults).
	HTTPClient *http.Client
	// GuardStale discards responses from fetches superseded by a newer one.
	// Off by default: the last response to resolve wins.
	GuardStale bool
}

// Snapshot is a copy of the fetcher state.
type Snapshot struct {
	Products  []domain.Product
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// ErrorMessage is the user-facing text for the current error, or "".
func (s Snapshot) ErrorMessage() string {
	return domain.UserMessage(s.Err)
}

// Fetcher loads the catalog from the remote API.
type Fetcher struct {
	baseURL    string
	limit      int
	client     *http.Client
	guardStale bool

	mu        sync.Mutex
	products  []domain.Product
	loading   bool
	err       error
	fetchedAt time.Time
	seq       uint64
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewFetcher returns an idle fetcher with an empty catalog.
func NewFetcher(opts Options) *Fetcher {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		baseURL:    base,
		limit:      limit,
		client:     client,
		guardStale: opts.GuardStale,
		listeners:  make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn for every state transition and returns an unsubscribe func.
func (f *Fetcher) Subscribe(fn func(Snapshot)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Fetcher) snapshotLocked() Snapshot {
	products := make([]domain.Product, len(f.products))
	copy(products, f.products)
	return Snapshot{
		Products:  products,
		Loading:   f.loading,
		Err:       f.err,
		FetchedAt: f.fetchedAt,
	}
}

// Products returns a copy of the loaded catalog.
func (f *Fetcher) Products() []domain.Product {
	return f.Snapshot().Products
}

// Fetch requests the catalog once. On failure the catalog is cleared and the
// error is kept for display; the same error is returned.
func (f *Fetcher) Fetch(ctx context.Context) error {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.loading = true
	f.err = nil
	f.notifyLocked()

	reqID := util.NewRequestID()
	start := time.Now()
	products, err := f.get(ctx, reqID)

	f.mu.Lock()
	if f.guardStale && seq != f.seq {
		logx.Debug().Str("request_id", reqID).Uint64("seq", seq).Uint64("latest", f.seq).
			Msg("discarding stale catalog response")
		// the newer fetch owns loading/err
		f.mu.Unlock()
		return err
	}
	f.loading = false
	if err != nil {
		f.products = nil
		f.err = err
		logx.Error().Err(err).Str("request_id", reqID).Msg("catalog fetch failed")
	} else {
		f.products = products
		f.err = nil
		f.fetchedAt = time.Now()
		logx.Info().Str("request_id", reqID).Int("count", len(products)).
			Int64("duration_ms", time.Since(start).Milliseconds()).Msg("catalog fetched")
	}
	f.notifyLocked()
	return err
}

// Retry re-runs the same fetch. There is no backoff and no de-duplication.
func (f *Fetcher) Retry(ctx context.Context) error {
	logx.Info().Msg("catalog retry requested")
	return f.Fetch(ctx)
}

// notifyLocked snapshots state and listeners, unlocks, then calls listeners.
func (f *Fetcher) notifyLocked() {
	snap := f.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (f *Fetcher) endpoint() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(f.limit))
	return fmt.Sprintf("%s/products?%s", f.baseURL, q.Encode())
}

func (f *Fetcher) get(ctx context.Context, reqID string) ([]domain.Product, error) {
	u := f.endpoint()
	logx.Debug().Str("request_id", reqID).Str("url", u).Msg("requesting catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.NewFetchError(0, "failed to create catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(0, "failed to reach catalog service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewFetchError(resp.StatusCode, StatusFailureMessage,
			fmt.Errorf("catalog service returned status %d", resp.StatusCode))
	}

	var body ProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewFetchError(resp.StatusCode, "failed to decode catalog response", err)
	}
	if body.Products == nil {
		return nil, domain.NewFetchError(resp.StatusCode, "failed to decode catalog response",
			fmt.Errorf("response has no products field"))
	}
	return body.Products, nil
}
