package kolapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// MockClient implements kol.Client against an in-memory record list. It
// honors the same narrow filter parameters as the real listing endpoint, so
// tests and local demos exercise the full translation path.
type MockClient struct {
	mu     sync.RWMutex
	nextID int64
	items  []kol.KOL
}

// NewMockClient builds a mock client seeded with the given records. Records
// without an id are assigned one.
func NewMockClient(seed ...kol.KOL) *MockClient {
	c := &MockClient{}
	for _, k := range seed {
		c.insert(k)
	}
	return c
}

var _ kol.Client = (*MockClient)(nil)

// List filters, paginates, and returns the seeded records.
func (c *MockClient) List(_ context.Context, req kol.ListRequest) (kol.ListResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := make([]kol.KOL, 0, len(c.items))
	for _, k := range c.items {
		if matchesParams(k, req.Params) {
			matched = append(matched, k)
		}
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size < 1 {
		size = 10
	}
	total := len(matched)
	pages := (total + size - 1) / size
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	items := make([]kol.KOL, end-start)
	copy(items, matched[start:end])
	return kol.ListResult{Total: total, Page: page, Size: size, Pages: pages, Items: items}, nil
}

// Create stores the record and assigns server-side identity.
func (c *MockClient) Create(_ context.Context, k kol.KOL) (kol.KOL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if k.Email != "" && existing.Email == k.Email {
			// mirror the API's constraint-violation surface
			return kol.KOL{}, &APIError{
				Status: http.StatusInternalServerError,
				Detail: fmt.Sprintf("duplicate key value violates unique constraint on email %q", k.Email),
			}
		}
	}
	return c.insert(k), nil
}

// Update replaces the record with matching kol_id.
func (c *MockClient) Update(_ context.Context, kolID string, k kol.KOL) (kol.KOL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing.KOLID == kolID {
			k.ID = existing.ID
			k.KOLID = existing.KOLID
			c.items[i] = k
			return k, nil
		}
	}
	return kol.KOL{}, &APIError{Status: http.StatusNotFound, Detail: "KOL with id " + kolID + " not found"}
}

// Delete removes the record with matching id or kol_id.
func (c *MockClient) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing.ID == id || existing.KOLID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: http.StatusNotFound, Detail: "KOL with id " + id + " not found"}
}

// Len reports how many records the mock holds.
func (c *MockClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MockClient) insert(k kol.KOL) kol.KOL {
	c.nextID++
	if k.ID == "" {
		k.ID = strconv.FormatInt(c.nextID, 10)
	}
	if k.KOLID == "" {
		k.KOLID = "kol_" + k.ID
	}
	c.items = append(c.items, k)
	return k
}

func matchesParams(k kol.KOL, params url.Values) bool {
	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		v := values[0]
		switch key {
		case "min_followers":
			min, err := strconv.ParseFloat(v, 64)
			if err != nil || k.Metrics.FollowersK < min {
				return false
			}
		case "max_followers":
			max, err := strconv.ParseFloat(v, 64)
			if err != nil || k.Metrics.FollowersK > max {
				return false
			}
		case "name":
			if !strings.Contains(strings.ToLower(k.Name), strings.ToLower(v)) {
				return false
			}
		case "gender":
			if k.Gender != v {
				return false
			}
		case "location":
			if !strings.Contains(strings.ToLower(k.Location), strings.ToLower(v)) {
				return false
			}
		case "source":
			if k.Source != v {
				return false
			}
		case "platform":
			if k.Platform != v {
				return false
			}
		case "level":
			if k.Operational.Level != v {
				return false
			}
		case "send_status":
			if k.Operational.SendStatus != v {
				return false
			}
		}
	}
	return true
}
