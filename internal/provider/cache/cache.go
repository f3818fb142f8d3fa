package cache

import (
    "context"
    "sort"
    "strings"
    "sync"
    "time"

    "golang.org/x/sync/singleflight"

    "floatprovider/internal/provider"
)

// entry stores one ticker's cached extractions with expiry. asked records
// which attributes the upstream was queried for, so "asked and absent" is
// served from cache too instead of re-hitting the provider.
type entry struct {
    expiresAt time.Time
    asked     map[provider.Attribute]struct{}
    found     map[provider.Attribute]provider.Extraction
}

// Provider caches extraction results per ticker for a TTL and coalesces
// concurrent refreshes of the same (ticker, attrs) request.
type Provider struct {
    P        provider.Provider
    TTL      time.Duration
    MaxItems int

    mu    sync.RWMutex
    items map[string]entry // key: ticker
    sf    singleflight.Group
}

func (c *Provider) Name() string { return c.P.Name() }

func (c *Provider) Fetch(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    if c.P == nil || c.TTL <= 0 {
        return c.P.Fetch(ctx, ticker, attrs)
    }

    now := time.Now()

    c.mu.RLock()
    e, ok := c.items[ticker]
    valid := ok && now.Before(e.expiresAt)
    covered := valid
    if valid {
        for _, a := range attrs {
            if _, asked := e.asked[a]; !asked { covered = false; break }
        }
    }
    c.mu.RUnlock()

    if covered {
        return subset(e.found, attrs), nil
    }

    v, err, _ := c.sf.Do(sfKey(ticker, attrs), func() (any, error) {
        return c.P.Fetch(ctx, ticker, attrs)
    })
    if err != nil {
        // Serve stale-but-valid data rather than failing entirely
        if valid {
            return subset(e.found, attrs), nil
        }
        return nil, err
    }
    fresh := v.(map[provider.Attribute]provider.Extraction)

    c.mu.Lock()
    if c.items == nil { c.items = make(map[string]entry) }
    ne := entry{
        expiresAt: now.Add(c.TTL),
        asked:     make(map[provider.Attribute]struct{}, len(attrs)),
        found:     make(map[provider.Attribute]provider.Extraction, len(fresh)),
    }
    // Carry still-valid earlier answers forward so the entry only grows
    if valid {
        for a := range e.asked { ne.asked[a] = struct{}{} }
        for a, ex := range e.found { ne.found[a] = ex }
    }
    for _, a := range attrs { ne.asked[a] = struct{}{} }
    for a, ex := range fresh { ne.found[a] = ex }
    c.items[ticker] = ne
    // best-effort cap cache size: drop expired first, then arbitrary
    if c.MaxItems > 0 && len(c.items) > c.MaxItems {
        for k, v := range c.items {
            if time.Now().After(v.expiresAt) {
                delete(c.items, k)
            }
            if len(c.items) <= c.MaxItems { break }
        }
        for k := range c.items {
            if len(c.items) <= c.MaxItems { break }
            delete(c.items, k)
        }
    }
    c.mu.Unlock()

    return subset(ne.found, attrs), nil
}

func subset(m map[provider.Attribute]provider.Extraction, attrs []provider.Attribute) map[provider.Attribute]provider.Extraction {
    out := make(map[provider.Attribute]provider.Extraction, len(attrs))
    for _, a := range attrs {
        if ex, ok := m[a]; ok { out[a] = ex }
    }
    return out
}

func sfKey(ticker string, attrs []provider.Attribute) string {
    parts := make([]string, 0, len(attrs)+1)
    for _, a := range attrs { parts = append(parts, string(a)) }
    sort.Strings(parts)
    return ticker + "|" + strings.Join(parts, ",")
}
