package cache

import (
    "context"
    "errors"
    "testing"
    "time"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

type countingProvider struct {
    calls int
    data  map[provider.Attribute]provider.Extraction
    err   error
}

func (p *countingProvider) Name() string { return "upstream" }
func (p *countingProvider) Fetch(_ context.Context, _ string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    p.calls++
    if p.err != nil { return nil, p.err }
    out := make(map[provider.Attribute]provider.Extraction)
    for _, a := range attrs {
        if ex, ok := p.data[a]; ok { out[a] = ex }
    }
    return out, nil
}

func TestFetch_SecondCallServedFromCache(t *testing.T) {
    up := &countingProvider{data: map[provider.Attribute]provider.Extraction{
        provider.Float: {Value: 55.07, Unit: units.UnitM, Strategy: "table"},
    }}
    c := &Provider{P: up, TTL: time.Minute}

    attrs := []provider.Attribute{provider.Float}
    first, err := c.Fetch(context.Background(), "AAPL", attrs)
    if err != nil { t.Fatalf("first: %v", err) }
    second, err := c.Fetch(context.Background(), "AAPL", attrs)
    if err != nil { t.Fatalf("second: %v", err) }
    if up.calls != 1 { t.Fatalf("upstream calls: %d", up.calls) }
    if first[provider.Float] != second[provider.Float] {
        t.Fatalf("mismatch: %+v vs %+v", first, second)
    }
}

// An attribute that was asked for and came back absent must not trigger a
// refetch inside the TTL.
func TestFetch_AskedAndAbsentIsCached(t *testing.T) {
    up := &countingProvider{}
    c := &Provider{P: up, TTL: time.Minute}

    attrs := []provider.Attribute{provider.ShortRatio}
    if _, err := c.Fetch(context.Background(), "AAPL", attrs); err != nil { t.Fatal(err) }
    out, err := c.Fetch(context.Background(), "AAPL", attrs)
    if err != nil { t.Fatal(err) }
    if up.calls != 1 { t.Fatalf("upstream calls: %d", up.calls) }
    if len(out) != 0 { t.Fatalf("want absent, got %+v", out) }
}

// Asking for a wider attribute set than cached goes back upstream, and the
// merged entry then covers both sets.
func TestFetch_WiderRequestRefetches(t *testing.T) {
    up := &countingProvider{data: map[provider.Attribute]provider.Extraction{
        provider.Float:      {Value: 55.07, Unit: units.UnitM, Strategy: "table"},
        provider.ShortRatio: {Value: 1.85, Unit: units.UnitNone, Strategy: "table"},
    }}
    c := &Provider{P: up, TTL: time.Minute}

    if _, err := c.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.Float}); err != nil { t.Fatal(err) }
    wide := []provider.Attribute{provider.Float, provider.ShortRatio}
    out, err := c.Fetch(context.Background(), "AAPL", wide)
    if err != nil { t.Fatal(err) }
    if up.calls != 2 { t.Fatalf("upstream calls: %d", up.calls) }
    if len(out) != 2 { t.Fatalf("want both attributes: %+v", out) }

    // now covered without another upstream call
    if _, err := c.Fetch(context.Background(), "AAPL", wide); err != nil { t.Fatal(err) }
    if up.calls != 2 { t.Fatalf("upstream calls after covered request: %d", up.calls) }
}

func TestFetch_StaleServedOnUpstreamError(t *testing.T) {
    up := &countingProvider{data: map[provider.Attribute]provider.Extraction{
        provider.Float: {Value: 55.07, Unit: units.UnitM, Strategy: "table"},
    }}
    c := &Provider{P: up, TTL: time.Minute}

    attrs := []provider.Attribute{provider.Float}
    if _, err := c.Fetch(context.Background(), "AAPL", attrs); err != nil { t.Fatal(err) }

    // widen the request so the cache misses, and break the upstream
    up.err = errors.New("boom")
    wide := []provider.Attribute{provider.Float, provider.ShortRatio}
    out, err := c.Fetch(context.Background(), "AAPL", wide)
    if err != nil { t.Fatalf("stale data should mask the error: %v", err) }
    if got := out[provider.Float]; got.Value != 55.07 {
        t.Fatalf("stale float: %+v", out)
    }
}

func TestFetch_ErrorPropagatesWithoutCache(t *testing.T) {
    up := &countingProvider{err: errors.New("boom")}
    c := &Provider{P: up, TTL: time.Minute}

    if _, err := c.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.Float}); err == nil {
        t.Fatal("want error")
    }
}

func TestFetch_ZeroTTLPassesThrough(t *testing.T) {
    up := &countingProvider{}
    c := &Provider{P: up}

    attrs := []provider.Attribute{provider.Float}
    c.Fetch(context.Background(), "AAPL", attrs)
    c.Fetch(context.Background(), "AAPL", attrs)
    if up.calls != 2 { t.Fatalf("upstream calls: %d", up.calls) }
}

func TestFetch_TickersAreIndependent(t *testing.T) {
    up := &countingProvider{data: map[provider.Attribute]provider.Extraction{
        provider.Float: {Value: 1, Unit: units.UnitM, Strategy: "table"},
    }}
    c := &Provider{P: up, TTL: time.Minute}

    attrs := []provider.Attribute{provider.Float}
    c.Fetch(context.Background(), "AAPL", attrs)
    c.Fetch(context.Background(), "TSLA", attrs)
    if up.calls != 2 { t.Fatalf("upstream calls: %d", up.calls) }
}
