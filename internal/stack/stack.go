// Package stack assembles the configured provider chain, in priority order,
// with rate-limit and cache decorators applied. Both entrypoints build from
// here so provider wiring cannot drift between them.
package stack

import (
    "fmt"
    "net/http"
    "strings"
    "time"

    "floatprovider/internal/config"
    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/provider/cache"
    "floatprovider/internal/provider/finviz"
    "floatprovider/internal/provider/polygon"
    "floatprovider/internal/provider/polygonadapter"
    "floatprovider/internal/provider/ratelimit"
    "floatprovider/internal/provider/yahoo"
)

// Build returns providers in cfg.ProviderOrder, skipping disabled ones.
// An enabled provider missing its credential is a configuration error.
func Build(cfg config.Config, hc *httpx.Client) ([]provider.Provider, error) {
    out := make([]provider.Provider, 0, len(cfg.ProviderOrder))
    for _, name := range cfg.ProviderOrder {
        switch strings.ToLower(strings.TrimSpace(name)) {
        case "yahoo":
            if !cfg.Yahoo.Enabled { continue }
            p := yahoo.New(yahoo.Config{
                APIURL:  cfg.Yahoo.APIEndpoint,
                PageURL: cfg.Yahoo.PageEndpoint,
            }, hc)
            out = append(out, decorate(p,
                cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst, cfg.Yahoo.MinRequestIntervalMs,
                cfg.Yahoo.CacheTTLSeconds, cfg.Yahoo.CacheMaxItems))
        case "finviz":
            if !cfg.Finviz.Enabled { continue }
            p := finviz.New(finviz.Config{URL: cfg.Finviz.Endpoint}, hc)
            out = append(out, decorate(p,
                cfg.Finviz.MaxRequestsPerMinute, cfg.Finviz.Burst, cfg.Finviz.MinRequestIntervalMs,
                cfg.Finviz.CacheTTLSeconds, cfg.Finviz.CacheMaxItems))
        case "polygon":
            if !cfg.Polygon.Enabled { continue }
            if cfg.Polygon.APIKey == "" {
                return nil, fmt.Errorf("polygon enabled without POLYGON_API_KEY: %w", provider.ErrConfig)
            }
            opts := []polygon.PolygonAPIClientOption{
                polygon.WithHTTPClient(hc.HTTP),
                polygon.WithHeader(http.Header{"User-Agent": []string{hc.UserAgent}}),
            }
            if cfg.Polygon.Endpoint != "" {
                opts = append(opts, polygon.WithBaseURL(cfg.Polygon.Endpoint))
            }
            client, err := polygon.NewPolygonAPIClient(cfg.Polygon.APIKey, opts...)
            if err != nil {
                return nil, fmt.Errorf("polygon client: %v: %w", err, provider.ErrConfig)
            }
            p := polygonadapter.New(polygonadapter.Config{}, client)
            out = append(out, decorate(p,
                cfg.Polygon.MaxRequestsPerMinute, cfg.Polygon.Burst, cfg.Polygon.MinRequestIntervalMs,
                cfg.Polygon.CacheTTLSeconds, cfg.Polygon.CacheMaxItems))
        default:
            return nil, fmt.Errorf("unknown provider %q in provider_order: %w", name, provider.ErrConfig)
        }
    }
    return out, nil
}

// decorate wraps a provider with its rate gate and cache. Prefer a token
// bucket with burst when an RPM budget is set, otherwise a min-interval gate.
func decorate(p provider.Provider, rpm, burst, intervalMs, ttlSec, maxItems int) provider.Provider {
    if rpm > 0 {
        p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.NewTokenBucket(float64(rpm)/60.0, burst)}
    } else if intervalMs > 0 {
        p = &ratelimit.MinInterval{P: p, Interval: time.Duration(intervalMs) * time.Millisecond}
    }
    if ttlSec > 0 {
        p = &cache.Provider{P: p, TTL: time.Duration(ttlSec) * time.Second, MaxItems: maxItems}
    }
    return p
}
