package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Yahoo struct {
    Enabled               bool   `json:"enabled"`
    APIEndpoint           string `json:"api_endpoint"`
    PageEndpoint          string `json:"page_endpoint"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalMs  int    `json:"min_request_interval_ms"`
    Burst                 int    `json:"burst"`
    CacheTTLSeconds       int    `json:"cache_ttl_sec"`
    CacheMaxItems         int    `json:"cache_max_items"`
}

type Finviz struct {
    Enabled               bool   `json:"enabled"`
    Endpoint              string `json:"endpoint"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalMs  int    `json:"min_request_interval_ms"`
    Burst                 int    `json:"burst"`
    CacheTTLSeconds       int    `json:"cache_ttl_sec"`
    CacheMaxItems         int    `json:"cache_max_items"`
}

type Polygon struct {
    Enabled               bool   `json:"enabled"`
    APIKey                string `json:"api_key"`
    Endpoint              string `json:"endpoint"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalMs  int    `json:"min_request_interval_ms"`
    Burst                 int    `json:"burst"`
    CacheTTLSeconds       int    `json:"cache_ttl_sec"`
    CacheMaxItems         int    `json:"cache_max_items"`
}

type Batch struct {
    TickerDelayMs int `json:"ticker_delay_ms"`
    PauseEvery    int `json:"pause_every"`
    PauseSec      int `json:"pause_sec"`
    DeadlineSec   int `json:"deadline_sec"`
}

type Config struct {
    Server        Server   `json:"server"`
    ProviderOrder []string `json:"provider_order"`
    Yahoo         Yahoo    `json:"yahoo"`
    Finviz        Finviz   `json:"finviz"`
    Polygon       Polygon  `json:"polygon"`
    Batch         Batch    `json:"batch"`
}

func Default() Config {
    return Config{
        Server:        Server{Port: "8080", RequestTimeoutSec: 15},
        ProviderOrder: []string{"finviz", "yahoo", "polygon"},
        Yahoo: Yahoo{
            Enabled:              true,
            MinRequestIntervalMs: 100,
            CacheTTLSeconds:      300,
            CacheMaxItems:        10000,
        },
        Finviz: Finviz{
            Enabled:              true,
            MinRequestIntervalMs: 100,
            CacheTTLSeconds:      300,
            CacheMaxItems:        10000,
        },
        Polygon: Polygon{
            // Requires an API key; stays off until one is configured.
            Enabled:              false,
            MaxRequestsPerMinute: 5,
            Burst:                1,
            CacheTTLSeconds:      300,
            CacheMaxItems:        10000,
        },
        Batch: Batch{
            TickerDelayMs: 100,
            PauseEvery:    20,
            PauseSec:      2,
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("PROVIDER_ORDER"); v != "" { cfg.ProviderOrder = splitCSV(v) }

    if v := os.Getenv("YAHOO_ENABLED"); v != "" { cfg.Yahoo.Enabled = parseBool(v, cfg.Yahoo.Enabled) }
    if v := os.Getenv("YAHOO_API_ENDPOINT"); v != "" { cfg.Yahoo.APIEndpoint = v }
    if v := os.Getenv("YAHOO_PAGE_ENDPOINT"); v != "" { cfg.Yahoo.PageEndpoint = v }
    if v := os.Getenv("YAHOO_MIN_INTERVAL_MS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Yahoo.MinRequestIntervalMs = x }
    }
    if v := os.Getenv("YAHOO_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Yahoo.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("YAHOO_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Yahoo.CacheTTLSeconds = x }
    }

    if v := os.Getenv("FINVIZ_ENABLED"); v != "" { cfg.Finviz.Enabled = parseBool(v, cfg.Finviz.Enabled) }
    if v := os.Getenv("FINVIZ_ENDPOINT"); v != "" { cfg.Finviz.Endpoint = v }
    if v := os.Getenv("FINVIZ_MIN_INTERVAL_MS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Finviz.MinRequestIntervalMs = x }
    }
    if v := os.Getenv("FINVIZ_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Finviz.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("FINVIZ_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Finviz.CacheTTLSeconds = x }
    }

    if v := os.Getenv("POLYGON_ENABLED"); v != "" { cfg.Polygon.Enabled = parseBool(v, cfg.Polygon.Enabled) }
    if v := os.Getenv("POLYGON_API_KEY"); v != "" {
        cfg.Polygon.APIKey = v
        cfg.Polygon.Enabled = true
    }
    if v := os.Getenv("POLYGON_ENDPOINT"); v != "" { cfg.Polygon.Endpoint = v }
    if v := os.Getenv("POLYGON_MIN_INTERVAL_MS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Polygon.MinRequestIntervalMs = x }
    }
    if v := os.Getenv("POLYGON_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Polygon.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("POLYGON_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Polygon.CacheTTLSeconds = x }
    }

    if v := os.Getenv("BATCH_TICKER_DELAY_MS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Batch.TickerDelayMs = x }
    }
    if v := os.Getenv("BATCH_PAUSE_EVERY"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Batch.PauseEvery = x }
    }
    if v := os.Getenv("BATCH_PAUSE_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Batch.PauseSec = x }
    }
    if v := os.Getenv("BATCH_DEADLINE_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Batch.DeadlineSec = x }
    }
}

func parseBool(v string, def bool) bool {
    switch strings.ToLower(v) {
    case "1","true","yes","y": return true
    case "0","false","no","n": return false
    }
    return def
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}
