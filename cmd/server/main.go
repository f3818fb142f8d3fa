package main

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/gorilla/handlers"
    "github.com/gorilla/mux"

    "floatprovider/internal/batch"
    "floatprovider/internal/config"
    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/resolver"
    "floatprovider/internal/stack"
)

func main() {
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port
    timeoutSec := cfg.Server.RequestTimeoutSec

    if cfg.Polygon.Enabled && cfg.Polygon.APIKey == "" {
        log.Println("warning: polygon.enabled=true but POLYGON_API_KEY not set")
    }

    httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
    providers, err := stack.Build(cfg, httpClient)
    if err != nil { log.Fatalf("providers: %v", err) }
    if len(providers) == 0 { log.Fatal("no providers enabled; check config or env overrides") }

    coord := &batch.Coordinator{
        Resolver:    &resolver.Resolver{Providers: providers},
        TickerDelay: time.Duration(cfg.Batch.TickerDelayMs) * time.Millisecond,
        PauseEvery:  cfg.Batch.PauseEvery,
        PauseFor:    time.Duration(cfg.Batch.PauseSec) * time.Second,
    }

    r := mux.NewRouter()
    r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    }).Methods(http.MethodGet)
    r.HandleFunc("/api/resolve", func(w http.ResponseWriter, req *http.Request) {
        q := req.URL.Query().Get("tickers")
        if strings.TrimSpace(q) == "" {
            http.Error(w, "missing tickers query param", http.StatusBadRequest)
            return
        }
        tickers := splitCSV(q)
        if len(tickers) > 200 {
            http.Error(w, "too many tickers (max 200)", http.StatusBadRequest)
            return
        }
        attrs, ok := attrsForMode(req.URL.Query().Get("mode"))
        if !ok {
            http.Error(w, "unknown mode (want float, short, or all)", http.StatusBadRequest)
            return
        }
        writeResolution(w, req.Context(), coord, tickers, attrs)
    }).Methods(http.MethodGet)

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           handlers.LoggingHandler(os.Stderr, handlers.CompressHandler(withJSONHeaders(r))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      60 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func attrsForMode(mode string) ([]provider.Attribute, bool) {
    switch mode {
    case "", "float":
        return []provider.Attribute{provider.Float}, true
    case "short":
        return []provider.Attribute{provider.ShortInterest, provider.ShortRatio}, true
    case "all":
        return []provider.Attribute{provider.Float, provider.ShortInterest, provider.ShortRatio}, true
    }
    return nil, false
}

// attrValues is one ticker's payload: every requested attribute appears,
// null when absent.
type attrValues map[provider.Attribute]*float64

type resolveResponse struct {
    Results map[string]attrValues `json:"results"`
}

func writeResolution(w http.ResponseWriter, rctx context.Context, coord *batch.Coordinator, tickers []string, attrs []provider.Attribute) {
    res := coord.Run(rctx, tickers, attrs)

    resp := resolveResponse{Results: make(map[string]attrValues, len(tickers))}
    for _, t := range tickers {
        vals := make(attrValues, len(attrs))
        for _, a := range attrs {
            if v, ok := res[t].Values[a]; ok {
                x := v.Value
                vals[a] = &x
            } else {
                vals[a] = nil
            }
        }
        resp.Results[t] = vals
    }
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(resp)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        next.ServeHTTP(w, r)
    })
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
