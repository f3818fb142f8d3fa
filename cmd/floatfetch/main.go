package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "time"

    "floatprovider/internal/batch"
    "floatprovider/internal/config"
    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/resolver"
    "floatprovider/internal/stack"
)

// The JSON result is the only thing written to stdout; progress and
// per-provider error detail go to stderr so callers can pipe the output.

type shortOut struct {
    ShortInterest *float64 `json:"shortInterest"`
    ShortRatio    *float64 `json:"shortRatio"`
}

type fullOut struct {
    Float         *float64 `json:"float"`
    ShortInterest *float64 `json:"shortInterest"`
    ShortRatio    *float64 `json:"shortRatio"`
}

func main() {
    var mode string
    var configPath string
    var timeout int
    var deadline int

    flag.StringVar(&mode, "mode", getenv("MODE", "float"), "attributes to resolve: float, short, or all")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "per-request timeout seconds (overrides config)")
    flag.IntVar(&deadline, "deadline", getenvInt("BATCH_DEADLINE_SEC", 0), "overall batch deadline seconds, 0 = none (overrides config)")
    flag.Parse()

    tickers := flag.Args()
    if len(tickers) == 0 {
        fmt.Fprintf(os.Stderr, "usage: %s [flags] TICKER [TICKER ...]\n", os.Args[0])
        flag.PrintDefaults()
        os.Exit(2)
    }

    var attrs []provider.Attribute
    switch mode {
    case "float":
        attrs = []provider.Attribute{provider.Float}
    case "short":
        attrs = []provider.Attribute{provider.ShortInterest, provider.ShortRatio}
    case "all":
        attrs = []provider.Attribute{provider.Float, provider.ShortInterest, provider.ShortRatio}
    default:
        fmt.Fprintf(os.Stderr, "unknown -mode %q (want float, short, or all)\n", mode)
        os.Exit(2)
    }

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }
    if deadline > 0 { cfg.Batch.DeadlineSec = deadline }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    providers, err := stack.Build(cfg, httpClient)
    if err != nil { log.Fatalf("providers: %v", err) }
    if len(providers) == 0 { log.Fatal("no providers enabled; check config or env overrides") }

    coord := &batch.Coordinator{
        Resolver:    &resolver.Resolver{Providers: providers},
        TickerDelay: time.Duration(cfg.Batch.TickerDelayMs) * time.Millisecond,
        PauseEvery:  cfg.Batch.PauseEvery,
        PauseFor:    time.Duration(cfg.Batch.PauseSec) * time.Second,
        Deadline:    time.Duration(cfg.Batch.DeadlineSec) * time.Second,
    }
    res := coord.Run(context.Background(), tickers, attrs)

    b, err := json.Marshal(render(mode, tickers, res))
    if err != nil { log.Fatalf("encode result: %v", err) }
    fmt.Println(string(b))
}

// render shapes the result per mode. Every requested ticker gets an entry;
// absent attributes serialize as null, never as zero.
func render(mode string, tickers []string, res batch.Result) any {
    get := func(t string, a provider.Attribute) *float64 {
        if v, ok := res[t].Values[a]; ok {
            x := v.Value
            return &x
        }
        return nil
    }
    switch mode {
    case "short":
        out := make(map[string]shortOut, len(tickers))
        for _, t := range tickers {
            out[t] = shortOut{ShortInterest: get(t, provider.ShortInterest), ShortRatio: get(t, provider.ShortRatio)}
        }
        return out
    case "all":
        out := make(map[string]fullOut, len(tickers))
        for _, t := range tickers {
            out[t] = fullOut{
                Float:         get(t, provider.Float),
                ShortInterest: get(t, provider.ShortInterest),
                ShortRatio:    get(t, provider.ShortRatio),
            }
        }
        return out
    }
    out := make(map[string]*float64, len(tickers))
    for _, t := range tickers {
        out[t] = get(t, provider.Float)
    }
    return out
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
