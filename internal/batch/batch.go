package batch

import (
    "context"
    "log"
    "time"

    "floatprovider/internal/provider"
    "floatprovider/internal/resolver"
)

// Outcome is one ticker's result. Values may be empty (all attributes
// absent); Err is set only for the fatal per-ticker conditions (malformed
// ticker, provider misconfiguration) and never aborts the batch.
type Outcome struct {
    Values map[provider.Attribute]resolver.Value
    Err    error
}

// Result maps each requested ticker, keyed exactly as supplied, to its
// outcome. Every requested ticker has an entry.
type Result map[string]Outcome

// Coordinator applies the resolver sequentially across tickers with pacing
// between outbound rounds: a short delay between consecutive tickers and a
// longer pause after every PauseEvery tickers, so batch runs stay under
// provider-side throttling radars.
type Coordinator struct {
    Resolver *resolver.Resolver

    TickerDelay time.Duration // default 100ms
    PauseEvery  int           // default 20
    PauseFor    time.Duration // default 2s
    Deadline    time.Duration // overall budget; 0 = none

    Logf func(format string, args ...any)
}

func (c *Coordinator) logf(format string, args ...any) {
    if c.Logf != nil {
        c.Logf(format, args...)
        return
    }
    log.Printf(format, args...)
}

// Run resolves every ticker and returns one aggregated result. A single
// ticker's failure never aborts the batch; when the overall deadline runs
// out, remaining tickers are recorded with all attributes absent and no
// further network attempts are made.
func (c *Coordinator) Run(ctx context.Context, tickers []string, attrs []provider.Attribute) Result {
    delay := c.TickerDelay
    if delay <= 0 { delay = 100 * time.Millisecond }
    pauseEvery := c.PauseEvery
    if pauseEvery <= 0 { pauseEvery = 20 }
    pauseFor := c.PauseFor
    if pauseFor <= 0 { pauseFor = 2 * time.Second }

    if c.Deadline > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, c.Deadline)
        defer cancel()
    }

    res := make(Result, len(tickers))
    for i, t := range tickers {
        if i > 0 && ctx.Err() == nil {
            d := delay
            if i%pauseEvery == 0 { d = pauseFor }
            sleep(ctx, d)
        }
        if ctx.Err() != nil {
            res[t] = Outcome{Values: map[provider.Attribute]resolver.Value{}}
            continue
        }
        vals, err := c.Resolver.Resolve(ctx, t, attrs)
        if err != nil {
            c.logf("%s: %v", t, err)
            res[t] = Outcome{Values: map[provider.Attribute]resolver.Value{}, Err: err}
            continue
        }
        res[t] = Outcome{Values: vals}
        if len(vals) > 0 {
            c.logf("ok %s: %d of %d attribute(s)", t, len(vals), len(attrs))
        } else {
            c.logf("no data for %s", t)
        }
    }
    return res
}

func sleep(ctx context.Context, d time.Duration) {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
    case <-t.C:
    }
}
