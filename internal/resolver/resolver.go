package resolver

import (
    "context"
    "errors"
    "log"
    "strings"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// ErrMalformedTicker marks invalid caller input; unlike provider failures it
// is never recovered by falling back.
var ErrMalformedTicker = errors.New("malformed ticker")

// Value is the normalized outcome for one attribute, tagged with the
// provider and strategy that produced it.
type Value struct {
    Value    float64
    Provider string
    Strategy string
}

// NormalizeTicker upper-cases and trims a symbol. The resolver treats the
// result as opaque from here on.
func NormalizeTicker(s string) (string, error) {
    t := strings.ToUpper(strings.TrimSpace(s))
    if t == "" { return "", ErrMalformedTicker }
    return t, nil
}

// Resolver walks providers in priority order per (ticker, attribute) pair.
// First successful provider wins per attribute; a later provider is only
// asked for attributes still unresolved and can never overwrite an earlier
// answer. Provider-level failures advance to the next provider; exhaustion
// leaves the attribute absent, which is a normal outcome, not an error.
type Resolver struct {
    Providers  []provider.Provider
    Normalizer units.Normalizer

    // Logf receives per-provider diagnostic detail. Defaults to log.Printf,
    // which the callers point at stderr.
    Logf func(format string, args ...any)
}

func (r *Resolver) logf(format string, args ...any) {
    if r.Logf != nil {
        r.Logf(format, args...)
        return
    }
    log.Printf(format, args...)
}

// Resolve returns normalized values keyed by attribute; a missing key means
// no provider produced a usable extraction. The only error returns are
// malformed input and provider misconfiguration.
func (r *Resolver) Resolve(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]Value, error) {
    t, err := NormalizeTicker(ticker)
    if err != nil { return nil, err }

    remaining := make([]provider.Attribute, 0, len(attrs))
    seen := make(map[provider.Attribute]struct{}, len(attrs))
    for _, a := range attrs {
        if _, dup := seen[a]; dup { continue }
        seen[a] = struct{}{}
        remaining = append(remaining, a)
    }

    out := make(map[provider.Attribute]Value, len(remaining))
    for _, p := range r.Providers {
        if len(remaining) == 0 || ctx.Err() != nil { break }
        m, err := p.Fetch(ctx, t, remaining)
        if err != nil {
            if errors.Is(err, provider.ErrConfig) {
                return nil, err
            }
            // Unavailable or otherwise failed: fall through to the next
            // provider. Detail goes to diagnostics, never to the caller.
            r.logf("%s: %s: %v", t, p.Name(), err)
            continue
        }
        next := remaining[:0]
        for _, a := range remaining {
            ex, ok := m[a]
            if !ok {
                next = append(next, a)
                continue
            }
            v, nerr := r.Normalizer.Normalize(ex.Value, ex.Unit, a.Kind())
            if nerr != nil {
                // Ambiguous unit or implausible value: treated as absent
                // from this provider, eligible for the next one.
                r.logf("%s: %s: %s: %v", t, p.Name(), a, nerr)
                next = append(next, a)
                continue
            }
            out[a] = Value{Value: v, Provider: p.Name(), Strategy: ex.Strategy}
        }
        remaining = next
    }
    return out, nil
}
