package ratelimit

import (
    "context"

    "golang.org/x/time/rate"

    "floatprovider/internal/provider"
)

// NewTokenBucket builds a token-bucket limiter keyed to one provider's
// request budget: tokensPerSecond sustained rate, burst capacity.
func NewTokenBucket(tokensPerSecond float64, burst int) *rate.Limiter {
    if tokensPerSecond <= 0 { tokensPerSecond = 0.0000001 }
    if burst <= 0 { burst = 1 }
    return rate.NewLimiter(rate.Limit(tokensPerSecond), burst)
}

// TokenBucketProvider wraps a Provider and gates calls using a token bucket.
// The ceiling is per provider identity, so parallel callers cannot defeat
// the upstream's throttling expectations.
type TokenBucketProvider struct {
    P  provider.Provider
    TB *rate.Limiter
}

func (t *TokenBucketProvider) Name() string { return t.P.Name() }

func (t *TokenBucketProvider) Fetch(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    if t.TB != nil {
        if err := t.TB.Wait(ctx); err != nil { return nil, err }
    }
    return t.P.Fetch(ctx, ticker, attrs)
}
